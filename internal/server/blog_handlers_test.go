package server

import (
	"fmt"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createBlog posts to path and returns the created record's id.
func createBlog(t *testing.T, app *fiber.App, tok, path string, payload fiber.Map) uint {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, path, tok, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var blog models.Blog
	decodeJSON(t, resp, &blog)
	require.NotZero(t, blog.ID)
	return blog.ID
}

func TestSaveDraftCreatesRecord(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/blogs/save-draft", tok, fiber.Map{
		"title":   "WIP",
		"content": "unfinished thoughts",
		"tags":    []string{"go, testing", " fiber "},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var blog models.Blog
	decodeJSON(t, resp, &blog)
	assert.Equal(t, models.StatusDraft, blog.Status)
	assert.Equal(t, []string{"go", "testing", "fiber"}, blog.Tags)
	assert.NotZero(t, blog.UserID)
}

func TestSaveDraftUpdatesExisting(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	id := createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{
		"title": "v1", "content": "first",
	})

	resp := doJSON(t, app, fiber.MethodPost, "/api/blogs/save-draft", tok, fiber.Map{
		"id": id, "title": "v2", "content": "second",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Draft updated", body["message"])

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/blogs/%d", id), tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var blog models.Blog
	decodeJSON(t, resp, &blog)
	assert.Equal(t, "v2", blog.Title)
	assert.Equal(t, models.StatusDraft, blog.Status)
}

func TestSaveDraftUnknownIDIs404(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/blogs/save-draft", tok, fiber.Map{
		"id": 9999, "title": "ghost", "content": "x",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSaveDraftCannotTouchForeignPost(t *testing.T) {
	_, app := newTestServer(t)
	aliceTok := registerAndLogin(t, app, "alice@example.com")
	bobTok := registerAndLogin(t, app, "bob@example.com")

	id := createBlog(t, app, aliceTok, "/api/blogs/save-draft", fiber.Map{
		"title": "alice's draft", "content": "private",
	})

	// Bob targeting Alice's id sees the same 404 as a missing row.
	resp := doJSON(t, app, fiber.MethodPost, "/api/blogs/save-draft", bobTok, fiber.Map{
		"id": id, "title": "hijacked", "content": "x",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/blogs/%d", id), aliceTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var blog models.Blog
	decodeJSON(t, resp, &blog)
	assert.Equal(t, "alice's draft", blog.Title)
}

func TestPublishNewAndExisting(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	// Publishing without an id creates a published record directly.
	resp := doJSON(t, app, fiber.MethodPost, "/api/blogs/publish", tok, fiber.Map{
		"title": "hot take", "content": "published at once",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var blog models.Blog
	decodeJSON(t, resp, &blog)
	assert.Equal(t, models.StatusPublished, blog.Status)

	// Publishing an existing draft flips its status.
	draftID := createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{
		"title": "slow take", "content": "was a draft",
	})
	resp = doJSON(t, app, fiber.MethodPost, "/api/blogs/publish", tok, fiber.Map{
		"id": draftID, "title": "slow take", "content": "was a draft",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Blog published", body["message"])

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/blogs/%d", draftID), tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &blog)
	assert.Equal(t, models.StatusPublished, blog.Status)
}

func TestGetDraftsExcludesPublished(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "d1", "content": "x"})
	createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "d2", "content": "x"})
	createBlog(t, app, tok, "/api/blogs/publish", fiber.Map{"title": "p1", "content": "x"})

	resp := doJSON(t, app, fiber.MethodGet, "/api/blogs/drafts", tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var drafts []models.Blog
	decodeJSON(t, resp, &drafts)
	require.Len(t, drafts, 2)
	for _, d := range drafts {
		assert.Equal(t, models.StatusDraft, d.Status)
	}
}

func TestGetMyBlogsScopedToOwner(t *testing.T) {
	_, app := newTestServer(t)
	aliceTok := registerAndLogin(t, app, "alice@example.com")
	bobTok := registerAndLogin(t, app, "bob@example.com")

	createBlog(t, app, aliceTok, "/api/blogs/save-draft", fiber.Map{"title": "mine", "content": "x"})
	createBlog(t, app, bobTok, "/api/blogs/publish", fiber.Map{"title": "his", "content": "x"})

	resp := doJSON(t, app, fiber.MethodGet, "/api/blogs/", aliceTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var blogs []models.Blog
	decodeJSON(t, resp, &blogs)
	require.Len(t, blogs, 1)
	assert.Equal(t, "mine", blogs[0].Title)
}

func TestGetMyBlogForeignIDIs404(t *testing.T) {
	_, app := newTestServer(t)
	aliceTok := registerAndLogin(t, app, "alice@example.com")
	bobTok := registerAndLogin(t, app, "bob@example.com")

	id := createBlog(t, app, aliceTok, "/api/blogs/save-draft", fiber.Map{"title": "t", "content": "x"})

	resp := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/blogs/%d", id), bobTok, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGetMyBlogBadIDIs400(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	resp := doJSON(t, app, fiber.MethodGet, "/api/blogs/abc", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateBlogChangesFieldsAndStatus(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	id := createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "old", "content": "x"})

	resp := doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/blogs/%d", id), tok, fiber.Map{
		"title": "new", "content": "y", "tags": []string{"a,b"}, "status": models.StatusPublished,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Blog updated", body["message"])

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/blogs/%d", id), tok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var blog models.Blog
	decodeJSON(t, resp, &blog)
	assert.Equal(t, "new", blog.Title)
	assert.Equal(t, []string{"a", "b"}, blog.Tags)
	assert.Equal(t, models.StatusPublished, blog.Status)
}

func TestUpdateBlogRejectsUnknownStatus(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	id := createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "t", "content": "x"})

	resp := doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/blogs/%d", id), tok, fiber.Map{
		"title": "t", "content": "x", "status": "archived",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateBlogMissingIDStillAcks(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	resp := doJSON(t, app, fiber.MethodPut, "/api/blogs/9999", tok, fiber.Map{
		"title": "ghost", "content": "x", "status": models.StatusDraft,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteBlogIdempotent(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	id := createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "t", "content": "x"})

	path := fmt.Sprintf("/api/blogs/%d", id)
	resp := doJSON(t, app, fiber.MethodDelete, path, tok, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Deleting again still acks.
	resp = doJSON(t, app, fiber.MethodDelete, path, tok, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, path, tok, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteBlogCannotTouchForeignPost(t *testing.T) {
	_, app := newTestServer(t)
	aliceTok := registerAndLogin(t, app, "alice@example.com")
	bobTok := registerAndLogin(t, app, "bob@example.com")

	id := createBlog(t, app, aliceTok, "/api/blogs/save-draft", fiber.Map{"title": "t", "content": "x"})

	resp := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/blogs/%d", id), bobTok, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Alice's post survives.
	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/blogs/%d", id), aliceTok, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestPublicListShowsOnlyPublished(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "hidden", "content": "x"})
	createBlog(t, app, tok, "/api/blogs/publish", fiber.Map{"title": "visible", "content": "x"})

	resp := doJSON(t, app, fiber.MethodGet, "/api/public/blogs/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []models.BlogSummary
	decodeJSON(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "visible", list[0].Title)
	assert.Equal(t, models.StatusPublished, list[0].Status)
}

func TestPublicListEmptyIsArray(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/public/blogs/", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []models.BlogSummary
	decodeJSON(t, resp, &list)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPublicDetailHidesDrafts(t *testing.T) {
	_, app := newTestServer(t)
	tok := registerAndLogin(t, app, "writer@example.com")

	draftID := createBlog(t, app, tok, "/api/blogs/save-draft", fiber.Map{"title": "hidden", "content": "x"})
	pubID := createBlog(t, app, tok, "/api/blogs/publish", fiber.Map{"title": "visible", "content": "body"})

	resp := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/public/blogs/%d", draftID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/public/blogs/%d", pubID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var blog models.PublicBlog
	decodeJSON(t, resp, &blog)
	assert.Equal(t, "visible", blog.Title)
	assert.Equal(t, "body", blog.Content)
}
