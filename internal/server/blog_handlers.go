package server

import (
	"errors"
	"strconv"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// blogRequest is the body shape shared by save-draft, publish and update.
// The owner always comes from the verified token, never from the body.
type blogRequest struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
}

func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

func parseBlogID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid blog id")
	}
	return uint(id), nil
}

// upsert implements the shared save-draft/publish path: with an id it
// rewrites the owner's existing row forcing the given status, without one it
// inserts a fresh row.
func (s *Server) upsert(c *fiber.Ctx, status, updatedMsg string) error {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	ownerID := currentUserID(c)
	tags := models.NormalizeTags(req.Tags)

	if req.ID != 0 {
		rows, err := s.blogRepo.UpdateOwned(c.Context(), ownerID, req.ID, req.Title, req.Content, tags, status)
		if err != nil {
			return models.RespondWithError(c, models.NewStoreError(err))
		}
		if rows == 0 {
			return models.RespondWithError(c,
				models.NewNotFoundError("Blog", req.ID))
		}
		return c.JSON(fiber.Map{"message": updatedMsg})
	}

	blog := &models.Blog{
		Title:   req.Title,
		Content: req.Content,
		Tags:    tags,
		Status:  status,
		UserID:  ownerID,
	}
	if err := s.blogRepo.Create(c.Context(), blog); err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(blog)
}

// SaveDraft handles POST /api/blogs/save-draft
func (s *Server) SaveDraft(c *fiber.Ctx) error {
	return s.upsert(c, models.StatusDraft, "Draft updated")
}

// Publish handles POST /api/blogs/publish
func (s *Server) Publish(c *fiber.Ctx) error {
	return s.upsert(c, models.StatusPublished, "Blog published")
}

// GetDrafts handles GET /api/blogs/drafts
func (s *Server) GetDrafts(c *fiber.Ctx) error {
	drafts, err := s.blogRepo.ListDrafts(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	return c.JSON(drafts)
}

// GetMyBlogs handles GET /api/blogs
func (s *Server) GetMyBlogs(c *fiber.Ctx) error {
	blogs, err := s.blogRepo.ListByOwner(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	return c.JSON(blogs)
}

// GetMyBlog handles GET /api/blogs/:id. An id owned by someone else is a
// plain 404; existence of foreign posts is never revealed.
func (s *Server) GetMyBlog(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blog, err := s.blogRepo.GetOwned(c.Context(), currentUserID(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Blog", id))
		}
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	return c.JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/:id. Unlike save-draft/publish the
// caller supplies the status explicitly. A no-op update against a missing or
// foreign id still acks success.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if !models.ValidStatus(req.Status) {
		return models.RespondWithError(c,
			models.NewValidationError("Status must be 'draft' or 'published'"))
	}

	tags := models.NormalizeTags(req.Tags)
	if _, err := s.blogRepo.UpdateOwned(c.Context(), currentUserID(c), id, req.Title, req.Content, tags, req.Status); err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	return c.JSON(fiber.Map{"message": "Blog updated"})
}

// DeleteBlog handles DELETE /api/blogs/:id. Deleting an absent or foreign id
// acks success; the operation is idempotent.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.blogRepo.Delete(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	return c.JSON(fiber.Map{"message": "Blog deleted"})
}

// GetPublicBlogs handles GET /api/public/blogs
func (s *Server) GetPublicBlogs(c *fiber.Ctx) error {
	summaries, err := s.blogRepo.ListPublished(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	if summaries == nil {
		summaries = []*models.BlogSummary{}
	}
	return c.JSON(summaries)
}

// GetPublicBlog handles GET /api/public/blogs/:id. Drafts are
// indistinguishable from missing posts here.
func (s *Server) GetPublicBlog(c *fiber.Ctx) error {
	id, err := parseBlogID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blog, err := s.blogRepo.GetPublished(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Blog", id))
		}
		return models.RespondWithError(c, models.NewStoreError(err))
	}
	return c.JSON(blog)
}
