package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"inkwell/internal/models"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API server's base URL (e.g. "http://localhost:5000").
	BaseURL string
	// Session supplies the bearer token for protected calls and receives the
	// token minted by Login. Required.
	Session *Session
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is a typed client for the blogging API. All methods are stateless
// round trips; there are no retries and no token refresh — an expired session
// surfaces as an *APIError with StatusCode 403 and the caller re-logs-in.
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
	logger     *slog.Logger
}

// APIError is a non-2xx response decoded into the server's error shape.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.StatusCode)
}

// PostInput is the request body for draft/publish/update calls. A zero ID
// means "create"; tags are sent as-is and normalized server-side.
type PostInput struct {
	ID      uint     `json:"id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status,omitempty"`
}

// NewClient creates a Client for the API at BaseURL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("client: Session is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		session:    cfg.Session,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// do runs one JSON round trip. With auth true the cached token is attached
// verbatim; out may be nil when the caller ignores the body.
func (c *Client) do(ctx context.Context, method, path string, auth bool, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var er models.ErrorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			apiErr.Code = er.Code
			apiErr.Message = er.Error
		}
		c.logger.DebugContext(ctx, "api call failed",
			"method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Register creates an account. No token is minted; call Login afterwards.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", false, map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a session token and caches it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var body struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", false, map[string]string{
		"email":    email,
		"password": password,
	}, &body)
	if err != nil {
		return err
	}
	return c.session.SaveToken(body.Token)
}

// Logout forgets the cached token. Purely local; tokens cannot be revoked
// server-side.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// SaveDraft creates or updates a draft. The created record is returned for a
// new post; updates return (nil, nil) on success.
func (c *Client) SaveDraft(ctx context.Context, in PostInput) (*models.Blog, error) {
	return c.upsert(ctx, "/api/blogs/save-draft", in)
}

// Publish creates or updates a post with published status. Same return shape
// as SaveDraft.
func (c *Client) Publish(ctx context.Context, in PostInput) (*models.Blog, error) {
	return c.upsert(ctx, "/api/blogs/publish", in)
}

func (c *Client) upsert(ctx context.Context, path string, in PostInput) (*models.Blog, error) {
	in.Status = ""
	if in.ID != 0 {
		return nil, c.do(ctx, http.MethodPost, path, true, in, nil)
	}
	var blog models.Blog
	if err := c.do(ctx, http.MethodPost, path, true, in, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// Drafts lists the caller's draft posts.
func (c *Client) Drafts(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	err := c.do(ctx, http.MethodGet, "/api/blogs/drafts", true, nil, &blogs)
	return blogs, err
}

// MyBlogs lists every post owned by the caller, drafts included.
func (c *Client) MyBlogs(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	err := c.do(ctx, http.MethodGet, "/api/blogs", true, nil, &blogs)
	return blogs, err
}

// MyBlog fetches one owned post by id.
func (c *Client) MyBlog(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/blogs/%d", id), true, nil, &blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Update rewrites a post with an explicit status.
func (c *Client) Update(ctx context.Context, id uint, in PostInput) error {
	in.ID = 0
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/blogs/%d", id), true, in, nil)
}

// Delete removes a post. Deleting an already-deleted id still succeeds.
func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/blogs/%d", id), true, nil, nil)
}

// PublicBlogs lists published post summaries, newest first.
func (c *Client) PublicBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	var list []models.BlogSummary
	err := c.do(ctx, http.MethodGet, "/api/public/blogs", false, nil, &list)
	return list, err
}

// PublicBlog fetches one published post. Drafts and missing ids are the same
// 404 to this caller.
func (c *Client) PublicBlog(ctx context.Context, id uint) (*models.PublicBlog, error) {
	var blog models.PublicBlog
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/public/blogs/%d", id), false, nil, &blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}
