package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// BlogRepository defines the data operations backing the blog lifecycle.
// Every mutation is scoped by both the row id and the owner's id, so a
// cross-owner write is observationally identical to a write against a row
// that does not exist.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	// UpdateOwned rewrites title, content, tags and status of the row
	// matching id AND ownerID, bumping updated_at. It returns the number of
	// rows affected; zero means no matching row (missing or foreign), which
	// callers treat per-operation.
	UpdateOwned(ctx context.Context, ownerID, id uint, title, content string, tags []string, status string) (int64, error)
	// Delete removes the owner's row if present. Deleting an absent or
	// foreign row is a silent no-op.
	Delete(ctx context.Context, ownerID, id uint) error
	ListDrafts(ctx context.Context, ownerID uint) ([]*models.Blog, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Blog, error)
	GetOwned(ctx context.Context, ownerID, id uint) (*models.Blog, error)
	ListPublished(ctx context.Context) ([]*models.BlogSummary, error)
	GetPublished(ctx context.Context, id uint) (*models.PublicBlog, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Create", "blogs")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return err
	}
	observability.BlogWrites.WithLabelValues("create").Inc()
	if blog.Status == models.StatusPublished {
		cache.Invalidate(ctx, cache.PublicListKey())
	}
	return nil
}

func (r *blogRepository) UpdateOwned(ctx context.Context, ownerID, id uint, title, content string, tags []string, status string) (int64, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "UpdateOwned", "blogs")
	defer span.End()

	// Select forces zero values (e.g. cleared title) to be written too.
	res := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Select("Title", "Content", "Tags", "Status").
		Updates(models.Blog{Title: title, Content: content, Tags: tags, Status: status})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		observability.BlogWrites.WithLabelValues("update").Inc()
		cache.InvalidatePublicBlog(ctx, id)
	}
	return res.RowsAffected, nil
}

func (r *blogRepository) Delete(ctx context.Context, ownerID, id uint) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Delete", "blogs")
	defer span.End()

	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Delete(&models.Blog{}, id).Error
	if err != nil {
		return err
	}
	observability.BlogWrites.WithLabelValues("delete").Inc()
	cache.InvalidatePublicBlog(ctx, id)
	return nil
}

func (r *blogRepository) ListDrafts(ctx context.Context, ownerID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", ownerID, models.StatusDraft).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) GetOwned(ctx context.Context, ownerID, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&blog).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) ListPublished(ctx context.Context) ([]*models.BlogSummary, error) {
	var summaries []*models.BlogSummary
	err := cache.Aside(ctx, cache.PublicListKey(), &summaries, cache.PublicListTTL, func() error {
		return r.db.WithContext(ctx).Model(&models.Blog{}).
			Select("id", "title", "created_at", "tags", "status").
			Where("status = ?", models.StatusPublished).
			Order("created_at DESC").
			Find(&summaries).Error
	})
	return summaries, err
}

func (r *blogRepository) GetPublished(ctx context.Context, id uint) (*models.PublicBlog, error) {
	var blog models.PublicBlog
	err := cache.Aside(ctx, cache.PublicBlogKey(id), &blog, cache.PublicBlogTTL, func() error {
		return r.db.WithContext(ctx).Model(&models.Blog{}).
			Select("id", "title", "content", "tags", "created_at").
			Where("id = ? AND status = ?", id, models.StatusPublished).
			First(&blog).Error
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}
