package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Blog statuses. These are the only two reachable states of a persisted post;
// visibility on the public endpoints is gated on StatusPublished at the query
// layer.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatus reports whether s is one of the two persisted blog statuses.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished
}

// Blog represents a blog post. UserID is the immutable owner; every mutating
// query is scoped by both id and user_id so cross-owner access surfaces as a
// plain miss.
type Blog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	Tags      []string       `gorm:"serializer:json;type:text" json:"tags"`
	Status    string         `gorm:"not null;default:draft;index" json:"status"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BlogSummary is the public list projection. Content is intentionally left
// out to keep the listing payload small.
type BlogSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	Status    string    `json:"status"`
}

// PublicBlog is the public detail projection of a published post.
type PublicBlog struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTags flattens comma-separated entries, trims whitespace and drops
// empties. Order and duplicates are otherwise preserved.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, tag := range strings.Split(entry, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			tags = append(tags, tag)
		}
	}
	return tags
}
