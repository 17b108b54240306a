package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	publicBlogKeyPrefix = "public:blog:%d"
	publicListKey       = "public:blogs"
)

// PublicBlogTTL bounds staleness of the cached public detail view.
const PublicBlogTTL = 10 * time.Minute

// PublicListTTL is short; the listing changes on every publish.
const PublicListTTL = time.Minute

func PublicBlogKey(id uint) string {
	return fmt.Sprintf(publicBlogKeyPrefix, id)
}

func PublicListKey() string {
	return publicListKey
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache failures degrade to the fetch path.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		observability.CacheHits.WithLabelValues("hit").Inc()
		return nil
	}
	observability.CacheHits.WithLabelValues("miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a single key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePublicBlog drops both the detail and listing entries for a post.
func InvalidatePublicBlog(ctx context.Context, id uint) {
	Invalidate(ctx, PublicBlogKey(id))
	Invalidate(ctx, PublicListKey())
}
