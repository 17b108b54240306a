package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedBlog struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestAsideFetchesOnMissAndServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedBlog) func() error {
		return func() error {
			fetches++
			dest.ID = 1
			dest.Title = "from store"
			return nil
		}
	}

	var first cachedBlog
	require.NoError(t, Aside(ctx, PublicBlogKey(1), &first, PublicBlogTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from store", first.Title)

	var second cachedBlog
	require.NoError(t, Aside(ctx, PublicBlogKey(1), &second, PublicBlogTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should hit the cache")
	assert.Equal(t, "from store", second.Title)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	setupMiniredis(t)

	wantErr := errors.New("store down")
	var dest cachedBlog
	err := Aside(context.Background(), PublicBlogKey(2), &dest, PublicBlogTTL, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAsideWithoutRedis(t *testing.T) {
	SetClient(nil)

	var dest cachedBlog
	err := Aside(context.Background(), PublicBlogKey(3), &dest, PublicBlogTTL, func() error {
		dest.Title = "direct"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", dest.Title)
}

func TestInvalidatePublicBlog(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PublicBlogKey(5), cachedBlog{ID: 5}, PublicBlogTTL))
	require.NoError(t, SetJSON(ctx, PublicListKey(), []cachedBlog{{ID: 5}}, PublicListTTL))

	InvalidatePublicBlog(ctx, 5)

	var dest cachedBlog
	found, err := GetJSON(ctx, PublicBlogKey(5), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	var list []cachedBlog
	found, err = GetJSON(ctx, PublicListKey(), &list)
	require.NoError(t, err)
	assert.False(t, found)
}
