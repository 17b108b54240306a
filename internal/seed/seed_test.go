package seed

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Blog{}))
	return db
}

func TestCreateUsersIncludesFixedWriter(t *testing.T) {
	s := NewSeeder(setupSeedTestDB(t))

	users, err := s.CreateUsers(5)
	require.NoError(t, err)
	require.Len(t, users, 5)
	assert.Equal(t, "writer@example.com", users[0].Email)

	seen := map[string]bool{}
	for _, u := range users {
		assert.False(t, seen[u.Email], "duplicate email %s", u.Email)
		seen[u.Email] = true
		assert.NotEmpty(t, u.Password)
		assert.NotEqual(t, DemoPassword, u.Password, "password must be stored hashed")
	}
}

func TestCreatePostsAssignsValidOwnersAndStatuses(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(3)
	require.NoError(t, err)

	posts, err := s.CreatePosts(users, 20)
	require.NoError(t, err)
	require.Len(t, posts, 20)

	owners := map[uint]bool{}
	for _, u := range users {
		owners[u.ID] = true
	}
	for _, p := range posts {
		assert.True(t, owners[p.UserID], "post owned by unknown user %d", p.UserID)
		assert.True(t, models.ValidStatus(p.Status))
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Tags)
	}
}

func TestCreatePostsRequiresUsers(t *testing.T) {
	s := NewSeeder(setupSeedTestDB(t))
	_, err := s.CreatePosts(nil, 5)
	assert.Error(t, err)
}

func TestBuildPostOverrides(t *testing.T) {
	s := NewSeeder(setupSeedTestDB(t))
	owner := &models.User{ID: 9}

	blog := s.BuildPost(owner, func(b *models.Blog) {
		b.Status = models.StatusDraft
		b.Title = "pinned title"
	})
	assert.Equal(t, uint(9), blog.UserID)
	assert.Equal(t, models.StatusDraft, blog.Status)
	assert.Equal(t, "pinned title", blog.Title)
}
