// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DemoPassword is the password every seeded user logs in with.
const DemoPassword = "password123"

var tagPool = []string{
	"go", "web", "databases", "testing", "devops", "homelab", "linux",
	"frontend", "backend", "career", "books", "opinion", "tutorial",
}

// Seeder builds and persists demo users and posts.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	src := time.Now().UnixNano()
	gofakeit.Seed(src)
	return &Seeder{db: db, r: rand.New(rand.NewSource(src))}
}

// Run populates the database per opts.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear existing data, continuing anyway...")
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created", len(users))

	posts, err := s.CreatePosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	log.Println("Database seeding completed")
	return nil
}

// ClearAll truncates seeded tables.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE blogs, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// CreateUsers persists count demo users, always including a fixed
// "writer@example.com" account for predictable local logins.
func (s *Seeder) CreateUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)

	if count >= 1 {
		writer := models.User{
			Email:       "writer@example.com",
			Password:    string(hashed),
			DisplayName: "Demo Writer",
		}
		if err := s.db.Create(&writer).Error; err == nil {
			users = append(users, writer)
		}
	}

	for i := len(users); i < count; i++ {
		name := gofakeit.Name()
		user := models.User{
			// Suffix keeps emails unique across faker collisions.
			Email:       fmt.Sprintf("%s%d@example.com", strings.ToLower(gofakeit.Username()), i),
			Password:    string(hashed),
			DisplayName: name,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return users, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreatePosts persists count posts spread across users, roughly 70%
// published so the public listing has content out of the box.
func (s *Seeder) CreatePosts(users []models.User, count int) ([]models.Blog, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own posts")
	}

	posts := make([]models.Blog, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.r.Intn(len(users))]
		blog := s.BuildPost(&owner)
		if err := s.db.Create(blog).Error; err != nil {
			return posts, err
		}
		posts = append(posts, *blog)
	}
	return posts, nil
}

// BuildPost constructs a post without persisting it.
func (s *Seeder) BuildPost(owner *models.User, overrides ...func(*models.Blog)) *models.Blog {
	status := models.StatusPublished
	if s.r.Intn(10) < 3 {
		status = models.StatusDraft
	}

	blog := &models.Blog{
		Title:   gofakeit.Sentence(s.r.Intn(5) + 3),
		Content: s.buildContent(),
		Tags:    s.pickTags(),
		Status:  status,
		UserID:  owner.ID,
	}

	// realistic created_at spread over the last 90 days
	daysBack := s.r.Intn(90)
	hoursBack := s.r.Intn(24)
	blog.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(blog)
	}
	return blog
}

// buildContent writes a few paragraphs with the lightweight markup the
// renderer understands (# headings, fenced code).
func (s *Seeder) buildContent() string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(gofakeit.Sentence(4))
	sb.WriteString("\n\n")
	sb.WriteString(gofakeit.Paragraph(2, 3, 8, "\n\n"))
	if s.r.Intn(3) == 0 {
		sb.WriteString("\n\n```\n")
		sb.WriteString(gofakeit.HackerPhrase())
		sb.WriteString("\n```\n")
	}
	return sb.String()
}

func (s *Seeder) pickTags() []string {
	n := s.r.Intn(3) + 1
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, tagPool[s.r.Intn(len(tagPool))])
	}
	return tags
}
