// Package seed populates the database with demo data for development
// and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var statuses = []string{
	"Developer", "Senior Developer", "Junior Developer", "Student",
	"Instructor", "Manager", "Intern",
}

var skillPool = []string{
	"Go", "JavaScript", "TypeScript", "React", "Node.js", "Python",
	"PostgreSQL", "Redis", "Docker", "Kubernetes", "AWS", "GraphQL",
	"HTML", "CSS", "Rust",
}

// Seed populates the database with fake users, profiles and posts.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers < 1 {
		return fmt.Errorf("need at least one user, got %d", opts.NumUsers)
	}
	log.Printf("seeding database: %d users, %d posts", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := createProfiles(db, users, r); err != nil {
		return fmt.Errorf("failed to create profiles: %w", err)
	}

	posts, err := createPosts(db, users, opts.NumPosts, r)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createLikesAndComments(db, users, posts, r); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

// ClearAll truncates all seeded tables.
func ClearAll(db *gorm.DB) error {
	return db.Exec(
		"TRUNCATE TABLE likes, comments, posts, experiences, educations, profiles, users RESTART IDENTITY CASCADE",
	).Error
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	// One shared hash: bcrypt per user is slow and all demo accounts use
	// the same password anyway.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("%s%d@example.com",
			strings.ToLower(strings.ReplaceAll(name, " ", ".")), i)
		user := &models.User{
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Avatar:   models.GravatarURL(email),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createProfiles(db *gorm.DB, users []*models.User, r *rand.Rand) error {
	for _, user := range users {
		skills := make(models.SkillList, 0, 4)
		for _, idx := range r.Perm(len(skillPool))[:3+r.Intn(3)] {
			skills = append(skills, skillPool[idx])
		}

		profile := &models.Profile{
			UserID:         user.ID,
			Company:        gofakeit.Company(),
			Website:        gofakeit.URL(),
			Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
			Status:         statuses[r.Intn(len(statuses))],
			Skills:         skills,
			Bio:            gofakeit.Sentence(12),
			GithubUsername: gofakeit.Username(),
			Social: models.Social{
				Twitter:  "https://twitter.com/" + gofakeit.Username(),
				Linkedin: "https://linkedin.com/in/" + gofakeit.Username(),
			},
		}
		if err := db.Create(profile).Error; err != nil {
			return err
		}

		for i := 0; i < 1+r.Intn(3); i++ {
			from := gofakeit.DateRange(
				time.Now().AddDate(-10, 0, 0), time.Now().AddDate(-1, 0, 0))
			entry := &models.Experience{
				ProfileID: profile.ID,
				Title:     gofakeit.JobTitle(),
				Company:   gofakeit.Company(),
				Location:  gofakeit.City(),
				From:      from,
				Current:   i == 0,
			}
			if !entry.Current {
				to := from.AddDate(1+r.Intn(3), 0, 0)
				entry.To = &to
			}
			if err := db.Create(entry).Error; err != nil {
				return err
			}
		}

		from := gofakeit.DateRange(
			time.Now().AddDate(-15, 0, 0), time.Now().AddDate(-5, 0, 0))
		to := from.AddDate(4, 0, 0)
		education := &models.Education{
			ProfileID:    profile.ID,
			School:       fmt.Sprintf("%s University", gofakeit.City()),
			Degree:       "BSc",
			FieldOfStudy: "Computer Science",
			From:         from,
			To:           &to,
		}
		if err := db.Create(education).Error; err != nil {
			return err
		}
	}
	return nil
}

func createPosts(db *gorm.DB, users []*models.User, n int, r *rand.Rand) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			UserID:       author.ID,
			Text:         gofakeit.Paragraph(1, 2, 8, " "),
			AuthorName:   author.Name,
			AuthorAvatar: author.Avatar,
			CreatedAt: time.Now().Add(
				-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createLikesAndComments(db *gorm.DB, users []*models.User, posts []*models.Post, r *rand.Rand) error {
	for _, post := range posts {
		for _, idx := range r.Perm(len(users))[:r.Intn(min(len(users), 6))] {
			like := &models.Like{UserID: users[idx].ID, PostID: post.ID}
			if err := db.Create(like).Error; err != nil {
				return err
			}
		}

		for i := 0; i < r.Intn(3); i++ {
			author := users[r.Intn(len(users))]
			comment := &models.Comment{
				PostID:       post.ID,
				UserID:       author.ID,
				Text:         gofakeit.Sentence(10),
				AuthorName:   author.Name,
				AuthorAvatar: author.Avatar,
			}
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
