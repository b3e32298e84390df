package main

import (
	"context"
	"errors"
	"fmt"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/repository"
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/logger"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// demoPassword satisfies the registration password rules.
const demoPassword = "Password123"

// Seeder writes through the same services the HTTP API uses, so counters,
// notifications and validation behave exactly as in production.
type Seeder struct {
	db       *gorm.DB
	users    *repository.UserRepository
	auth     *service.AuthService
	content  *service.ContentService
	qa       *service.QAService
	wellness *service.WellnessService
}

func NewSeeder(db *gorm.DB, cfg *config.Config) *Seeder {
	users := repository.NewUserRepository(db)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db))

	return &Seeder{
		db:       db,
		users:    users,
		auth:     service.NewAuthService(users, repository.NewDBResetTokenStore(db), cfg),
		content:  service.NewContentService(repository.NewContentRepository(db), notifications),
		qa:       service.NewQAService(repository.NewQuestionRepository(db), users, notifications),
		wellness: service.NewWellnessService(repository.NewWellnessRepository(db)),
	}
}

type Summary struct {
	Users      int
	Contents   int
	Questions  int
	Likes      int
	Saves      int
	Comments   int
	Milestones int
	Unlocks    int
}

func (s Summary) String() string {
	return fmt.Sprintf("users=%d contents=%d questions=%d likes=%d saves=%d comments=%d milestones=%d unlocks=%d",
		s.Users, s.Contents, s.Questions, s.Likes, s.Saves, s.Comments, s.Milestones, s.Unlocks)
}

func (s *Seeder) Milestones(ctx context.Context) (int, error) {
	resp, err := s.wellness.InitMilestones(ctx, 0)
	if err != nil {
		return 0, err
	}
	return resp.Created, nil
}

// ensureUser registers u, or returns the existing account with that email.
func (s *Seeder) ensureUser(ctx context.Context, u UserFixture) (*model.User, bool, error) {
	_, err := s.auth.Register(ctx, service.RegisterRequest{
		Email:     u.Email,
		Username:  u.Username,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		County:    u.County,
	})
	created := err == nil
	if err != nil && !errors.Is(err, util.ErrEmailRegistered) {
		return nil, false, fmt.Errorf("register %s: %w", u.Email, err)
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(u.Email))
	if err != nil {
		return nil, false, err
	}
	if u.Role != "" && user.Role != u.Role {
		if err := s.db.WithContext(ctx).Model(user).Update("role", u.Role).Error; err != nil {
			return nil, false, err
		}
		user.Role = u.Role
	}
	return user, created, nil
}

func (s *Seeder) exists(ctx context.Context, m interface{}, title string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(m).Where("title = ?", title).Count(&n).Error
	return n > 0, err
}

// Fixtures loads the declared accounts, posts and questions. Rows that are
// already present (same email, same title) are left alone.
func (s *Seeder) Fixtures(ctx context.Context, f *Fixtures) (Summary, error) {
	var sum Summary
	byName := make(map[string]*model.User, len(f.Users))

	for _, u := range f.Users {
		user, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Users++
		}
		byName[u.Username] = user
	}

	for _, c := range f.Contents {
		if ok, err := s.exists(ctx, &model.Content{}, c.Title); err != nil || ok {
			if err != nil {
				return sum, err
			}
			continue
		}
		author := byName[c.Author]
		_, err := s.content.Create(ctx, author.ID, author.Role, service.ContentRequest{
			Title:      c.Title,
			Body:       strings.TrimSpace(c.Body),
			Topic:      c.Topic,
			AuthorName: author.Username,
			IsFeatured: c.Featured,
		})
		if err != nil {
			return sum, fmt.Errorf("content %q: %w", c.Title, err)
		}
		sum.Contents++
	}

	for _, q := range f.Questions {
		if ok, err := s.exists(ctx, &model.Question{}, q.Title); err != nil || ok {
			if err != nil {
				return sum, err
			}
			continue
		}
		_, err := s.qa.CreateQuestion(ctx, byName[q.Author].ID, service.QuestionRequest{
			Title:       q.Title,
			Category:    q.Category,
			Content:     strings.TrimSpace(q.Content),
			IsAnonymous: q.Anonymous,
		})
		if err != nil {
			return sum, fmt.Errorf("question %q: %w", q.Title, err)
		}
		sum.Questions++
	}

	return sum, nil
}

type DemoOptions struct {
	Users     int
	Questions int
	Seed      int64
}

// Demo fills the database with fake community activity.
func (s *Seeder) Demo(ctx context.Context, opts DemoOptions) (Summary, error) {
	var sum Summary
	faker := gofakeit.New(opts.Seed)

	created, err := s.Milestones(ctx)
	if err != nil {
		return sum, err
	}
	sum.Milestones = created

	users := make([]*model.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		first := faker.FirstName()
		username := fmt.Sprintf("%s_%d", usernameBase(first), faker.Number(1000, 9999))
		user, ok, err := s.ensureUser(ctx, UserFixture{
			Email:     fmt.Sprintf("%s@demo.greatawareness.org", username),
			Username:  username,
			Password:  demoPassword,
			FirstName: first,
			LastName:  faker.LastName(),
			County:    faker.City(),
		})
		if err != nil {
			// random usernames can collide; the next one will not
			if errors.Is(err, util.ErrUsernameTaken) {
				continue
			}
			return sum, err
		}
		if ok {
			sum.Users++
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return sum, nil
	}

	questionIDs := make([]uint, 0, opts.Questions)
	for i := 0; i < opts.Questions; i++ {
		author := users[faker.Number(0, len(users)-1)]
		q, err := s.qa.CreateQuestion(ctx, author.ID, service.QuestionRequest{
			Title:       strings.TrimSuffix(faker.Sentence(8), ".") + "?",
			Category:    faker.RandomString(model.QuestionCategories),
			Content:     faker.Paragraph(1, 4, 12, " "),
			IsAnonymous: faker.Number(1, 4) == 1,
		})
		if err != nil {
			return sum, err
		}
		sum.Questions++
		questionIDs = append(questionIDs, q.ID)
	}

	for _, id := range questionIDs {
		for _, u := range users {
			if faker.Number(1, 3) == 1 {
				if _, err := s.qa.ToggleLike(ctx, id, u.ID); err != nil {
					return sum, err
				}
				sum.Likes++
			}
			if faker.Number(1, 6) == 1 {
				if _, err := s.qa.ToggleSave(ctx, id, u.ID); err != nil {
					return sum, err
				}
				sum.Saves++
			}
			if faker.Number(1, 5) == 1 {
				_, err := s.qa.AddComment(ctx, id, u.ID, service.QuestionCommentRequest{
					Text:        faker.Sentence(faker.Number(6, 20)),
					IsAnonymous: faker.Bool(),
				})
				if err != nil {
					return sum, err
				}
				sum.Comments++
			}
		}
	}

	milestones, err := s.wellness.Milestones(ctx, 0)
	if err != nil {
		return sum, err
	}
	for _, u := range users {
		for _, m := range milestones {
			if faker.Number(1, 3) != 1 {
				break
			}
			if _, err := s.wellness.Unlock(ctx, u.ID, m.ID); err != nil {
				return sum, err
			}
			sum.Unlocks++
		}
	}

	logger.Log.Info("demo data seeded", zap.Stringer("summary", sum))
	return sum, nil
}

// usernameBase keeps the letters of name, lowercased.
func usernameBase(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() < 3 {
		return "member"
	}
	return b.String()
}
