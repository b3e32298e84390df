package repository

import (
	"fmt"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/pkg/database"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single connection makes concurrent transactions queue the way row locks
// would on a server database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "x",
		Role:         model.RoleUser,
		Status:       model.UserActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createQuestion(t *testing.T, db *gorm.DB, author *model.User, mutate ...func(*model.Question)) *model.Question {
	t.Helper()
	q := &model.Question{
		Title:      "How do I cope with stress at work?",
		Category:   "Anxiety",
		Content:    "Looking for practical advice on handling daily stress.",
		AuthorName: author.Username,
		Status:     model.StatusPublished,
		UserID:     author.ID,
	}
	for _, m := range mutate {
		m(q)
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func createContent(t *testing.T, db *gorm.DB, author *model.User) *model.Content {
	t.Helper()
	c := &model.Content{
		Title:      "Breathing exercises",
		Body:       "Box breathing in four steps.",
		Topic:      "Anxiety",
		PostType:   model.PostTypeText,
		IsTextOnly: true,
		AuthorName: "Admin",
		Status:     model.StatusPublished,
		CreatedBy:  author.ID,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}
