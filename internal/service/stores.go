package service

import (
	"context"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/repository"
	"time"
)

// The stores below are satisfied by the gorm repositories in
// internal/repository; services only see these method sets.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, query string, args ...interface{}) (bool, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
	UpdatePassword(ctx context.Context, userID uint, hash string) error
	FindWithPagination(ctx context.Context, offset, limit int) ([]model.User, int64, error)
}

type ContentStore interface {
	Create(ctx context.Context, content *model.Content) error
	FindByID(ctx context.Context, id uint) (*model.Content, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	FindWithPagination(ctx context.Context, f repository.ContentFilter) ([]model.Content, int64, error)
	ToggleLike(ctx context.Context, contentID, userID uint) (*repository.ToggleResult, error)
	Unlike(ctx context.Context, contentID, userID uint) (*repository.ToggleResult, error)
	LikedBy(ctx context.Context, userID uint, ids []uint) (map[uint]bool, error)
	CreateComment(ctx context.Context, comment *model.Comment) (int64, error)
	FindComment(ctx context.Context, contentID, commentID uint) (*model.Comment, error)
	DeleteComment(ctx context.Context, contentID, commentID uint) (int64, error)
	FindCommentsWithPagination(ctx context.Context, contentID uint, offset, limit int) ([]model.Comment, int64, error)
}

type QuestionStore interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	FindWithPagination(ctx context.Context, f repository.QuestionFilter) ([]model.Question, int64, error)
	FindSavedBy(ctx context.Context, userID uint, offset, limit int) ([]model.Question, int64, error)
	CategoryCounts(ctx context.Context, status string) ([]repository.CategoryCount, error)
	Stats(ctx context.Context, status string) (*repository.QuestionStats, error)
	ToggleEngagement(ctx context.Context, questionID, userID uint, kind model.EngagementKind) (*repository.ToggleResult, error)
	EngagementState(ctx context.Context, userID uint, ids []uint) (liked, saved map[uint]bool, err error)
	CreateComment(ctx context.Context, comment *model.QuestionComment) (int64, error)
	FindComment(ctx context.Context, questionID, commentID uint) (*model.QuestionComment, error)
	DeleteComment(ctx context.Context, questionID, commentID uint) (int64, error)
	FindCommentsWithPagination(ctx context.Context, questionID uint, offset, limit int) ([]model.QuestionComment, int64, error)
	ReconcileCounters(ctx context.Context, id uint) (*model.Question, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	FindForUser(ctx context.Context, id, userID uint) (*model.Notification, error)
	FindWithPagination(ctx context.Context, f repository.NotificationFilter) ([]model.Notification, int64, int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) error
}

type WellnessStore interface {
	SeedMilestones(ctx context.Context, milestones []model.Milestone) (int, error)
	ActiveMilestones(ctx context.Context) ([]model.Milestone, error)
	FindMilestone(ctx context.Context, id uint) (*model.Milestone, error)
	Unlocks(ctx context.Context, userID uint) (map[uint]time.Time, error)
	Unlock(ctx context.Context, userID, milestoneID uint, at time.Time) (*model.UserMilestone, error)
}

type AnalyticsStore interface {
	PlatformCounts(ctx context.Context, recentSince time.Time) (*repository.PlatformCounts, error)
	TopCategories(ctx context.Context, since time.Time, limit int) ([]repository.TopCategory, error)
}

// ResetTokenStore keeps single use password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	// Consume returns the owner of token and invalidates it.
	Consume(ctx context.Context, token string) (uint, error)
}

// Notifier delivers in-app notifications. Delivery failures never fail the
// operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification)
}
