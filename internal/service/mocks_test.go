package service

import (
	"context"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/repository"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// Exists receives the query args as one slice.
func (m *MockUserStore) Exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	ret := m.Called(ctx, query, args)
	return ret.Bool(0), ret.Error(1)
}

func (m *MockUserStore) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *MockUserStore) FindWithPagination(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Create(ctx context.Context, content *model.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentStore) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentStore) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockContentStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentStore) FindWithPagination(ctx context.Context, f repository.ContentFilter) ([]model.Content, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Content), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentStore) ToggleLike(ctx context.Context, contentID, userID uint) (*repository.ToggleResult, error) {
	args := m.Called(ctx, contentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ToggleResult), args.Error(1)
}

func (m *MockContentStore) Unlike(ctx context.Context, contentID, userID uint) (*repository.ToggleResult, error) {
	args := m.Called(ctx, contentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ToggleResult), args.Error(1)
}

func (m *MockContentStore) LikedBy(ctx context.Context, userID uint, ids []uint) (map[uint]bool, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockContentStore) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentStore) FindComment(ctx context.Context, contentID, commentID uint) (*model.Comment, error) {
	args := m.Called(ctx, contentID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockContentStore) DeleteComment(ctx context.Context, contentID, commentID uint) (int64, error) {
	args := m.Called(ctx, contentID, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentStore) FindCommentsWithPagination(ctx context.Context, contentID uint, offset, limit int) ([]model.Comment, int64, error) {
	args := m.Called(ctx, contentID, offset, limit)
	return args.Get(0).([]model.Comment), args.Get(1).(int64), args.Error(2)
}

type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) Create(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionStore) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionStore) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockQuestionStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionStore) FindWithPagination(ctx context.Context, f repository.QuestionFilter) ([]model.Question, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionStore) FindSavedBy(ctx context.Context, userID uint, offset, limit int) ([]model.Question, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]model.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionStore) CategoryCounts(ctx context.Context, status string) ([]repository.CategoryCount, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryCount), args.Error(1)
}

func (m *MockQuestionStore) Stats(ctx context.Context, status string) (*repository.QuestionStats, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.QuestionStats), args.Error(1)
}

func (m *MockQuestionStore) ToggleEngagement(ctx context.Context, questionID, userID uint, kind model.EngagementKind) (*repository.ToggleResult, error) {
	args := m.Called(ctx, questionID, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ToggleResult), args.Error(1)
}

func (m *MockQuestionStore) EngagementState(ctx context.Context, userID uint, ids []uint) (map[uint]bool, map[uint]bool, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(map[uint]bool), args.Get(1).(map[uint]bool), args.Error(2)
}

func (m *MockQuestionStore) CreateComment(ctx context.Context, comment *model.QuestionComment) (int64, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionStore) FindComment(ctx context.Context, questionID, commentID uint) (*model.QuestionComment, error) {
	args := m.Called(ctx, questionID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestionComment), args.Error(1)
}

func (m *MockQuestionStore) DeleteComment(ctx context.Context, questionID, commentID uint) (int64, error) {
	args := m.Called(ctx, questionID, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionStore) FindCommentsWithPagination(ctx context.Context, questionID uint, offset, limit int) ([]model.QuestionComment, int64, error) {
	args := m.Called(ctx, questionID, offset, limit)
	return args.Get(0).([]model.QuestionComment), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionStore) ReconcileCounters(ctx context.Context, id uint) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationStore) FindForUser(ctx context.Context, id, userID uint) (*model.Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationStore) FindWithPagination(ctx context.Context, f repository.NotificationFilter) ([]model.Notification, int64, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Notification), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStore) Delete(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockWellnessStore struct {
	mock.Mock
}

func (m *MockWellnessStore) SeedMilestones(ctx context.Context, milestones []model.Milestone) (int, error) {
	args := m.Called(ctx, milestones)
	return args.Int(0), args.Error(1)
}

func (m *MockWellnessStore) ActiveMilestones(ctx context.Context) ([]model.Milestone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Milestone), args.Error(1)
}

func (m *MockWellnessStore) FindMilestone(ctx context.Context, id uint) (*model.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Milestone), args.Error(1)
}

func (m *MockWellnessStore) Unlocks(ctx context.Context, userID uint) (map[uint]time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[uint]time.Time), args.Error(1)
}

func (m *MockWellnessStore) Unlock(ctx context.Context, userID, milestoneID uint, at time.Time) (*model.UserMilestone, error) {
	args := m.Called(ctx, userID, milestoneID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserMilestone), args.Error(1)
}

type MockAnalyticsStore struct {
	mock.Mock
}

func (m *MockAnalyticsStore) PlatformCounts(ctx context.Context, recentSince time.Time) (*repository.PlatformCounts, error) {
	args := m.Called(ctx, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PlatformCounts), args.Error(1)
}

func (m *MockAnalyticsStore) TopCategories(ctx context.Context, since time.Time, limit int) ([]repository.TopCategory, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]repository.TopCategory), args.Error(1)
}

type MockResetTokenStore struct {
	mock.Mock
}

func (m *MockResetTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint), args.Error(1)
}

// recordingNotifier keeps every notification it is handed.
type recordingNotifier struct {
	sent []*model.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification *model.Notification) {
	n.sent = append(n.sent, notification)
}
