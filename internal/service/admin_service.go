package service

import (
	"context"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

const (
	recentWindow = 30 * 24 * time.Hour

	// MaxReportDays bounds the TopQuestions window.
	MaxReportDays = 3650
)

type AdminService struct {
	UserRepo      UserStore
	QuestionRepo  QuestionStore
	AnalyticsRepo AnalyticsStore
}

func NewAdminService(userRepo UserStore, questionRepo QuestionStore, analyticsRepo AnalyticsStore) *AdminService {
	return &AdminService{
		UserRepo:      userRepo,
		QuestionRepo:  questionRepo,
		AnalyticsRepo: analyticsRepo,
	}
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
}

type TopQuestionResponse struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	QuestionID uint   `json:"question_id"`
	Question   string `json:"question"`
}

type AnalyticsResponse struct {
	TotalUsers      int64 `json:"total_users"`
	ActiveUsers     int64 `json:"active_users"`
	InactiveUsers   int64 `json:"inactive_users"`
	Counties        int64 `json:"counties"`
	TotalQuestions  int64 `json:"total_questions"`
	RecentQuestions int64 `json:"recent_questions"`
}

type ReconcileResponse struct {
	QuestionID    uint  `json:"question_id"`
	LikesCount    int64 `json:"likes_count"`
	SavesCount    int64 `json:"saves_count"`
	CommentsCount int64 `json:"comments_count"`
}

func (s *AdminService) ListUsers(ctx context.Context, skip, limit int) (*UserListResponse, error) {
	users, total, err := s.UserRepo.FindWithPagination(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	resp := &UserListResponse{Items: make([]UserResponse, 0, len(users)), Total: total}
	for i := range users {
		resp.Items = append(resp.Items, ToUserResponse(&users[i]))
	}
	return resp, nil
}

// TopQuestions reports, per category, how many questions were asked in the
// last `days` days and the most liked one among them.
func (s *AdminService) TopQuestions(ctx context.Context, limit, days int) ([]TopQuestionResponse, error) {
	if limit < 1 {
		limit = 5
	}
	limit = min(limit, util.MaxPageSize)
	if days < 1 {
		days = 30
	}
	days = min(days, MaxReportDays)
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	rows, err := s.AnalyticsRepo.TopCategories(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]TopQuestionResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, TopQuestionResponse{
			Category:   r.Category,
			Count:      r.Count,
			QuestionID: r.QuestionID,
			Question:   r.Question,
		})
	}
	return resp, nil
}

func (s *AdminService) Analytics(ctx context.Context) (*AnalyticsResponse, error) {
	c, err := s.AnalyticsRepo.PlatformCounts(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}
	return &AnalyticsResponse{
		TotalUsers:      c.TotalUsers,
		ActiveUsers:     c.ActiveUsers,
		InactiveUsers:   c.TotalUsers - c.ActiveUsers,
		Counties:        c.Counties,
		TotalQuestions:  c.TotalQuestions,
		RecentQuestions: c.RecentQuestions,
	}, nil
}

// ReconcileQuestion recomputes the counters of one question from its rows.
func (s *AdminService) ReconcileQuestion(ctx context.Context, adminID, id uint) (*ReconcileResponse, error) {
	q, err := s.QuestionRepo.ReconcileCounters(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("question counters reconciled",
		zap.Uint("user_id", adminID),
		zap.Uint("question_id", id),
		zap.Int64("likes_count", q.LikesCount),
		zap.Int64("saves_count", q.SavesCount),
		zap.Int64("comments_count", q.CommentsCount),
	)
	return &ReconcileResponse{
		QuestionID:    q.ID,
		LikesCount:    q.LikesCount,
		SavesCount:    q.SavesCount,
		CommentsCount: q.CommentsCount,
	}, nil
}
