package service

import (
	"context"
	"fmt"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/repository"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

type NotificationService struct {
	NotificationRepo NotificationStore
}

func NewNotificationService(notificationRepo NotificationStore) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo}
}

type NotificationRequest struct {
	Type         model.NotificationType `json:"notification_type" binding:"required"`
	Title        string                 `json:"title" binding:"required,max=255"`
	Body         string                 `json:"body"`
	ContentID    *uint                  `json:"content_id"`
	QuestionID   *uint                  `json:"question_id"`
	AuthorName   string                 `json:"author_name"`
	AuthorAvatar string                 `json:"author_avatar"`
	// recipient, defaults to the caller
	UserID *uint `json:"user_id"`
}

type NotificationResponse struct {
	ID           uint                   `json:"id"`
	Type         model.NotificationType `json:"notification_type"`
	Title        string                 `json:"title"`
	Body         string                 `json:"body"`
	ContentID    *uint                  `json:"content_id,omitempty"`
	QuestionID   *uint                  `json:"question_id,omitempty"`
	AuthorName   string                 `json:"author_name"`
	AuthorAvatar string                 `json:"author_avatar"`
	UserID       uint                   `json:"user_id"`
	IsRead       bool                   `json:"is_read"`
	CreatedAt    time.Time              `json:"created_at"`
}

func ToNotificationResponse(n *model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Title:        n.Title,
		Body:         n.Body,
		ContentID:    n.ContentID,
		QuestionID:   n.QuestionID,
		AuthorName:   n.AuthorName,
		AuthorAvatar: n.AuthorAvatar,
		UserID:       n.UserID,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

type NotificationListQuery struct {
	Skip   int
	Limit  int
	IsRead *bool
	Type   model.NotificationType
}

type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	Total       int64                  `json:"total"`
	UnreadCount int64                  `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func (s *NotificationService) Create(ctx context.Context, callerID uint, req NotificationRequest) (*NotificationResponse, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown notification type %q", util.ErrInvalidInput, req.Type)
	}
	recipient := callerID
	if req.UserID != nil && *req.UserID > 0 {
		recipient = *req.UserID
	}

	n := &model.Notification{
		Type:         req.Type,
		Title:        strings.TrimSpace(req.Title),
		Body:         req.Body,
		ContentID:    req.ContentID,
		QuestionID:   req.QuestionID,
		AuthorName:   req.AuthorName,
		AuthorAvatar: req.AuthorAvatar,
		UserID:       recipient,
	}
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	logger.Log.Info("notification created",
		zap.Uint("notification_id", n.ID),
		zap.Uint("recipient_id", recipient),
		zap.Uint("created_by", callerID),
	)
	resp := ToNotificationResponse(n)
	return &resp, nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, q NotificationListQuery) (*NotificationListResponse, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown notification type %q", util.ErrInvalidInput, q.Type)
	}
	items, total, unread, err := s.NotificationRepo.FindWithPagination(ctx, repository.NotificationFilter{
		UserID: userID,
		IsRead: q.IsRead,
		Type:   q.Type,
		Offset: q.Skip,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}

	resp := &NotificationListResponse{
		Items:       make([]NotificationResponse, 0, len(items)),
		Total:       total,
		UnreadCount: unread,
	}
	for i := range items {
		resp.Items = append(resp.Items, ToNotificationResponse(&items[i]))
	}
	return resp, nil
}

func (s *NotificationService) Get(ctx context.Context, userID, id uint) (*NotificationResponse, error) {
	n, err := s.NotificationRepo.FindForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*NotificationResponse, error) {
	if err := s.NotificationRepo.MarkRead(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (*MarkAllReadResponse, error) {
	n, err := s.NotificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: n}, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	return s.NotificationRepo.Delete(ctx, id, userID)
}

// Notify stores n and only logs when that fails.
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) {
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		logger.Log.Warn("failed to create notification",
			zap.Error(err),
			zap.String("type", string(n.Type)),
			zap.Uint("recipient_id", n.UserID),
		)
	}
}
