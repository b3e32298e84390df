package service

import (
	"context"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/repository"
	"great_awareness_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationCreate(t *testing.T) {
	store := new(MockNotificationStore)
	svc := NewNotificationService(store)

	store.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.UserID == 5 && n.Title == "Welcome"
	})).Return(nil).Once()
	store.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.UserID == 1
	})).Return(nil).Once()

	recipient := uint(5)
	resp, err := svc.Create(context.Background(), 1, NotificationRequest{Type: model.NotificationSystem, Title: " Welcome ", UserID: &recipient})
	require.NoError(t, err)
	assert.Equal(t, uint(5), resp.UserID)

	resp, err = svc.Create(context.Background(), 1, NotificationRequest{Type: model.NotificationSystem, Title: "Self"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.UserID)

	_, err = svc.Create(context.Background(), 1, NotificationRequest{Type: "pigeon", Title: "?"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	store.AssertExpectations(t)
}

func TestNotificationList(t *testing.T) {
	store := new(MockNotificationStore)
	svc := NewNotificationService(store)
	unread := false

	store.On("FindWithPagination", mock.Anything, repository.NotificationFilter{
		UserID: 3,
		IsRead: &unread,
		Type:   model.NotificationLike,
		Offset: 0,
		Limit:  20,
	}).Return([]model.Notification{{Type: model.NotificationLike, UserID: 3}}, int64(1), int64(4), nil)

	resp, err := svc.List(context.Background(), 3, NotificationListQuery{Limit: 20, IsRead: &unread, Type: model.NotificationLike})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, int64(4), resp.UnreadCount)
	assert.Len(t, resp.Items, 1)

	_, err = svc.List(context.Background(), 3, NotificationListQuery{Type: "unknown"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestNotificationOwnership(t *testing.T) {
	store := new(MockNotificationStore)
	svc := NewNotificationService(store)

	store.On("MarkRead", mock.Anything, uint(8), uint(3)).Return(util.ErrNotificationNotFound)
	store.On("MarkRead", mock.Anything, uint(8), uint(2)).Return(nil)
	store.On("FindForUser", mock.Anything, uint(8), uint(2)).Return(&model.Notification{BaseModel: model.BaseModel{ID: 8}, UserID: 2, IsRead: true}, nil)

	_, err := svc.MarkRead(context.Background(), 3, 8)
	assert.ErrorIs(t, err, util.ErrNotFound)

	resp, err := svc.MarkRead(context.Background(), 2, 8)
	require.NoError(t, err)
	assert.True(t, resp.IsRead)
}

func TestNotificationMarkAllAndDelete(t *testing.T) {
	store := new(MockNotificationStore)
	svc := NewNotificationService(store)
	store.On("MarkAllRead", mock.Anything, uint(2)).Return(int64(6), nil)
	store.On("Delete", mock.Anything, uint(8), uint(2)).Return(nil)

	resp, err := svc.MarkAllRead(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.Updated)
	assert.NoError(t, svc.Delete(context.Background(), 2, 8))
}

func TestNotifySwallowsFailures(t *testing.T) {
	store := new(MockNotificationStore)
	svc := NewNotificationService(store)
	store.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), &model.Notification{Type: model.NotificationLike, UserID: 1})
	})
	store.AssertNumberOfCalls(t, "Create", 1)
}
