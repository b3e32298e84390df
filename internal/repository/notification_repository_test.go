package repository

import (
	"context"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	stranger := createUser(t, db, "stranger")

	for _, typ := range []model.NotificationType{model.NotificationLike, model.NotificationComment, model.NotificationLike} {
		require.NoError(t, repo.Create(ctx, &model.Notification{Type: typ, Title: "t", Body: "b", UserID: owner.ID}))
	}
	other := &model.Notification{Type: model.NotificationSystem, Title: "t", UserID: stranger.ID}
	require.NoError(t, repo.Create(ctx, other))

	items, total, unread, err := repo.FindWithPagination(ctx, NotificationFilter{UserID: owner.ID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(3), unread)

	_, total, _, err = repo.FindWithPagination(ctx, NotificationFilter{UserID: owner.ID, Type: model.NotificationLike, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	require.NoError(t, repo.MarkRead(ctx, items[0].ID, owner.ID))
	assert.ErrorIs(t, repo.MarkRead(ctx, other.ID, owner.ID), util.ErrNotFound)

	read := true
	_, total, unread, err = repo.FindWithPagination(ctx, NotificationFilter{UserID: owner.ID, IsRead: &read, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2), unread)

	n, err := repo.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindForUser(ctx, other.ID, owner.ID)
	assert.ErrorIs(t, err, util.ErrNotificationNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, other.ID, owner.ID), util.ErrNotificationNotFound)
	require.NoError(t, repo.Delete(ctx, items[0].ID, owner.ID))
	_, err = repo.FindForUser(ctx, items[0].ID, owner.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestWellnessRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewWellnessRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "user")

	created, err := repo.SeedMilestones(ctx, model.DefaultMilestones())
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultMilestones()), created)

	created, err = repo.SeedMilestones(ctx, model.DefaultMilestones())
	require.NoError(t, err)
	assert.Zero(t, created)

	milestones, err := repo.ActiveMilestones(ctx)
	require.NoError(t, err)
	require.Len(t, milestones, len(model.DefaultMilestones()))
	for i := 1; i < len(milestones); i++ {
		assert.Less(t, milestones[i-1].DurationSeconds, milestones[i].DurationSeconds)
	}

	first := time.Now().UTC().Truncate(time.Second)
	row, err := repo.Unlock(ctx, user.ID, milestones[0].ID, first)
	require.NoError(t, err)
	assert.WithinDuration(t, first, row.UnlockedAt, time.Second)

	row, err = repo.Unlock(ctx, user.ID, milestones[0].ID, first.Add(time.Hour))
	require.NoError(t, err)
	assert.WithinDuration(t, first, row.UnlockedAt, time.Second)

	unlocked, err := repo.Unlocks(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocked, 1)
	assert.Contains(t, unlocked, milestones[0].ID)

	_, err = repo.FindMilestone(ctx, 12345)
	assert.ErrorIs(t, err, util.ErrMilestoneNotFound)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{Email: "a@example.com", Username: "alpha", PasswordHash: "h", Role: model.RoleUser, Status: model.UserActive}
	require.NoError(t, repo.Create(ctx, user))

	dup := &model.User{Email: "a@example.com", Username: "beta", PasswordHash: "h", Role: model.RoleUser, Status: model.UserActive}
	assert.ErrorIs(t, repo.Create(ctx, dup), util.ErrConflict)

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	exists, err := repo.Exists(ctx, "username = ?", "alpha")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)

	status, role, err := repo.AccessOf(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserActive, status)
	assert.Equal(t, user.Role, role)

	users, total, err := repo.FindWithPagination(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
}
