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

func newContentService() (*ContentService, *MockContentStore, *recordingNotifier) {
	store := new(MockContentStore)
	notifier := &recordingNotifier{}
	return NewContentService(store, notifier), store, notifier
}

func TestContentCreate(t *testing.T) {
	t.Run("regular users are rejected", func(t *testing.T) {
		svc, store, notifier := newContentService()
		_, err := svc.Create(context.Background(), 1, model.RoleUser, ContentRequest{Title: "Hello", Body: "World"})
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, notifier.sent)
	})

	t.Run("creator publishes and is notified", func(t *testing.T) {
		svc, store, notifier := newContentService()
		store.On("Create", mock.Anything, mock.AnythingOfType("*model.Content")).
			Run(func(args mock.Arguments) { args.Get(1).(*model.Content).ID = 21 }).
			Return(nil)

		resp, err := svc.Create(context.Background(), 2, model.RoleContentCreator, ContentRequest{Title: " Breathing ", Body: "Slow down"})
		require.NoError(t, err)

		assert.Equal(t, "Breathing", resp.Title)
		assert.Equal(t, model.PostTypeText, resp.PostType)
		assert.Equal(t, model.StatusPublished, resp.Status)
		assert.Equal(t, "Admin", resp.AuthorName)
		assert.True(t, resp.IsTextOnly)
		assert.NotNil(t, resp.PublishedAt)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, model.NotificationContent, notifier.sent[0].Type)
		assert.Equal(t, uint(2), notifier.sent[0].UserID)
		assert.Equal(t, uint(21), *notifier.sent[0].ContentID)
	})

	t.Run("draft has no published_at", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(context.Background(), 1, model.RoleAdmin, ContentRequest{Title: "T", Body: "B", Status: model.StatusDraft, PostType: model.PostTypeImage, ImagePath: "/uploads/x.png"})
		require.NoError(t, err)
		assert.Nil(t, resp.PublishedAt)
		assert.False(t, resp.IsTextOnly)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _ := newContentService()
		_, err := svc.Create(context.Background(), 1, model.RoleAdmin, ContentRequest{Title: "T", Body: "B", Status: "gone"})
		assert.ErrorIs(t, err, util.ErrInvalidStatus)
	})
}

func TestContentList(t *testing.T) {
	svc, store, _ := newContentService()
	items := []model.Content{
		{BaseModel: model.BaseModel{ID: 5}, Title: "five", Status: model.StatusPublished},
		{BaseModel: model.BaseModel{ID: 4}, Title: "four", Status: model.StatusPublished},
	}
	store.On("FindWithPagination", mock.Anything, repository.ContentFilter{Status: model.StatusPublished, Offset: 10, Limit: 10}).
		Return(items, int64(25), nil)
	store.On("LikedBy", mock.Anything, uint(8), []uint{5, 4}).Return(map[uint]bool{4: true}, nil)

	resp, err := svc.List(context.Background(), 8, model.RoleUser, ContentListQuery{Skip: 10, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)
	require.Len(t, resp.Items, 2)
	assert.False(t, resp.Items[0].IsLiked)
	assert.True(t, resp.Items[1].IsLiked)
}

func TestContentListHidesOtherDrafts(t *testing.T) {
	svc, store, _ := newContentService()
	ctx := context.Background()

	resp, err := svc.List(ctx, 0, "", ContentListQuery{Status: model.StatusDraft, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Total)

	own := []model.Content{{BaseModel: model.BaseModel{ID: 2}, Status: model.StatusDraft, CreatedBy: 7}}
	store.On("FindWithPagination", mock.Anything, repository.ContentFilter{Status: model.StatusDraft, CreatedBy: 7, Limit: 10}).
		Return(own, int64(1), nil)
	store.On("LikedBy", mock.Anything, mock.Anything, mock.Anything).Return(map[uint]bool{}, nil)

	resp, err = svc.List(ctx, 7, model.RoleContentCreator, ContentListQuery{Status: model.StatusDraft, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)

	store.On("FindWithPagination", mock.Anything, repository.ContentFilter{Status: model.StatusDraft, Limit: 10}).
		Return([]model.Content{}, int64(0), nil)
	_, err = svc.List(ctx, 1, model.RoleAdmin, ContentListQuery{Status: model.StatusDraft, Limit: 10})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestContentGetHidesDrafts(t *testing.T) {
	svc, store, _ := newContentService()
	draft := &model.Content{BaseModel: model.BaseModel{ID: 3}, Status: model.StatusDraft, CreatedBy: 1}
	store.On("FindByID", mock.Anything, uint(3)).Return(draft, nil)
	store.On("LikedBy", mock.Anything, mock.Anything, mock.Anything).Return(map[uint]bool{}, nil)

	_, err := svc.Get(context.Background(), 3, 0, "")
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = svc.Get(context.Background(), 3, 2, model.RoleUser)
	assert.ErrorIs(t, err, util.ErrNotFound)

	resp, err := svc.Get(context.Background(), 3, 1, model.RoleContentCreator)
	require.NoError(t, err)
	assert.Equal(t, uint(3), resp.ID)
}

func TestContentUpdate(t *testing.T) {
	draft := &model.Content{BaseModel: model.BaseModel{ID: 3}, Status: model.StatusDraft, CreatedBy: 1, PostType: model.PostTypeText}

	t.Run("other users are rejected before writing", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("FindByID", mock.Anything, uint(3)).Return(draft, nil)

		title := "new"
		_, err := svc.Update(context.Background(), 3, 2, model.RoleContentCreator, ContentUpdateRequest{Title: &title})
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
		store.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publishing sets published_at", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("FindByID", mock.Anything, uint(3)).Return(draft, nil)
		store.On("UpdateFields", mock.Anything, uint(3), mock.MatchedBy(func(f map[string]interface{}) bool {
			_, hasPublished := f["published_at"]
			return f["status"] == model.StatusPublished && hasPublished
		})).Return(nil)

		status := model.StatusPublished
		_, err := svc.Update(context.Background(), 3, 9, model.RoleAdmin, ContentUpdateRequest{Status: &status})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestContentDelete(t *testing.T) {
	svc, store, _ := newContentService()
	store.On("FindByID", mock.Anything, uint(3)).Return(&model.Content{BaseModel: model.BaseModel{ID: 3}, CreatedBy: 1}, nil)
	store.On("Delete", mock.Anything, uint(3)).Return(nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), 3, 2, model.RoleUser), util.ErrPermissionDenied)
	require.NoError(t, svc.Delete(context.Background(), 3, 1, model.RoleUser))
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestContentLikeAndUnlike(t *testing.T) {
	svc, store, _ := newContentService()
	store.On("ToggleLike", mock.Anything, uint(3), uint(1)).Return(&repository.ToggleResult{Count: 4, Active: true}, nil).Once()
	store.On("ToggleLike", mock.Anything, uint(3), uint(1)).Return(&repository.ToggleResult{Count: 3, Active: false}, nil).Once()
	store.On("Unlike", mock.Anything, uint(3), uint(1)).Return(&repository.ToggleResult{Count: 3}, nil)

	resp, err := svc.ToggleLike(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, &ContentLikeResponse{LikesCount: 4, IsLiked: true}, resp)

	resp, err = svc.ToggleLike(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, &ContentLikeResponse{LikesCount: 3, IsLiked: false}, resp)

	resp, err = svc.Unlike(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, &ContentLikeResponse{LikesCount: 3, IsLiked: false}, resp)
}

func TestContentLikeConflict(t *testing.T) {
	svc, store, _ := newContentService()
	store.On("ToggleLike", mock.Anything, uint(3), uint(1)).Return(nil, util.ErrMembershipConflict)

	_, err := svc.ToggleLike(context.Background(), 3, 1)
	assert.ErrorIs(t, err, util.ErrConflict)
}

func TestContentComments(t *testing.T) {
	t.Run("blank text", func(t *testing.T) {
		svc, store, _ := newContentService()
		_, err := svc.AddComment(context.Background(), 3, 1, CommentRequest{Text: "   "})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		store.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
	})

	t.Run("add returns the new count", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("CreateComment", mock.Anything, mock.AnythingOfType("*model.Comment")).Return(int64(4), nil)

		resp, err := svc.AddComment(context.Background(), 3, 1, CommentRequest{Text: " thanks "})
		require.NoError(t, err)
		assert.Equal(t, "thanks", resp.Text)
		assert.Equal(t, int64(4), resp.CommentsCount)
	})

	t.Run("delete by someone else", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("FindComment", mock.Anything, uint(3), uint(7)).Return(&model.Comment{ID: 7, ContentID: 3, UserID: 1}, nil)

		_, err := svc.DeleteComment(context.Background(), 3, 7, 2, model.RoleUser)
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
		store.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete by admin", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("FindComment", mock.Anything, uint(3), uint(7)).Return(&model.Comment{ID: 7, ContentID: 3, UserID: 1}, nil)
		store.On("DeleteComment", mock.Anything, uint(3), uint(7)).Return(int64(2), nil)

		resp, err := svc.DeleteComment(context.Background(), 3, 7, 2, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.CommentsCount)
	})

	t.Run("list on missing content", func(t *testing.T) {
		svc, store, _ := newContentService()
		store.On("FindByID", mock.Anything, uint(99)).Return(nil, util.ErrContentNotFound)

		_, err := svc.ListComments(context.Background(), 99, 0, 10)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}
