package service

import (
	"context"
	"errors"
	"fmt"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/repository"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/logger"
	"great_awareness_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ContentService struct {
	ContentRepo ContentStore
	Notifier    Notifier
}

func NewContentService(contentRepo ContentStore, notifier Notifier) *ContentService {
	return &ContentService{
		ContentRepo: contentRepo,
		Notifier:    notifier,
	}
}

type ContentRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Body         string `json:"body" binding:"required"`
	Topic        string `json:"topic" binding:"max=100"`
	PostType     string `json:"post_type"`
	ImagePath    string `json:"image_path" binding:"max=500"`
	AuthorName   string `json:"author_name" binding:"max=100"`
	AuthorAvatar string `json:"author_avatar" binding:"max=500"`
	Status       string `json:"status"`
	IsFeatured   bool   `json:"is_featured"`
}

// ContentUpdateRequest changes only the fields that are set.
type ContentUpdateRequest struct {
	Title        *string `json:"title" binding:"omitempty,min=1,max=255"`
	Body         *string `json:"body"`
	Topic        *string `json:"topic" binding:"omitempty,max=100"`
	PostType     *string `json:"post_type"`
	ImagePath    *string `json:"image_path" binding:"omitempty,max=500"`
	AuthorName   *string `json:"author_name" binding:"omitempty,max=100"`
	AuthorAvatar *string `json:"author_avatar" binding:"omitempty,max=500"`
	Status       *string `json:"status"`
	IsFeatured   *bool   `json:"is_featured"`
}

type ContentResponse struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Topic         string     `json:"topic"`
	PostType      string     `json:"post_type"`
	ImagePath     string     `json:"image_path"`
	IsTextOnly    bool       `json:"is_text_only"`
	AuthorName    string     `json:"author_name"`
	AuthorAvatar  string     `json:"author_avatar"`
	LikesCount    int64      `json:"likes_count"`
	CommentsCount int64      `json:"comments_count"`
	Status        string     `json:"status"`
	IsFeatured    bool       `json:"is_featured"`
	CreatedBy     uint       `json:"created_by"`
	IsLiked       bool       `json:"is_liked"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToContentResponse(c *model.Content, liked bool) ContentResponse {
	return ContentResponse{
		ID:            c.ID,
		Title:         c.Title,
		Body:          c.Body,
		Topic:         c.Topic,
		PostType:      c.PostType,
		ImagePath:     c.ImagePath,
		IsTextOnly:    c.IsTextOnly,
		AuthorName:    c.AuthorName,
		AuthorAvatar:  c.AuthorAvatar,
		LikesCount:    c.LikesCount,
		CommentsCount: c.CommentsCount,
		Status:        c.Status,
		IsFeatured:    c.IsFeatured,
		CreatedBy:     c.CreatedBy,
		IsLiked:       liked,
		PublishedAt:   c.PublishedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type ContentListQuery struct {
	Skip     int
	Limit    int
	Topic    string
	PostType string
	Status   string
	Search   string
}

type ContentListResponse struct {
	Items   []ContentResponse `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
	HasNext bool              `json:"has_next"`
	HasPrev bool              `json:"has_prev"`
}

type ContentLikeResponse struct {
	LikesCount int64 `json:"likes_count"`
	IsLiked    bool  `json:"is_liked"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

type CommentResponse struct {
	ID            uint      `json:"id"`
	ContentID     uint      `json:"content_id"`
	UserID        uint      `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
	CommentsCount int64     `json:"comments_count,omitempty"`
}

func ToCommentResponse(c *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		ContentID: c.ContentID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		resp.Username = c.User.Username
	}
	return resp
}

type CommentListResponse struct {
	Items []CommentResponse `json:"items"`
	Total int64             `json:"total"`
}

type CommentCountResponse struct {
	CommentsCount int64 `json:"comments_count"`
}

func validContentStatus(status string) bool {
	switch status {
	case model.StatusPublished, model.StatusDraft, model.StatusArchived:
		return true
	}
	return false
}

func validPostType(postType string) bool {
	return postType == model.PostTypeText || postType == model.PostTypeImage
}

func canModify(ownerID, userID uint, role model.UserRole) bool {
	return ownerID == userID || role.IsAdmin()
}

func (s *ContentService) Create(ctx context.Context, userID uint, role model.UserRole, req ContentRequest) (*ContentResponse, error) {
	if !role.CanPublish() {
		return nil, util.ErrPermissionDenied
	}

	postType := req.PostType
	if postType == "" {
		postType = model.PostTypeText
	}
	if !validPostType(postType) {
		return nil, fmt.Errorf("%w: unknown post type %q", util.ErrInvalidInput, postType)
	}
	status := req.Status
	if status == "" {
		status = model.StatusPublished
	}
	if !validContentStatus(status) {
		return nil, util.ErrInvalidStatus
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrInvalidInput)
	}
	authorName := req.AuthorName
	if authorName == "" {
		authorName = "Admin"
	}

	content := &model.Content{
		Title:        title,
		Body:         req.Body,
		Topic:        req.Topic,
		PostType:     postType,
		ImagePath:    req.ImagePath,
		IsTextOnly:   postType == model.PostTypeText && req.ImagePath == "",
		AuthorName:   authorName,
		AuthorAvatar: req.AuthorAvatar,
		Status:       status,
		IsFeatured:   req.IsFeatured,
		CreatedBy:    userID,
	}
	if status == model.StatusPublished {
		now := time.Now()
		content.PublishedAt = &now
	}

	if err := s.ContentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	logger.Log.Info("content created", zap.Uint("user_id", userID), zap.Uint("content_id", content.ID))

	contentID := content.ID
	s.Notifier.Notify(ctx, &model.Notification{
		Type:       model.NotificationContent,
		Title:      "Content published",
		Body:       fmt.Sprintf("Your post %q was created", content.Title),
		ContentID:  &contentID,
		AuthorName: content.AuthorName,
		UserID:     userID,
	})

	resp := ToContentResponse(content, false)
	return &resp, nil
}

// List shows unpublished posts only to their creator, unless the viewer is
// an admin.
func (s *ContentService) List(ctx context.Context, viewerID uint, role model.UserRole, q ContentListQuery) (*ContentListResponse, error) {
	status := q.Status
	if status == "" {
		status = model.StatusPublished
	}
	if !validContentStatus(status) {
		return nil, util.ErrInvalidStatus
	}

	filter := repository.ContentFilter{
		Topic:    q.Topic,
		PostType: q.PostType,
		Status:   status,
		Search:   strings.TrimSpace(q.Search),
		Offset:   q.Skip,
		Limit:    q.Limit,
	}
	if status != model.StatusPublished && !role.IsAdmin() {
		if viewerID == 0 {
			return &ContentListResponse{Items: []ContentResponse{}, Page: 1, Size: q.Limit}, nil
		}
		filter.CreatedBy = viewerID
	}

	items, total, err := s.ContentRepo.FindWithPagination(ctx, filter)
	if err != nil {
		return nil, err
	}

	liked := map[uint]bool{}
	if viewerID > 0 && len(items) > 0 {
		ids := make([]uint, len(items))
		for i := range items {
			ids[i] = items[i].ID
		}
		if liked, err = s.ContentRepo.LikedBy(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	resp := &ContentListResponse{
		Items:   make([]ContentResponse, 0, len(items)),
		Total:   total,
		Page:    q.Skip/max(q.Limit, 1) + 1,
		Size:    q.Limit,
		HasNext: int64(q.Skip+q.Limit) < total,
		HasPrev: q.Skip > 0,
	}
	for i := range items {
		resp.Items = append(resp.Items, ToContentResponse(&items[i], liked[items[i].ID]))
	}
	return resp, nil
}

// Get hides unpublished posts from everyone but their creator and admins.
func (s *ContentService) Get(ctx context.Context, id, viewerID uint, role model.UserRole) (*ContentResponse, error) {
	content, err := s.ContentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if content.Status != model.StatusPublished && !(viewerID > 0 && canModify(content.CreatedBy, viewerID, role)) {
		return nil, util.ErrContentNotFound
	}

	liked := false
	if viewerID > 0 {
		set, err := s.ContentRepo.LikedBy(ctx, viewerID, []uint{id})
		if err != nil {
			return nil, err
		}
		liked = set[id]
	}
	resp := ToContentResponse(content, liked)
	return &resp, nil
}

func (s *ContentService) Update(ctx context.Context, id, userID uint, role model.UserRole, req ContentUpdateRequest) (*ContentResponse, error) {
	content, err := s.ContentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(content.CreatedBy, userID, role) {
		return nil, util.ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", util.ErrInvalidInput)
		}
		fields["title"] = title
	}
	if req.Body != nil {
		fields["body"] = *req.Body
	}
	if req.Topic != nil {
		fields["topic"] = *req.Topic
	}
	postType, imagePath := content.PostType, content.ImagePath
	if req.PostType != nil {
		if !validPostType(*req.PostType) {
			return nil, fmt.Errorf("%w: unknown post type %q", util.ErrInvalidInput, *req.PostType)
		}
		postType = *req.PostType
		fields["post_type"] = postType
	}
	if req.ImagePath != nil {
		imagePath = *req.ImagePath
		fields["image_path"] = imagePath
	}
	if req.PostType != nil || req.ImagePath != nil {
		fields["is_text_only"] = postType == model.PostTypeText && imagePath == ""
	}
	if req.AuthorName != nil {
		fields["author_name"] = *req.AuthorName
	}
	if req.AuthorAvatar != nil {
		fields["author_avatar"] = *req.AuthorAvatar
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if req.Status != nil {
		if !validContentStatus(*req.Status) {
			return nil, util.ErrInvalidStatus
		}
		fields["status"] = *req.Status
		if *req.Status == model.StatusPublished && content.PublishedAt == nil {
			fields["published_at"] = time.Now()
		}
	}

	if err := s.ContentRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	logger.Log.Info("content updated", zap.Uint("user_id", userID), zap.Uint("content_id", id))

	updated, err := s.ContentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContentResponse(updated, false)
	return &resp, nil
}

func (s *ContentService) Delete(ctx context.Context, id, userID uint, role model.UserRole) error {
	content, err := s.ContentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(content.CreatedBy, userID, role) {
		return util.ErrPermissionDenied
	}
	if err := s.ContentRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("content deleted", zap.Uint("user_id", userID), zap.Uint("content_id", id))
	return nil
}

func (s *ContentService) ToggleLike(ctx context.Context, id, userID uint) (*ContentLikeResponse, error) {
	res, err := s.ContentRepo.ToggleLike(ctx, id, userID)
	if err != nil {
		if errors.Is(err, util.ErrConflict) {
			monitoring.RecordToggleConflict("content", string(model.EngagementLike))
		}
		return nil, err
	}
	monitoring.RecordToggle("content", string(model.EngagementLike), res.Active)
	logger.Log.Info("content like toggled",
		zap.Uint("user_id", userID),
		zap.Uint("content_id", id),
		zap.Bool("liked", res.Active),
	)
	return &ContentLikeResponse{LikesCount: res.Count, IsLiked: res.Active}, nil
}

// Unlike removes only the caller's own like; it is a no-op when there is none.
func (s *ContentService) Unlike(ctx context.Context, id, userID uint) (*ContentLikeResponse, error) {
	res, err := s.ContentRepo.Unlike(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("content unliked", zap.Uint("user_id", userID), zap.Uint("content_id", id))
	return &ContentLikeResponse{LikesCount: res.Count, IsLiked: false}, nil
}

func (s *ContentService) AddComment(ctx context.Context, id, userID uint, req CommentRequest) (*CommentResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", util.ErrInvalidInput)
	}

	comment := &model.Comment{ContentID: id, UserID: userID, Text: text}
	count, err := s.ContentRepo.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("content comment created",
		zap.Uint("user_id", userID),
		zap.Uint("content_id", id),
		zap.Uint("comment_id", comment.ID),
	)

	resp := ToCommentResponse(comment)
	resp.CommentsCount = count
	return &resp, nil
}

func (s *ContentService) ListComments(ctx context.Context, id uint, skip, limit int) (*CommentListResponse, error) {
	if _, err := s.ContentRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	comments, total, err := s.ContentRepo.FindCommentsWithPagination(ctx, id, skip, limit)
	if err != nil {
		return nil, err
	}
	resp := &CommentListResponse{Items: make([]CommentResponse, 0, len(comments)), Total: total}
	for i := range comments {
		resp.Items = append(resp.Items, ToCommentResponse(&comments[i]))
	}
	return resp, nil
}

func (s *ContentService) DeleteComment(ctx context.Context, id, commentID, userID uint, role model.UserRole) (*CommentCountResponse, error) {
	comment, err := s.ContentRepo.FindComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	if !canModify(comment.UserID, userID, role) {
		return nil, util.ErrPermissionDenied
	}
	count, err := s.ContentRepo.DeleteComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("content comment deleted",
		zap.Uint("user_id", userID),
		zap.Uint("content_id", id),
		zap.Uint("comment_id", commentID),
	)
	return &CommentCountResponse{CommentsCount: count}, nil
}
