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

type QAService struct {
	QuestionRepo QuestionStore
	UserRepo     UserStore
	Notifier     Notifier
}

func NewQAService(questionRepo QuestionStore, userRepo UserStore, notifier Notifier) *QAService {
	return &QAService{
		QuestionRepo: questionRepo,
		UserRepo:     userRepo,
		Notifier:     notifier,
	}
}

type QuestionRequest struct {
	Title       string `json:"title" binding:"required,min=10,max=500"`
	Category    string `json:"category" binding:"required"`
	Content     string `json:"content" binding:"required,min=10,max=5000"`
	IsAnonymous bool   `json:"is_anonymous"`
	ImagePath   string `json:"image_path" binding:"max=500"`
}

type QuestionUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=10,max=500"`
	Category    *string `json:"category"`
	Content     *string `json:"content" binding:"omitempty,min=10,max=5000"`
	IsAnonymous *bool   `json:"is_anonymous"`
	ImagePath   *string `json:"image_path" binding:"omitempty,max=500"`
	Status      *string `json:"status"`
}

type QuestionResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Content       string    `json:"content"`
	HasImage      bool      `json:"has_image"`
	ImagePath     string    `json:"image_path"`
	AuthorName    string    `json:"author_name"`
	IsAnonymous   bool      `json:"is_anonymous"`
	UserID        *uint     `json:"user_id,omitempty"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	SavesCount    int64     `json:"saves_count"`
	Status        string    `json:"status"`
	IsFeatured    bool      `json:"is_featured"`
	IsLiked       bool      `json:"is_liked"`
	IsSaved       bool      `json:"is_saved"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToQuestionResponse hides the author id of anonymous questions.
func ToQuestionResponse(q *model.Question, liked, saved bool) QuestionResponse {
	resp := QuestionResponse{
		ID:            q.ID,
		Title:         q.Title,
		Category:      q.Category,
		Content:       q.Content,
		HasImage:      q.HasImage,
		ImagePath:     q.ImagePath,
		AuthorName:    q.AuthorName,
		IsAnonymous:   q.IsAnonymous,
		LikesCount:    q.LikesCount,
		CommentsCount: q.CommentsCount,
		SavesCount:    q.SavesCount,
		Status:        q.Status,
		IsFeatured:    q.IsFeatured,
		IsLiked:       liked,
		IsSaved:       saved,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
	if q.IsAnonymous {
		resp.AuthorName = model.AnonymousAuthor
	} else {
		userID := q.UserID
		resp.UserID = &userID
	}
	return resp
}

type QuestionListQuery struct {
	Category string
	Search   string
	Page     int
	PerPage  int
}

type QuestionListResponse struct {
	Questions  []QuestionResponse `json:"questions"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

type LikeResponse struct {
	Message    string `json:"message"`
	LikesCount int64  `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
}

type SaveResponse struct {
	Message    string `json:"message"`
	SavesCount int64  `json:"saves_count"`
	IsSaved    bool   `json:"is_saved"`
}

type QuestionCommentRequest struct {
	Text        string `json:"text" binding:"required,max=1000"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type QuestionCommentResponse struct {
	ID            uint      `json:"id"`
	QuestionID    uint      `json:"question_id"`
	Text          string    `json:"text"`
	IsAnonymous   bool      `json:"is_anonymous"`
	AuthorName    string    `json:"author_name"`
	UserID        *uint     `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CommentsCount int64     `json:"comments_count,omitempty"`
}

// ToQuestionCommentResponse hides the commenter of anonymous comments.
func ToQuestionCommentResponse(c *model.QuestionComment) QuestionCommentResponse {
	resp := QuestionCommentResponse{
		ID:          c.ID,
		QuestionID:  c.QuestionID,
		Text:        c.Text,
		IsAnonymous: c.IsAnonymous,
		AuthorName:  model.AnonymousAuthor,
		CreatedAt:   c.CreatedAt,
	}
	if !c.IsAnonymous {
		userID := c.UserID
		resp.UserID = &userID
		if c.User != nil {
			resp.AuthorName = c.User.Username
		}
	}
	return resp
}

type QuestionCommentListResponse struct {
	Comments []QuestionCommentResponse `json:"comments"`
	Total    int64                     `json:"total"`
}

type QuestionStatsResponse struct {
	TotalQuestions      int64  `json:"total_questions"`
	TotalCategories     int64  `json:"total_categories"`
	MostPopularCategory string `json:"most_popular_category"`
	TotalComments       int64  `json:"total_comments"`
	TotalLikes          int64  `json:"total_likes"`
}

var questionStatuses = []string{model.StatusPublished, model.StatusDraft, model.StatusArchived, model.StatusReported}

func validQuestionStatus(status string) bool {
	for _, s := range questionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func authorNameFor(user *model.User, anonymous bool) string {
	if anonymous || user == nil {
		return model.AnonymousAuthor
	}
	return user.Username
}

func (s *QAService) CreateQuestion(ctx context.Context, userID uint, req QuestionRequest) (*QuestionResponse, error) {
	if !model.IsQuestionCategory(req.Category) {
		return nil, util.ErrInvalidCategory
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		Title:       strings.TrimSpace(req.Title),
		Category:    req.Category,
		Content:     strings.TrimSpace(req.Content),
		HasImage:    req.ImagePath != "",
		ImagePath:   req.ImagePath,
		AuthorName:  authorNameFor(user, req.IsAnonymous),
		IsAnonymous: req.IsAnonymous,
		Status:      model.StatusPublished,
		UserID:      userID,
	}
	if err := s.QuestionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	logger.Log.Info("question created", zap.Uint("user_id", userID), zap.Uint("question_id", question.ID))

	resp := ToQuestionResponse(question, false, false)
	return &resp, nil
}

func (s *QAService) ListQuestions(ctx context.Context, viewerID uint, q QuestionListQuery) (*QuestionListResponse, error) {
	if q.Category != "" && q.Category != model.CategoryAll && !model.IsQuestionCategory(q.Category) {
		return nil, util.ErrInvalidCategory
	}
	page, perPage := normalizePage(q.Page, q.PerPage, util.DefaultPageSize)

	questions, total, err := s.QuestionRepo.FindWithPagination(ctx, repository.QuestionFilter{
		Category: q.Category,
		Search:   strings.TrimSpace(q.Search),
		Status:   model.StatusPublished,
		Offset:   (page - 1) * perPage,
		Limit:    perPage,
	})
	if err != nil {
		return nil, err
	}
	return s.questionList(ctx, viewerID, questions, total, page, perPage)
}

func (s *QAService) SavedQuestions(ctx context.Context, userID uint, page, perPage int) (*QuestionListResponse, error) {
	page, perPage = normalizePage(page, perPage, util.DefaultPageSize)
	questions, total, err := s.QuestionRepo.FindSavedBy(ctx, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	return s.questionList(ctx, userID, questions, total, page, perPage)
}

func (s *QAService) questionList(ctx context.Context, viewerID uint, questions []model.Question, total int64, page, perPage int) (*QuestionListResponse, error) {
	liked, saved := map[uint]bool{}, map[uint]bool{}
	if viewerID > 0 && len(questions) > 0 {
		ids := make([]uint, len(questions))
		for i := range questions {
			ids[i] = questions[i].ID
		}
		var err error
		if liked, saved, err = s.QuestionRepo.EngagementState(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	resp := &QuestionListResponse{
		Questions:  make([]QuestionResponse, 0, len(questions)),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}
	for i := range questions {
		id := questions[i].ID
		resp.Questions = append(resp.Questions, ToQuestionResponse(&questions[i], liked[id], saved[id]))
	}
	return resp, nil
}

// GetQuestion returns published questions only.
func (s *QAService) GetQuestion(ctx context.Context, id, viewerID uint) (*QuestionResponse, error) {
	question, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if question.Status != model.StatusPublished {
		return nil, util.ErrQuestionNotFound
	}

	liked, saved := false, false
	if viewerID > 0 {
		likedSet, savedSet, err := s.QuestionRepo.EngagementState(ctx, viewerID, []uint{id})
		if err != nil {
			return nil, err
		}
		liked, saved = likedSet[id], savedSet[id]
	}
	resp := ToQuestionResponse(question, liked, saved)
	return &resp, nil
}

// UpdateQuestion is allowed for the creator or an admin. The check runs
// before anything is written.
func (s *QAService) UpdateQuestion(ctx context.Context, id, userID uint, role model.UserRole, req QuestionUpdateRequest) (*QuestionResponse, error) {
	question, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(question.UserID, userID, role) {
		return nil, util.ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		fields["content"] = strings.TrimSpace(*req.Content)
	}
	if req.Category != nil {
		if !model.IsQuestionCategory(*req.Category) {
			return nil, util.ErrInvalidCategory
		}
		fields["category"] = *req.Category
	}
	if req.ImagePath != nil {
		fields["image_path"] = *req.ImagePath
		fields["has_image"] = *req.ImagePath != ""
	}
	if req.IsAnonymous != nil {
		fields["is_anonymous"] = *req.IsAnonymous
		fields["author_name"] = authorNameFor(question.User, *req.IsAnonymous)
	}
	if req.Status != nil {
		if !validQuestionStatus(*req.Status) {
			return nil, util.ErrInvalidStatus
		}
		fields["status"] = *req.Status
	}

	if err := s.QuestionRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	logger.Log.Info("question updated", zap.Uint("user_id", userID), zap.Uint("question_id", id))

	updated, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuestionResponse(updated, false, false)
	return &resp, nil
}

func (s *QAService) DeleteQuestion(ctx context.Context, id, userID uint, role model.UserRole) error {
	question, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(question.UserID, userID, role) {
		return util.ErrPermissionDenied
	}
	if err := s.QuestionRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("question deleted", zap.Uint("user_id", userID), zap.Uint("question_id", id))
	return nil
}

func (s *QAService) toggle(ctx context.Context, id, userID uint, kind model.EngagementKind) (*repository.ToggleResult, error) {
	res, err := s.QuestionRepo.ToggleEngagement(ctx, id, userID, kind)
	if err != nil {
		if errors.Is(err, util.ErrConflict) {
			monitoring.RecordToggleConflict("question", string(kind))
		}
		return nil, err
	}
	monitoring.RecordToggle("question", string(kind), res.Active)
	logger.Log.Info("question engagement toggled",
		zap.Uint("user_id", userID),
		zap.Uint("question_id", id),
		zap.String("kind", string(kind)),
		zap.Bool("active", res.Active),
		zap.Int64("count", res.Count),
	)
	return res, nil
}

// ToggleLike flips the caller's like and tells the author when a like is added.
func (s *QAService) ToggleLike(ctx context.Context, id, userID uint) (*LikeResponse, error) {
	res, err := s.toggle(ctx, id, userID, model.EngagementLike)
	if err != nil {
		return nil, err
	}

	resp := &LikeResponse{Message: "Question unliked", LikesCount: res.Count, IsLiked: res.Active}
	if res.Active {
		resp.Message = "Question liked"
		s.notifyAuthor(ctx, id, userID, model.NotificationLike, "liked your question", false)
	}
	return resp, nil
}

func (s *QAService) ToggleSave(ctx context.Context, id, userID uint) (*SaveResponse, error) {
	res, err := s.toggle(ctx, id, userID, model.EngagementSave)
	if err != nil {
		return nil, err
	}
	resp := &SaveResponse{Message: "Question unsaved", SavesCount: res.Count, IsSaved: res.Active}
	if res.Active {
		resp.Message = "Question saved"
	}
	return resp, nil
}

// notifyAuthor sends a notification to the question author unless the actor
// is the author. Lookup failures are logged and dropped.
func (s *QAService) notifyAuthor(ctx context.Context, questionID, actorID uint, typ model.NotificationType, action string, anonymous bool) {
	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if err != nil {
		logger.Log.Warn("notification skipped", zap.Uint("question_id", questionID), zap.Error(err))
		return
	}
	if question.UserID == actorID {
		return
	}

	actorName := model.AnonymousAuthor
	if !anonymous {
		actor, err := s.UserRepo.FindByID(ctx, actorID)
		if err != nil {
			logger.Log.Warn("notification skipped", zap.Uint("user_id", actorID), zap.Error(err))
			return
		}
		actorName = actor.Username
	}

	qid := question.ID
	s.Notifier.Notify(ctx, &model.Notification{
		Type:       typ,
		Title:      fmt.Sprintf("%s %s", actorName, action),
		Body:       question.Title,
		QuestionID: &qid,
		AuthorName: actorName,
		UserID:     question.UserID,
	})
}

func (s *QAService) AddComment(ctx context.Context, id, userID uint, req QuestionCommentRequest) (*QuestionCommentResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", util.ErrInvalidInput)
	}

	comment := &model.QuestionComment{
		QuestionID:  id,
		UserID:      userID,
		Text:        text,
		IsAnonymous: req.IsAnonymous,
	}
	count, err := s.QuestionRepo.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("question comment created",
		zap.Uint("user_id", userID),
		zap.Uint("question_id", id),
		zap.Uint("comment_id", comment.ID),
	)

	s.notifyAuthor(ctx, id, userID, model.NotificationComment, "commented on your question", req.IsAnonymous)

	resp := ToQuestionCommentResponse(comment)
	if !comment.IsAnonymous {
		if user, err := s.UserRepo.FindByID(ctx, userID); err == nil {
			resp.AuthorName = user.Username
		}
	}
	resp.CommentsCount = count
	return &resp, nil
}

func (s *QAService) ListComments(ctx context.Context, id uint, page, perPage int) (*QuestionCommentListResponse, error) {
	if _, err := s.QuestionRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	page, perPage = normalizePage(page, perPage, 20)

	comments, total, err := s.QuestionRepo.FindCommentsWithPagination(ctx, id, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	resp := &QuestionCommentListResponse{Comments: make([]QuestionCommentResponse, 0, len(comments)), Total: total}
	for i := range comments {
		resp.Comments = append(resp.Comments, ToQuestionCommentResponse(&comments[i]))
	}
	return resp, nil
}

// DeleteComment is allowed for the commenter, the question author or an admin.
func (s *QAService) DeleteComment(ctx context.Context, id, commentID, userID uint, role model.UserRole) (*CommentCountResponse, error) {
	question, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment, err := s.QuestionRepo.FindComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID && !canModify(question.UserID, userID, role) {
		return nil, util.ErrPermissionDenied
	}

	count, err := s.QuestionRepo.DeleteComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("question comment deleted",
		zap.Uint("user_id", userID),
		zap.Uint("question_id", id),
		zap.Uint("comment_id", commentID),
	)
	return &CommentCountResponse{CommentsCount: count}, nil
}

func (s *QAService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	counts, err := s.QuestionRepo.CategoryCounts(ctx, model.StatusPublished)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []repository.CategoryCount{}
	}
	return counts, nil
}

func (s *QAService) Stats(ctx context.Context) (*QuestionStatsResponse, error) {
	stats, err := s.QuestionRepo.Stats(ctx, model.StatusPublished)
	if err != nil {
		return nil, err
	}
	return &QuestionStatsResponse{
		TotalQuestions:      stats.TotalQuestions,
		TotalCategories:     stats.TotalCategories,
		MostPopularCategory: stats.MostPopularCategory,
		TotalComments:       stats.TotalComments,
		TotalLikes:          stats.TotalLikes,
	}, nil
}

// normalizePage clamps page to >= 1 and perPage to [1, MaxPageSize].
func normalizePage(page, perPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > util.MaxPageSize {
		perPage = util.MaxPageSize
	}
	return page, perPage
}
