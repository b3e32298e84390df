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
	"github.com/stretchr/testify/suite"
)

type QAServiceSuite struct {
	suite.Suite
	ctx       context.Context
	questions *MockQuestionStore
	users     *MockUserStore
	notifier  *recordingNotifier
	svc       *QAService

	author *model.User
	reader *model.User
	q      *model.Question
}

func (s *QAServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.questions = new(MockQuestionStore)
	s.users = new(MockUserStore)
	s.notifier = &recordingNotifier{}
	s.svc = NewQAService(s.questions, s.users, s.notifier)

	s.author = &model.User{BaseModel: model.BaseModel{ID: 1}, Username: "author", Role: model.RoleUser}
	s.reader = &model.User{BaseModel: model.BaseModel{ID: 2}, Username: "reader", Role: model.RoleUser}
	s.q = &model.Question{
		BaseModel:  model.BaseModel{ID: 10},
		Title:      "How do I cope with panic?",
		Category:   "Anxiety",
		Content:    "It happens at night mostly.",
		AuthorName: "author",
		Status:     model.StatusPublished,
		UserID:     1,
		User:       s.author,
	}
	s.users.On("FindByID", mock.Anything, uint(1)).Return(s.author, nil).Maybe()
	s.users.On("FindByID", mock.Anything, uint(2)).Return(s.reader, nil).Maybe()
}

func TestQAServiceSuite(t *testing.T) {
	suite.Run(t, new(QAServiceSuite))
}

func (s *QAServiceSuite) TestCreateQuestion() {
	s.questions.On("Create", mock.Anything, mock.AnythingOfType("*model.Question")).Return(nil)

	resp, err := s.svc.CreateQuestion(s.ctx, 1, QuestionRequest{
		Title:    "  Sleep keeps slipping away  ",
		Category: "Depression",
		Content:  "I wake up at 3am every day.",
	})
	s.Require().NoError(err)
	s.Equal("Sleep keeps slipping away", resp.Title)
	s.Equal("author", resp.AuthorName)
	s.Equal(model.StatusPublished, resp.Status)
	s.Require().NotNil(resp.UserID)
	s.Equal(uint(1), *resp.UserID)
	s.Zero(resp.LikesCount)
	s.Zero(resp.SavesCount)
}

func (s *QAServiceSuite) TestCreateAnonymousQuestion() {
	s.questions.On("Create", mock.Anything, mock.MatchedBy(func(q *model.Question) bool {
		return q.AuthorName == model.AnonymousAuthor && q.UserID == 2 && q.HasImage
	})).Return(nil)

	resp, err := s.svc.CreateQuestion(s.ctx, 2, QuestionRequest{
		Title:       "Nobody should know this one",
		Category:    "Trauma",
		Content:     "Something that happened long ago.",
		IsAnonymous: true,
		ImagePath:   "/uploads/images/a.png",
	})
	s.Require().NoError(err)
	s.Equal(model.AnonymousAuthor, resp.AuthorName)
	s.Nil(resp.UserID)
}

func (s *QAServiceSuite) TestCreateRejectsUnknownCategory() {
	_, err := s.svc.CreateQuestion(s.ctx, 1, QuestionRequest{Title: "A valid title here", Category: "All", Content: "Long enough content"})
	s.ErrorIs(err, util.ErrInvalidCategory)
	s.questions.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *QAServiceSuite) TestListQuestions() {
	s.questions.On("FindWithPagination", mock.Anything, repository.QuestionFilter{
		Category: "Anxiety",
		Search:   "panic",
		Status:   model.StatusPublished,
		Offset:   10,
		Limit:    10,
	}).Return([]model.Question{*s.q}, int64(11), nil)
	s.questions.On("EngagementState", mock.Anything, uint(2), []uint{10}).
		Return(map[uint]bool{10: true}, map[uint]bool{}, nil)

	resp, err := s.svc.ListQuestions(s.ctx, 2, QuestionListQuery{Category: "Anxiety", Search: " panic ", Page: 2, PerPage: 10})
	s.Require().NoError(err)
	s.Equal(int64(11), resp.Total)
	s.Equal(2, resp.TotalPages)
	s.Require().Len(resp.Questions, 1)
	s.True(resp.Questions[0].IsLiked)
	s.False(resp.Questions[0].IsSaved)
}

func (s *QAServiceSuite) TestListQuestionsAnonymousViewer() {
	s.questions.On("FindWithPagination", mock.Anything, mock.Anything).Return([]model.Question{*s.q}, int64(1), nil)

	resp, err := s.svc.ListQuestions(s.ctx, 0, QuestionListQuery{Category: model.CategoryAll, PerPage: 500})
	s.Require().NoError(err)
	s.Equal(util.MaxPageSize, resp.PerPage)
	s.Equal(1, resp.Page)
	s.questions.AssertNotCalled(s.T(), "EngagementState", mock.Anything, mock.Anything, mock.Anything)

	_, err = s.svc.ListQuestions(s.ctx, 0, QuestionListQuery{Category: "Cooking"})
	s.ErrorIs(err, util.ErrInvalidCategory)
}

func (s *QAServiceSuite) TestGetQuestionOnlyPublished() {
	draft := *s.q
	draft.ID = 11
	draft.Status = model.StatusDraft
	s.questions.On("FindByID", mock.Anything, uint(11)).Return(&draft, nil)
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("EngagementState", mock.Anything, uint(2), []uint{10}).
		Return(map[uint]bool{}, map[uint]bool{10: true}, nil)

	_, err := s.svc.GetQuestion(s.ctx, 11, 2)
	s.ErrorIs(err, util.ErrQuestionNotFound)

	resp, err := s.svc.GetQuestion(s.ctx, 10, 2)
	s.Require().NoError(err)
	s.True(resp.IsSaved)
	s.False(resp.IsLiked)
}

func (s *QAServiceSuite) TestUpdateGate() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	title := "Someone else's edit here"

	_, err := s.svc.UpdateQuestion(s.ctx, 10, 2, model.RoleUser, QuestionUpdateRequest{Title: &title})
	s.ErrorIs(err, util.ErrPermissionDenied)
	s.questions.AssertNotCalled(s.T(), "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func (s *QAServiceSuite) TestUpdateByAdminTogglesAnonymity() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("UpdateFields", mock.Anything, uint(10), map[string]interface{}{
		"is_anonymous": true,
		"author_name":  model.AnonymousAuthor,
	}).Return(nil)

	anon := true
	_, err := s.svc.UpdateQuestion(s.ctx, 10, 99, model.RoleAdmin, QuestionUpdateRequest{IsAnonymous: &anon})
	s.Require().NoError(err)
	s.questions.AssertExpectations(s.T())
}

func (s *QAServiceSuite) TestUpdateRejectsBadCategory() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	category := "Gardening"

	_, err := s.svc.UpdateQuestion(s.ctx, 10, 1, model.RoleUser, QuestionUpdateRequest{Category: &category})
	s.ErrorIs(err, util.ErrInvalidCategory)
}

func (s *QAServiceSuite) TestDeleteGate() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("Delete", mock.Anything, uint(10)).Return(nil)

	s.ErrorIs(s.svc.DeleteQuestion(s.ctx, 10, 2, model.RoleContentCreator), util.ErrPermissionDenied)
	s.NoError(s.svc.DeleteQuestion(s.ctx, 10, 1, model.RoleUser))
	s.questions.AssertNumberOfCalls(s.T(), "Delete", 1)
}

func (s *QAServiceSuite) TestLikeNotifiesAuthorOnce() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("ToggleEngagement", mock.Anything, uint(10), uint(2), model.EngagementLike).
		Return(&repository.ToggleResult{Count: 4, Active: true}, nil).Once()
	s.questions.On("ToggleEngagement", mock.Anything, uint(10), uint(2), model.EngagementLike).
		Return(&repository.ToggleResult{Count: 3, Active: false}, nil).Once()

	resp, err := s.svc.ToggleLike(s.ctx, 10, 2)
	s.Require().NoError(err)
	s.Equal(&LikeResponse{Message: "Question liked", LikesCount: 4, IsLiked: true}, resp)

	resp, err = s.svc.ToggleLike(s.ctx, 10, 2)
	s.Require().NoError(err)
	s.Equal(&LikeResponse{Message: "Question unliked", LikesCount: 3, IsLiked: false}, resp)

	s.Require().Len(s.notifier.sent, 1)
	n := s.notifier.sent[0]
	s.Equal(model.NotificationLike, n.Type)
	s.Equal(uint(1), n.UserID)
	s.Equal("reader", n.AuthorName)
	s.Equal(uint(10), *n.QuestionID)
}

func (s *QAServiceSuite) TestSelfLikeDoesNotNotify() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("ToggleEngagement", mock.Anything, uint(10), uint(1), model.EngagementLike).
		Return(&repository.ToggleResult{Count: 1, Active: true}, nil)

	_, err := s.svc.ToggleLike(s.ctx, 10, 1)
	s.Require().NoError(err)
	s.Empty(s.notifier.sent)
}

func (s *QAServiceSuite) TestSaveNeverNotifies() {
	s.questions.On("ToggleEngagement", mock.Anything, uint(10), uint(2), model.EngagementSave).
		Return(&repository.ToggleResult{Count: 1, Active: true}, nil)

	resp, err := s.svc.ToggleSave(s.ctx, 10, 2)
	s.Require().NoError(err)
	s.Equal(&SaveResponse{Message: "Question saved", SavesCount: 1, IsSaved: true}, resp)
	s.Empty(s.notifier.sent)
}

func (s *QAServiceSuite) TestToggleMissingQuestion() {
	s.questions.On("ToggleEngagement", mock.Anything, uint(404), uint(2), model.EngagementLike).
		Return(nil, util.ErrQuestionNotFound)

	_, err := s.svc.ToggleLike(s.ctx, 404, 2)
	s.ErrorIs(err, util.ErrNotFound)
	s.Empty(s.notifier.sent)
}

func (s *QAServiceSuite) TestAddCommentNotifiesAuthor() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("CreateComment", mock.Anything, mock.AnythingOfType("*model.QuestionComment")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.QuestionComment).ID = 70 }).
		Return(int64(3), nil)

	resp, err := s.svc.AddComment(s.ctx, 10, 2, QuestionCommentRequest{Text: "You are not alone"})
	s.Require().NoError(err)
	s.Equal(uint(70), resp.ID)
	s.Equal(int64(3), resp.CommentsCount)
	s.Equal("reader", resp.AuthorName)

	s.Require().Len(s.notifier.sent, 1)
	s.Equal(model.NotificationComment, s.notifier.sent[0].Type)
	s.Equal(uint(1), s.notifier.sent[0].UserID)
}

func (s *QAServiceSuite) TestAnonymousCommentHidesCommenter() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("CreateComment", mock.Anything, mock.Anything).Return(int64(1), nil)

	resp, err := s.svc.AddComment(s.ctx, 10, 2, QuestionCommentRequest{Text: "Same here", IsAnonymous: true})
	s.Require().NoError(err)
	s.Equal(model.AnonymousAuthor, resp.AuthorName)
	s.Nil(resp.UserID)

	s.Require().Len(s.notifier.sent, 1)
	s.Equal(model.AnonymousAuthor, s.notifier.sent[0].AuthorName)
}

func (s *QAServiceSuite) TestDeleteCommentGate() {
	comment := &model.QuestionComment{ID: 70, QuestionID: 10, UserID: 2}
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("FindComment", mock.Anything, uint(10), uint(70)).Return(comment, nil)
	s.questions.On("DeleteComment", mock.Anything, uint(10), uint(70)).Return(int64(2), nil)

	_, err := s.svc.DeleteComment(s.ctx, 10, 70, 3, model.RoleUser)
	s.ErrorIs(err, util.ErrPermissionDenied)

	for _, caller := range []struct {
		id   uint
		role model.UserRole
	}{
		{2, model.RoleUser},
		{1, model.RoleUser},
		{3, model.RoleAdmin},
	} {
		resp, err := s.svc.DeleteComment(s.ctx, 10, 70, caller.id, caller.role)
		s.Require().NoError(err)
		s.Equal(int64(2), resp.CommentsCount)
	}
	s.questions.AssertNumberOfCalls(s.T(), "DeleteComment", 3)
}

func (s *QAServiceSuite) TestListComments() {
	s.questions.On("FindByID", mock.Anything, uint(10)).Return(s.q, nil)
	s.questions.On("FindCommentsWithPagination", mock.Anything, uint(10), 0, 20).Return([]model.QuestionComment{
		{ID: 2, UserID: 2, User: s.reader, Text: "visible"},
		{ID: 1, UserID: 1, User: s.author, Text: "hidden", IsAnonymous: true},
	}, int64(2), nil)

	resp, err := s.svc.ListComments(s.ctx, 10, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(resp.Comments, 2)
	s.Equal("reader", resp.Comments[0].AuthorName)
	s.Equal(model.AnonymousAuthor, resp.Comments[1].AuthorName)
	s.Nil(resp.Comments[1].UserID)
}

func (s *QAServiceSuite) TestCategoriesAndStats() {
	s.questions.On("CategoryCounts", mock.Anything, model.StatusPublished).Return(nil, nil)
	s.questions.On("Stats", mock.Anything, model.StatusPublished).Return(&repository.QuestionStats{
		TotalQuestions:      0,
		MostPopularCategory: "None",
	}, nil)

	cats, err := s.svc.Categories(s.ctx)
	s.Require().NoError(err)
	s.NotNil(cats)
	s.Empty(cats)

	stats, err := s.svc.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal("None", stats.MostPopularCategory)
}

func TestNormalizePage(t *testing.T) {
	page, perPage := normalizePage(0, 0, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)

	page, perPage = normalizePage(3, 1000, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, util.MaxPageSize, perPage)
}

func TestToQuestionResponseHidesAnonymousAuthor(t *testing.T) {
	resp := ToQuestionResponse(&model.Question{UserID: 5, AuthorName: "real", IsAnonymous: true}, false, false)
	assert.Equal(t, model.AnonymousAuthor, resp.AuthorName)
	assert.Nil(t, resp.UserID)

	resp = ToQuestionResponse(&model.Question{UserID: 5, AuthorName: "real"}, true, true)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, uint(5), *resp.UserID)
	assert.True(t, resp.IsLiked)
	assert.True(t, resp.IsSaved)
}
