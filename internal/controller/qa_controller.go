package controller

import (
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QAController struct {
	qaService *service.QAService
}

func NewQAController(qaService *service.QAService) *QAController {
	return &QAController{qaService: qaService}
}

func questionID(ctx *gin.Context) (uint, bool) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid question ID")
	}
	return id, ok
}

// CreateQuestion godoc
// @Summary Ask a question
// @Tags qa
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuestionRequest true "Question"
// @Success 201 {object} util.Response{data=service.QuestionResponse} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/qa/questions [post]
func (c *QAController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, _ := caller(ctx)
	question, err := c.qaService.CreateQuestion(ctx.Request.Context(), userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// ListQuestions godoc
// @Summary List published questions
// @Description is_liked and is_saved are filled in for authenticated callers
// @Tags qa
// @Produce  json
// @Param   category query string false "All or a category" default(All)
// @Param   search query string false "Search in title and content"
// @Param   page query int false "Page" default(1)
// @Param   per_page query int false "Page size (1..100)" default(10)
// @Success 200 {object} util.Response{data=service.QuestionListResponse}
// @Failure 400 {object} util.Response "Unknown category"
// @Router /api/qa/questions [get]
func (c *QAController) ListQuestions(ctx *gin.Context) {
	viewerID, _ := caller(ctx)
	resp, err := c.qaService.ListQuestions(ctx.Request.Context(), viewerID, service.QuestionListQuery{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
		Page:     util.QueryInt(ctx, "page", 1, 1, 0),
		PerPage:  util.QueryInt(ctx, "per_page", util.DefaultPageSize, 1, util.MaxPageSize),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Categories godoc
// @Summary Question counts per category
// @Tags qa
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.CategoryCount}
// @Router /api/qa/questions/categories [get]
func (c *QAController) Categories(ctx *gin.Context) {
	counts, err := c.qaService.Categories(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, counts)
}

// Stats godoc
// @Summary Q&A statistics
// @Tags qa
// @Produce  json
// @Success 200 {object} util.Response{data=service.QuestionStatsResponse}
// @Router /api/qa/questions/stats [get]
func (c *QAController) Stats(ctx *gin.Context) {
	stats, err := c.qaService.Stats(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// SavedQuestions godoc
// @Summary The caller's saved questions
// @Tags qa
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page" default(1)
// @Param   per_page query int false "Page size (1..100)" default(10)
// @Success 200 {object} util.Response{data=service.QuestionListResponse}
// @Router /api/qa/questions/saved [get]
func (c *QAController) SavedQuestions(ctx *gin.Context) {
	userID, _ := caller(ctx)
	resp, err := c.qaService.SavedQuestions(ctx.Request.Context(), userID,
		util.QueryInt(ctx, "page", 1, 1, 0),
		util.QueryInt(ctx, "per_page", util.DefaultPageSize, 1, util.MaxPageSize),
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GetQuestion godoc
// @Summary Get a published question
// @Tags qa
// @Produce  json
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response{data=service.QuestionResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/qa/questions/{id} [get]
func (c *QAController) GetQuestion(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}

	viewerID, _ := caller(ctx)
	question, err := c.qaService.GetQuestion(ctx.Request.Context(), id, viewerID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Description Creator or admin
// @Tags qa
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Param   body body service.QuestionUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=service.QuestionResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/qa/questions/{id} [put]
func (c *QAController) UpdateQuestion(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}
	var req service.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, role := caller(ctx)
	question, err := c.qaService.UpdateQuestion(ctx.Request.Context(), id, userID, role, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Description Creator or admin. Likes, saves and comments go with it.
// @Tags qa
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response{data=MessageResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/qa/questions/{id} [delete]
func (c *QAController) DeleteQuestion(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}

	userID, role := caller(ctx)
	if err := c.qaService.DeleteQuestion(ctx.Request.Context(), id, userID, role); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, MessageResponse{Message: "Question deleted successfully"})
}

// LikeQuestion godoc
// @Summary Toggle the caller's like
// @Tags qa
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response{data=service.LikeResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "Concurrent update"
// @Router /api/qa/questions/{id}/like [post]
func (c *QAController) LikeQuestion(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}

	userID, _ := caller(ctx)
	resp, err := c.qaService.ToggleLike(ctx.Request.Context(), id, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// SaveQuestion godoc
// @Summary Toggle the caller's save
// @Tags qa
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response{data=service.SaveResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "Concurrent update"
// @Router /api/qa/questions/{id}/save [post]
func (c *QAController) SaveQuestion(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}

	userID, _ := caller(ctx)
	resp, err := c.qaService.ToggleSave(ctx.Request.Context(), id, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// AddComment godoc
// @Summary Comment on a question
// @Tags qa
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Param   body body service.QuestionCommentRequest true "Comment"
// @Success 201 {object} util.Response{data=service.QuestionCommentResponse} "Created"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/qa/questions/{id}/comments [post]
func (c *QAController) AddComment(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}
	var req service.QuestionCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, _ := caller(ctx)
	comment, err := c.qaService.AddComment(ctx.Request.Context(), id, userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// ListComments godoc
// @Summary List comments of a question
// @Tags qa
// @Produce  json
// @Param   id path int true "Question ID"
// @Param   page query int false "Page" default(1)
// @Param   per_page query int false "Page size (1..100)" default(20)
// @Success 200 {object} util.Response{data=service.QuestionCommentListResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/qa/questions/{id}/comments [get]
func (c *QAController) ListComments(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}

	resp, err := c.qaService.ListComments(ctx.Request.Context(), id,
		util.QueryInt(ctx, "page", 1, 1, 0),
		util.QueryInt(ctx, "per_page", 20, 1, util.MaxPageSize),
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// DeleteComment godoc
// @Summary Delete a question comment
// @Description Comment author, question author or admin
// @Tags qa
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Param   comment_id path int true "Comment ID"
// @Success 200 {object} util.Response{data=service.CommentCountResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/qa/questions/{id}/comments/{comment_id} [delete]
func (c *QAController) DeleteComment(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}
	commentID, ok := util.ParamID(ctx, "comment_id")
	if !ok {
		util.BadRequest(ctx, "Invalid comment ID")
		return
	}

	userID, role := caller(ctx)
	resp, err := c.qaService.DeleteComment(ctx.Request.Context(), id, commentID, userID, role)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
