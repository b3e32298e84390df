package controller

import (
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// caller returns the authenticated user id and role, or zero values.
func caller(ctx *gin.Context) (uint, model.UserRole) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0, ""
	}
	return claims.UserID, claims.Role
}

// CreateContent godoc
// @Summary Create a content post
// @Description Admins and content creators only
// @Tags content
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ContentRequest true "Post"
// @Success 201 {object} util.Response{data=service.ContentResponse} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/content [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	var req service.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, role := caller(ctx)
	content, err := c.ContentService.Create(ctx.Request.Context(), userID, role, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// ListContent godoc
// @Summary List content posts
// @Tags content
// @Produce  json
// @Param   skip query int false "Offset" default(0)
// @Param   limit query int false "Page size (1..100)" default(10)
// @Param   topic query string false "Topic"
// @Param   post_type query string false "text or image"
// @Param   status query string false "published, draft or archived" default(published)
// @Param   search query string false "Search in title and body"
// @Success 200 {object} util.Response{data=service.ContentListResponse}
// @Router /api/content [get]
func (c *ContentController) ListContent(ctx *gin.Context) {
	viewerID, role := caller(ctx)
	resp, err := c.ContentService.List(ctx.Request.Context(), viewerID, role, service.ContentListQuery{
		Skip:     util.QueryInt(ctx, "skip", 0, 0, 0),
		Limit:    util.QueryInt(ctx, "limit", util.DefaultPageSize, 1, util.MaxPageSize),
		Topic:    ctx.Query("topic"),
		PostType: ctx.Query("post_type"),
		Status:   ctx.Query("status"),
		Search:   ctx.Query("search"),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GetContent godoc
// @Summary Get a content post
// @Tags content
// @Produce  json
// @Param   id path int true "Content ID"
// @Success 200 {object} util.Response{data=service.ContentResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id} [get]
func (c *ContentController) GetContent(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}

	viewerID, role := caller(ctx)
	content, err := c.ContentService.Get(ctx.Request.Context(), id, viewerID, role)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// UpdateContent godoc
// @Summary Update a content post
// @Description Creator or admin
// @Tags content
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Param   body body service.ContentUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=service.ContentResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id} [put]
func (c *ContentController) UpdateContent(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}
	var req service.ContentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, role := caller(ctx)
	content, err := c.ContentService.Update(ctx.Request.Context(), id, userID, role, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// DeleteContent godoc
// @Summary Delete a content post
// @Tags content
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Success 204 "No Content"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}

	userID, role := caller(ctx)
	if err := c.ContentService.Delete(ctx.Request.Context(), id, userID, role); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// LikeContent godoc
// @Summary Toggle the caller's like
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Success 200 {object} util.Response{data=service.ContentLikeResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "Concurrent update"
// @Router /api/content/{id}/like [post]
func (c *ContentController) LikeContent(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}

	userID, _ := caller(ctx)
	resp, err := c.ContentService.ToggleLike(ctx.Request.Context(), id, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// UnlikeContent godoc
// @Summary Remove the caller's like
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Success 200 {object} util.Response{data=service.ContentLikeResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id}/unlike [post]
func (c *ContentController) UnlikeContent(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}

	userID, _ := caller(ctx)
	resp, err := c.ContentService.Unlike(ctx.Request.Context(), id, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// AddComment godoc
// @Summary Comment on a content post
// @Tags content
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Param   body body service.CommentRequest true "Comment"
// @Success 201 {object} util.Response{data=service.CommentResponse} "Created"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id}/comments [post]
func (c *ContentController) AddComment(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}
	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, _ := caller(ctx)
	comment, err := c.ContentService.AddComment(ctx.Request.Context(), id, userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// ListComments godoc
// @Summary List comments of a content post
// @Tags content
// @Produce  json
// @Param   id path int true "Content ID"
// @Param   skip query int false "Offset" default(0)
// @Param   limit query int false "Page size (1..100)" default(20)
// @Success 200 {object} util.Response{data=service.CommentListResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id}/comments [get]
func (c *ContentController) ListComments(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid content ID")
		return
	}

	resp, err := c.ContentService.ListComments(ctx.Request.Context(), id,
		util.QueryInt(ctx, "skip", 0, 0, 0),
		util.QueryInt(ctx, "limit", 20, 1, util.MaxPageSize),
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Comment author or admin
// @Tags content
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Param   comment_id path int true "Comment ID"
// @Success 204 "No Content"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/content/{id}/comments/{comment_id} [delete]
func (c *ContentController) DeleteComment(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	commentID, ok2 := util.ParamID(ctx, "comment_id")
	if !ok || !ok2 {
		util.BadRequest(ctx, "Invalid ID")
		return
	}

	userID, role := caller(ctx)
	if _, err := c.ContentService.DeleteComment(ctx.Request.Context(), id, commentID, userID, role); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
