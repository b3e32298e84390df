package controller

import (
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// CreateNotification godoc
// @Summary Create a notification
// @Description Admin only. The recipient defaults to the caller.
// @Tags notifications
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.NotificationRequest true "Notification"
// @Success 201 {object} util.Response{data=service.NotificationResponse} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/notifications [post]
func (c *NotificationController) CreateNotification(ctx *gin.Context) {
	var req service.NotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, _ := caller(ctx)
	n, err := c.NotificationService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, n)
}

// ListNotifications godoc
// @Summary The caller's notifications
// @Tags notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   skip query int false "Offset" default(0)
// @Param   limit query int false "Page size (1..100)" default(20)
// @Param   is_read query bool false "Read filter"
// @Param   notification_type query string false "Type filter"
// @Success 200 {object} util.Response{data=service.NotificationListResponse}
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	userID, _ := caller(ctx)
	resp, err := c.NotificationService.List(ctx.Request.Context(), userID, service.NotificationListQuery{
		Skip:   util.QueryInt(ctx, "skip", 0, 0, 0),
		Limit:  util.QueryInt(ctx, "limit", 20, 1, util.MaxPageSize),
		IsRead: util.QueryBool(ctx, "is_read"),
		Type:   model.NotificationType(ctx.Query("notification_type")),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// GetNotification godoc
// @Summary Get one of the caller's notifications
// @Tags notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Notification ID"
// @Success 200 {object} util.Response{data=service.NotificationResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/notifications/{id} [get]
func (c *NotificationController) GetNotification(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid notification ID")
		return
	}

	userID, _ := caller(ctx)
	n, err := c.NotificationService.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, n)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Notification ID"
// @Success 200 {object} util.Response{data=service.NotificationResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid notification ID")
		return
	}

	userID, _ := caller(ctx)
	n, err := c.NotificationService.MarkRead(ctx.Request.Context(), userID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, n)
}

// MarkAllRead godoc
// @Summary Mark all of the caller's notifications as read
// @Tags notifications
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.MarkAllReadResponse}
// @Router /api/notifications/mark-all-read [patch]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, _ := caller(ctx)
	resp, err := c.NotificationService.MarkAllRead(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// DeleteNotification godoc
// @Summary Delete one of the caller's notifications
// @Tags notifications
// @Security ApiKeyAuth
// @Param   id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "Invalid notification ID")
		return
	}

	userID, _ := caller(ctx)
	if err := c.NotificationService.Delete(ctx.Request.Context(), userID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
