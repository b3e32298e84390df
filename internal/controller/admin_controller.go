package controller

import (
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   skip query int false "Offset" default(0)
// @Param   limit query int false "Page size" default(100)
// @Success 200 {object} util.Response{data=service.UserListResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	resp, err := c.AdminService.ListUsers(ctx.Request.Context(),
		util.QueryInt(ctx, "skip", 0, 0, 0),
		util.QueryInt(ctx, "limit", 100, 1, 1000),
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// TopQuestions godoc
// @Summary Busiest categories with their most liked question
// @Description count is the number of questions asked in the window; question is the most liked one of the category in that window
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "Number of categories" default(5)
// @Param   days query int false "Window in days" default(30)
// @Success 200 {object} util.Response{data=[]service.TopQuestionResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/questions/top [get]
func (c *AdminController) TopQuestions(ctx *gin.Context) {
	resp, err := c.AdminService.TopQuestions(ctx.Request.Context(),
		util.QueryInt(ctx, "limit", 5, 1, util.MaxPageSize),
		util.QueryInt(ctx, "days", 30, 1, service.MaxReportDays),
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Analytics godoc
// @Summary Platform counts
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AnalyticsResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/analytics [get]
func (c *AdminController) Analytics(ctx *gin.Context) {
	resp, err := c.AdminService.Analytics(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// ReconcileQuestion godoc
// @Summary Recompute a question's counters
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response{data=service.ReconcileResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/questions/{id}/reconcile [post]
func (c *AdminController) ReconcileQuestion(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}

	adminID, _ := caller(ctx)
	resp, err := c.AdminService.ReconcileQuestion(ctx.Request.Context(), adminID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
