package controller

import (
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WellnessController struct {
	WellnessService *service.WellnessService
}

func NewWellnessController(wellnessService *service.WellnessService) *WellnessController {
	return &WellnessController{WellnessService: wellnessService}
}

// InitMilestones godoc
// @Summary Seed the default recovery milestones
// @Description Admin only; milestones that already exist are skipped
// @Tags wellness
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.InitMilestonesResponse}
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/wellness/init [post]
func (c *WellnessController) InitMilestones(ctx *gin.Context) {
	adminID, _ := caller(ctx)
	resp, err := c.WellnessService.InitMilestones(ctx.Request.Context(), adminID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Milestones godoc
// @Summary Active milestones with the caller's unlock state
// @Tags wellness
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.MilestoneResponse}
// @Router /api/wellness/milestones [get]
func (c *WellnessController) Milestones(ctx *gin.Context) {
	userID, _ := caller(ctx)
	resp, err := c.WellnessService.Milestones(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Unlock godoc
// @Summary Unlock a milestone
// @Tags wellness
// @Produce  json
// @Security ApiKeyAuth
// @Param   milestone_id path int true "Milestone ID"
// @Success 200 {object} util.Response{data=service.UnlockResponse}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/wellness/unlock/{milestone_id} [post]
func (c *WellnessController) Unlock(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "milestone_id")
	if !ok {
		util.BadRequest(ctx, "Invalid milestone ID")
		return
	}

	userID, _ := caller(ctx)
	resp, err := c.WellnessService.Unlock(ctx.Request.Context(), userID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
