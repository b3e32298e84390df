package controller

import (
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const serviceName = "Great Awareness API"

type HealthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHealthController(db *gorm.DB, cfg *config.Config) *HealthController {
	return &HealthController{DB: db, Cfg: cfg}
}

// swagger:model HealthResponse
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// swagger:model InfoResponse
type InfoResponse struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Environment string          `json:"environment"`
	Features    map[string]bool `json:"features,omitempty"`
}

// HealthCheck godoc
// @Summary Health check
// @Description Pings the database
// @Tags system
// @Produce json
// @Success 200 {object} util.Response{data=HealthResponse}
// @Failure 503 {object} util.Response "Database unavailable"
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(ctx, HealthResponse{
		Status:     "ok",
		Components: map[string]string{"database": "up"},
	})
}

// Root godoc
// @Summary Service banner
// @Tags system
// @Produce json
// @Success 200 {object} util.Response{data=InfoResponse}
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	util.Success(ctx, InfoResponse{
		Name:        serviceName,
		Version:     c.Cfg.Server.Version,
		Environment: c.Cfg.Server.Environment,
	})
}

// Info godoc
// @Summary Service information and enabled features
// @Tags system
// @Produce json
// @Success 200 {object} util.Response{data=InfoResponse}
// @Router /api/info [get]
func (c *HealthController) Info(ctx *gin.Context) {
	util.Success(ctx, InfoResponse{
		Name:        serviceName,
		Version:     c.Cfg.Server.Version,
		Environment: c.Cfg.Server.Environment,
		Features: map[string]bool{
			"redis":          c.Cfg.Redis.Enabled,
			"tracing":        c.Cfg.Tracing.Enabled,
			"object_storage": c.Cfg.Storage.Type != util.StorageLocal,
			"notifications":  true,
			"wellness":       true,
		},
	})
}
