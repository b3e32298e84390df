package app

import (
	"great_awareness_backend/docs"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/middleware"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Version = cfg.Server.Version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.health.Root)
	router.GET("/health", c.health.HealthCheck)

	auth := middleware.AuthMiddleware(cfg, repos.user)
	tryAuth := middleware.TryAuthMiddleware(cfg, repos.user)

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.GET("/info", c.health.Info)
	}

	a.registerAuthRoutes(api, c, auth)
	a.registerContentRoutes(api, c, auth, tryAuth)
	a.registerQARoutes(api, c, auth, tryAuth)

	// everything below requires a logged in, active user
	authorized := api.Group("")
	authorized.Use(auth)
	{
		a.registerNotificationRoutes(authorized, c)
		a.registerWellnessRoutes(authorized, c)

		authorized.POST("/uploads/images", c.upload.UploadImage)
	}

	a.registerAdminRoutes(authorized, c)
}

func (a *App) registerAuthRoutes(api *gin.RouterGroup, c *controllers, auth gin.HandlerFunc) {
	group := api.Group("/auth")
	{
		group.POST("/register", c.auth.Register)
		group.POST("/login", c.auth.Login)
		group.GET("/verify", c.auth.Verify)
		group.POST("/forgot-password", c.auth.ForgotPassword)
		group.POST("/reset-password", c.auth.ResetPassword)

		group.GET("/me", auth, c.auth.Me)
	}
}

func (a *App) registerContentRoutes(api *gin.RouterGroup, c *controllers, auth, tryAuth gin.HandlerFunc) {
	group := api.Group("/content")
	{
		// reads are public; a token only adds is_liked
		group.GET("", tryAuth, c.content.ListContent)
		group.GET("/:id", tryAuth, c.content.GetContent)
		group.GET("/:id/comments", c.content.ListComments)

		group.POST("", auth, middleware.RoleMiddleware(model.RoleContentCreator), c.content.CreateContent)
		group.PUT("/:id", auth, c.content.UpdateContent)
		group.DELETE("/:id", auth, c.content.DeleteContent)
		group.POST("/:id/like", auth, c.content.LikeContent)
		group.POST("/:id/unlike", auth, c.content.UnlikeContent)
		group.POST("/:id/comments", auth, c.content.AddComment)
		group.DELETE("/:id/comments/:comment_id", auth, c.content.DeleteComment)
	}
}

func (a *App) registerQARoutes(api *gin.RouterGroup, c *controllers, auth, tryAuth gin.HandlerFunc) {
	questions := api.Group("/qa/questions")
	{
		questions.GET("", tryAuth, c.qa.ListQuestions)
		questions.GET("/categories", c.qa.Categories)
		questions.GET("/stats", c.qa.Stats)
		questions.GET("/saved", auth, c.qa.SavedQuestions)
		questions.GET("/:id", tryAuth, c.qa.GetQuestion)
		questions.GET("/:id/comments", c.qa.ListComments)

		questions.POST("", auth, c.qa.CreateQuestion)
		questions.PUT("/:id", auth, c.qa.UpdateQuestion)
		questions.DELETE("/:id", auth, c.qa.DeleteQuestion)
		questions.POST("/:id/like", auth, c.qa.LikeQuestion)
		questions.POST("/:id/save", auth, c.qa.SaveQuestion)
		questions.POST("/:id/comments", auth, c.qa.AddComment)
		questions.DELETE("/:id/comments/:comment_id", auth, c.qa.DeleteComment)
	}
}

func (a *App) registerNotificationRoutes(authorized *gin.RouterGroup, c *controllers) {
	group := authorized.Group("/notifications")
	{
		group.POST("", middleware.RoleMiddleware(model.RoleAdmin), c.notification.CreateNotification)
		group.GET("", c.notification.ListNotifications)
		group.PATCH("/mark-all-read", c.notification.MarkAllRead)
		group.GET("/:id", c.notification.GetNotification)
		group.PATCH("/:id/read", c.notification.MarkRead)
		group.DELETE("/:id", c.notification.DeleteNotification)
	}
}

func (a *App) registerWellnessRoutes(authorized *gin.RouterGroup, c *controllers) {
	group := authorized.Group("/wellness")
	{
		group.POST("/init", middleware.RoleMiddleware(model.RoleAdmin), c.wellness.InitMilestones)
		group.GET("/milestones", c.wellness.Milestones)
		group.POST("/unlock/:milestone_id", c.wellness.Unlock)
	}
}

func (a *App) registerAdminRoutes(authorized *gin.RouterGroup, c *controllers) {
	admin := authorized.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/users", c.admin.ListUsers)
		admin.GET("/questions/top", c.admin.TopQuestions)
		admin.GET("/analytics", c.admin.Analytics)
		admin.POST("/questions/:id/reconcile", c.admin.ReconcileQuestion)
	}
}
