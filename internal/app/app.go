package app

import (
	"context"
	"errors"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/controller"
	"great_awareness_backend/internal/middleware"
	"great_awareness_backend/internal/repository"
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/configwatcher"
	"great_awareness_backend/pkg/database"
	"great_awareness_backend/pkg/logger"
	"great_awareness_backend/pkg/monitoring"
	"great_awareness_backend/pkg/security"
	"great_awareness_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	configDir       = "configs"
	shutdownTimeout = 5 * time.Second
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracer    *sdktrace.TracerProvider
	cors      *security.Swappable
	rateLimit *security.Swappable

	mu              sync.Mutex
	limiter         *security.RateLimiter
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	content      *repository.ContentRepository
	question     *repository.QuestionRepository
	notification *repository.NotificationRepository
	wellness     *repository.WellnessRepository
	analytics    *repository.AnalyticsRepository
	resetTokens  service.ResetTokenStore
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	content      *service.ContentService
	qa           *service.QAService
	notification *service.NotificationService
	admin        *service.AdminService
	wellness     *service.WellnessService
}

type controllers struct {
	auth         *controller.AuthController
	content      *controller.ContentController
	qa           *controller.QAController
	notification *controller.NotificationController
	admin        *controller.AdminController
	wellness     *controller.WellnessController
	upload       *controller.UploadController
	health       *controller.HealthController
}

// RegisterConfigCallback runs callback with every reloaded Config.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		user:         repository.NewUserRepository(db),
		content:      repository.NewContentRepository(db),
		question:     repository.NewQuestionRepository(db),
		notification: repository.NewNotificationRepository(db),
		wellness:     repository.NewWellnessRepository(db),
		analytics:    repository.NewAnalyticsRepository(db),
	}

	if rdb != nil {
		repos.resetTokens = repository.NewRedisResetTokenStore(rdb)
	} else {
		repos.resetTokens = repository.NewDBResetTokenStore(db)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.notification = service.NewNotificationService(repos.notification)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.resetTokens, cfg)
	s.content = service.NewContentService(repos.content, s.notification)
	s.qa = service.NewQAService(repos.question, repos.user, s.notification)
	s.admin = service.NewAdminService(repos.user, repos.question, repos.analytics)
	s.wellness = service.NewWellnessService(repos.wellness)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		content:      controller.NewContentController(s.content),
		qa:           controller.NewQAController(s.qa),
		notification: controller.NewNotificationController(s.notification),
		admin:        controller.NewAdminController(s.admin),
		wellness:     controller.NewWellnessController(s.wellness),
		upload:       controller.NewUploadController(s.storage),
		health:       controller.NewHealthController(db, a.Config),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	a.cors = security.NewSwappable(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(a.cors.Handler())
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow())
	a.rateLimit = security.NewSwappable(a.limiter.Middleware())
	router.Use(a.rateLimit.Handler())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())

	// CORS and rate limits follow config reloads; everything else needs a restart
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		a.cors.Swap(security.CORS(newCfg.CORS.AllowedOrigins))

		limiter := security.NewRateLimiter(newCfg.RateLimit.MaxRequests, newCfg.RateLimitWindow())
		a.rateLimit.Swap(limiter.Middleware())

		a.mu.Lock()
		old := a.limiter
		a.limiter = limiter
		a.mu.Unlock()
		old.Stop()

		logger.Log.Info("Applied reloaded config",
			zap.Strings("cors_origins", newCfg.CORS.AllowedOrigins),
			zap.Int("rate_limit", newCfg.RateLimit.MaxRequests),
		)
	})
}

// New wires repositories, services and routes over already opened handles.
// rdb may be nil, in which case reset tokens live in the database.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	svcs := app.initServices(repos, cfg)
	ctrls := app.initControllers(svcs, db)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// NewApp opens the database, redis and tracing from cfg and builds the App.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	monitoring.Init()

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer(context.Background(), &cfg.Tracing, cfg.Server.Environment)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		if err := tracing.InstrumentDB(db); err != nil {
			logger.Log.Error("Failed to instrument database", zap.Error(err))
		}
	}

	app := New(cfg, db, rdb)
	app.tracer = tp
	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go func() {
		if err := configwatcher.WatchConfig(ctx, filepath.Join(configDir, "config.yaml"), a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
}

// Close releases the limiter, tracer, redis and database handles.
func (a *App) Close(ctx context.Context) {
	a.mu.Lock()
	if a.limiter != nil {
		a.limiter.Stop()
		a.limiter = nil
	}
	a.mu.Unlock()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
