package router

import (
	"time"

	"github.com/arno756/storage-advisor/internal/api"
	"github.com/arno756/storage-advisor/pkg/di"
	"github.com/arno756/storage-advisor/pkg/errors"
	"github.com/arno756/storage-advisor/pkg/logger"
	"github.com/arno756/storage-advisor/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := container.Config

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(middleware.CORS(cfg.Security.AllowedOrigins))

	rateLimiterOptions := middleware.DefaultRateLimiterOptions()
	rateLimiterOptions.Limit = rate.Limit(cfg.Security.RateLimit)
	rateLimiterOptions.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, rateLimiterOptions)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	surveyController := api.NewSurveyController(r.Container.Survey, r.Container.Metrics)
	advisorController := api.NewAdvisorController(r.Container.Advisor, r.Container.FollowUp)
	sessionsController := api.NewSessionsController(r.Container.Directory)

	surveyController.RegisterRoutes(r.Engine)
	advisorController.RegisterRoutes(r.Engine)
	sessionsController.RegisterRoutes(r.Engine)

	r.Engine.GET("/health", r.healthCheckHandler())
	r.Engine.GET("/metrics", r.Container.Metrics.Handler())
}

// healthCheckHandler returns a simple health check handler
func (r *Router) healthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    r.Container.Config.Server.Env,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
