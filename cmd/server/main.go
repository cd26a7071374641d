package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arno756/storage-advisor/internal/models"
	"github.com/arno756/storage-advisor/pkg/config"
	"github.com/arno756/storage-advisor/pkg/di"
	"github.com/arno756/storage-advisor/pkg/logger"
	"github.com/arno756/storage-advisor/pkg/router"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	appLogger := logger.New(logConfig)
	logger.SetGlobal(appLogger)

	appLogger.Info("starting storage advisor", "env", cfg.Server.Env)

	// Initialize database
	db, err := config.NewDB()
	if err != nil {
		appLogger.LogError(err, "failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema. The question catalog and the feature
	// comparison reference are seeded externally.
	if err := db.AutoMigrate(
		&models.Question{},
		&models.SurveyResponse{},
		&models.LLMExchange{},
		&models.FollowUp{},
		&models.Feedback{},
		&models.FeatureRanking{},
		&models.ConnectionEvent{},
		&models.FeatureComparison{},
		&models.HelpRequest{},
	); err != nil {
		appLogger.LogError(err, "failed to migrate database")
		os.Exit(1)
	}

	// Create indexes for the hot query paths
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_email_event ON connections(email, event_type)").Error; err != nil {
		appLogger.LogError(err, "failed to create connections index")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_responses_session ON responses(session_id, question_id)").Error; err != nil {
		appLogger.LogError(err, "failed to create responses index")
	}

	// Initialize dependency injection container
	container, err := di.New(db, cfg, logConfig)
	if err != nil {
		appLogger.LogError(err, "failed to initialize dependency container")
		os.Exit(1)
	}

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.LogError(err, "server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.LogError(err, "server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	appLogger.Info("server exited gracefully")
}
