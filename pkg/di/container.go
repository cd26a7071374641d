package di

import (
	"fmt"

	"github.com/arno756/storage-advisor/ai"
	"github.com/arno756/storage-advisor/internal/service"
	"github.com/arno756/storage-advisor/pkg/cache"
	"github.com/arno756/storage-advisor/pkg/config"
	"github.com/arno756/storage-advisor/pkg/logger"
	"github.com/arno756/storage-advisor/pkg/metrics"
	"github.com/arno756/storage-advisor/pkg/resilience"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB        *gorm.DB
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	AIClient  *ai.Client
	Survey    *service.SurveyService
	Advisor   *service.RecommendationService
	FollowUp  *service.FollowUpService
	Directory *service.SessionDirectoryService
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *config.Config, logConfig logger.Config) (*Container, error) {
	log := logger.New(logConfig)
	m := metrics.New()

	aiClient, err := ai.NewClient(ai.ClientConfig{
		Key:        cfg.OpenAI.Key,
		Endpoint:   cfg.OpenAI.Endpoint,
		Deployment: cfg.OpenAI.Deployment,
		APIVersion: cfg.OpenAI.APIVersion,
		Timeout:    cfg.OpenAI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	// One breaker shared by both LLM-backed endpoints
	breaker := resilience.NewCircuitBreaker(resilience.DefaultConfig("azure-openai"), log)

	tableCache := cache.New(cfg.Advisor.FeatureTableCacheTTL, cfg.Advisor.FeatureTableCachePurge)

	surveyService := service.NewSurveyService(db, log)
	directoryService := service.NewSessionDirectoryService(db, log)

	recommendationService := service.NewRecommendationService(db, aiClient, service.RecommendationOptions{
		Breaker:     breaker,
		TableCache:  tableCache,
		Metrics:     m,
		Logger:      log,
		MaxTokens:   cfg.Advisor.MaxCompletionTokens,
		Temperature: cfg.Advisor.RecommendationTemp,
	})

	followUpService := service.NewFollowUpService(db, aiClient, service.FollowUpOptions{
		Breaker:      breaker,
		Metrics:      m,
		Logger:       log,
		MaxFollowUps: cfg.Advisor.MaxFollowUps,
		MaxTokens:    cfg.Advisor.MaxCompletionTokens,
		Temperature:  cfg.Advisor.FollowUpTemp,
	})

	return &Container{
		DB:        db,
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		AIClient:  aiClient,
		Survey:    surveyService,
		Advisor:   recommendationService,
		FollowUp:  followUpService,
		Directory: directoryService,
	}, nil
}
