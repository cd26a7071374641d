package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
	}

	// Database configuration
	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
		Timeout  time.Duration
	}

	// Azure OpenAI configuration
	OpenAI struct {
		Key        string
		Endpoint   string
		Deployment string
		APIVersion string
		Timeout    time.Duration
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Advisor behavior knobs
	Advisor struct {
		MaxFollowUps           int
		MaxCompletionTokens    int
		RecommendationTemp     float64
		FollowUpTemp           float64
		FeatureTableCacheTTL   time.Duration
		FeatureTableCachePurge time.Duration
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "5001")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)

		// Database config
		instance.Database.Host = getEnvString("DB_HOST", "localhost")
		instance.Database.Port = getEnvString("DB_PORT", "5432")
		instance.Database.User = getEnvString("DB_USER", "postgres")
		instance.Database.Password = getEnvString("DB_PASSWORD", "postgres")
		instance.Database.Name = getEnvString("DB_NAME", "storage-advisor")
		instance.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
		instance.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
		instance.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

		// Azure OpenAI config
		instance.OpenAI.Key = getEnvString("AZURE_OPENAI_KEY", "")
		instance.OpenAI.Endpoint = getEnvString("AZURE_OPENAI_ENDPOINT", "")
		instance.OpenAI.Deployment = getEnvString("AZURE_OPENAI_DEPLOYMENT", "")
		instance.OpenAI.APIVersion = getEnvString("AZURE_OPENAI_API_VERSION", "2024-10-21")
		instance.OpenAI.Timeout = getEnvDuration("AZURE_OPENAI_TIMEOUT", 60*time.Second)

		// Security config
		instance.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{
			"https://nice-hill-06bb87c0f.4.azurestaticapps.net",
			"https://victorious-plant-018c0aa0f.4.azurestaticapps.net",
		})

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")

		// Advisor config
		instance.Advisor.MaxFollowUps = getEnvInt("MAX_FOLLOWUPS", 20)
		instance.Advisor.MaxCompletionTokens = getEnvInt("MAX_COMPLETION_TOKENS", 1000)
		instance.Advisor.RecommendationTemp = getEnvFloat("RECOMMENDATION_TEMPERATURE", 1.0)
		instance.Advisor.FollowUpTemp = getEnvFloat("FOLLOWUP_TEMPERATURE", 0.7)
		instance.Advisor.FeatureTableCacheTTL = getEnvDuration("FEATURE_TABLE_CACHE_TTL", 5*time.Minute)
		instance.Advisor.FeatureTableCachePurge = getEnvDuration("FEATURE_TABLE_CACHE_PURGE", 10*time.Minute)
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
