package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session cookie signing
	SessionSecret string

	// Recommendation API
	RecommenderURL     string
	RecommenderTimeout time.Duration
	FailurePolicy      string

	// Image search
	ImageSearchAPIKey   string
	ImageSearchEngineID string
	ImageSearchURL      string
	// minimum spacing between outbound searches, 0 disables throttling
	ImageSearchInterval time.Duration
	S3BucketName        string

	// Plan generation rate limit
	PlanRateLimit  int
	PlanRateWindow time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvValues fills every non-secret field from environment variables
func loadEnvValues(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBName = getEnv("DB_NAME", "dietrec")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.DBPath = getEnv("DB_PATH", "dietrec.db")

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.RecommenderURL = getEnv("RECOMMENDER_URL", "http://localhost:8000")
	cfg.FailurePolicy = getEnv("FAILURE_POLICY", "discard")
	cfg.ImageSearchEngineID = os.Getenv("IMAGE_SEARCH_ENGINE_ID")
	cfg.ImageSearchURL = os.Getenv("IMAGE_SEARCH_URL")
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	var err error
	if cfg.RecommenderTimeout, err = getDuration("RECOMMENDER_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if cfg.PlanRateWindow, err = getDuration("PLAN_RATE_WINDOW", time.Hour); err != nil {
		return err
	}
	if cfg.PlanRateLimit, err = getInt("PLAN_RATE_LIMIT", 20); err != nil {
		return err
	}
	if cfg.ImageSearchInterval, err = getDuration("IMAGE_SEARCH_INTERVAL", 0); err != nil {
		return err
	}
	return nil
}

// loadCIConfig loads configuration for CI environment using ONLY GitHub Actions secrets
func loadCIConfig(cfg *Config) error {
	if err := loadEnvValues(cfg); err != nil {
		return err
	}
	cfg.DBUser = os.Getenv("DB_USER")

	// GitHub Actions secrets - use environment variables directly
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.SessionSecret = os.Getenv("TEST_SESSION_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.ImageSearchAPIKey = os.Getenv("TEST_IMAGE_SEARCH_API_KEY")

	return nil
}

// loadDevConfig loads configuration for development and test from .env and the environment
func loadDevConfig(cfg *Config) error {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := loadEnvValues(cfg); err != nil {
		return err
	}
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = getEnv("DB_PASSWORD", "postgres")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "dev-session-secret")
	cfg.ImageSearchAPIKey = os.Getenv("IMAGE_SEARCH_API_KEY")

	return nil
}

// loadProdConfig loads configuration for production, sensitive values from Docker secrets only
func loadProdConfig(cfg *Config) error {
	if err := loadEnvValues(cfg); err != nil {
		return err
	}
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.SessionSecret = readSecret("session_secret")
	cfg.ImageSearchAPIKey = readSecret("image_search_api_key")

	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// ImageSearchEnabled reports whether image lookups are configured
func (c *Config) ImageSearchEnabled() bool {
	return c.ImageSearchAPIKey != "" && c.ImageSearchEngineID != ""
}
