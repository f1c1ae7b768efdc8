package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External services
	Directory DirectoryConfig
	Registry  RegistryConfig

	// Analytics engine
	Analytics AnalyticsConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DirectoryConfig holds the personnel directory API configuration
type DirectoryConfig struct {
	BaseURL      string
	APIKey       string
	RequestsPerS float64 // client-side rate limit
}

// RegistryConfig holds the public license-board lookup configuration
type RegistryConfig struct {
	BaseURL string
	Enabled bool
}

// AnalyticsConfig holds tunables for the analytics engine
type AnalyticsConfig struct {
	HorizonDays    int           // forecast look-ahead, overridden per facility
	TopPerformers  int           // ranking size
	LookbackMonths int           // performer ranking lookback
	TrendMonths    int           // trailing trend window
	FetchTimeout   time.Duration // per-stream read bound
	ReportCacheTTL time.Duration
	WarmWindowDays int // facilities active within N days get warmed
}

// Load reads configuration from environment variables
// SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "medshift"),
			User:            getEnv("DB_USER", "medshift"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External services
		Directory: DirectoryConfig{
			BaseURL:      getEnv("DIRECTORY_BASE_URL", "http://localhost:8090"),
			APIKey:       getEnv("DIRECTORY_API_KEY", ""),
			RequestsPerS: getEnvAsFloat("DIRECTORY_RATE_LIMIT", 10),
		},

		Registry: RegistryConfig{
			BaseURL: getEnv("REGISTRY_BASE_URL", ""),
			Enabled: getEnvAsBool("REGISTRY_ENABLED", false),
		},

		// Analytics engine
		Analytics: AnalyticsConfig{
			HorizonDays:    getEnvAsInt("ANALYTICS_HORIZON_DAYS", 14),
			TopPerformers:  getEnvAsInt("ANALYTICS_TOP_PERFORMERS", 5),
			LookbackMonths: getEnvAsInt("ANALYTICS_RANKING_LOOKBACK_MONTHS", 12),
			TrendMonths:    getEnvAsInt("ANALYTICS_TREND_MONTHS", 6),
			FetchTimeout:   getEnvAsDuration("ANALYTICS_FETCH_TIMEOUT", "10s"),
			ReportCacheTTL: getEnvAsDuration("ANALYTICS_REPORT_CACHE_TTL", "5m"),
			WarmWindowDays: getEnvAsInt("ANALYTICS_WARM_WINDOW_DAYS", 30),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analytics.HorizonDays <= 0 {
		return fmt.Errorf("ANALYTICS_HORIZON_DAYS must be positive")
	}
	if c.Analytics.TopPerformers <= 0 {
		return fmt.Errorf("ANALYTICS_TOP_PERFORMERS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
