package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	UpstreamURL     string
	SessionSecret   string
	SessionDuration time.Duration
	SessionStore    string
	StaticFilesPath string
	TemplatesPath   string
	MigrationsPath  string

	// Database
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	// Redis session store
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	AuthMode        string
	LoginRateLimit  int
	LoginRateWindow time.Duration
	TrustProxy      bool

	// Email (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	LogLevel string
	Debug    bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "3000"),
		UpstreamURL:     strings.TrimRight(getEnv("UPSTREAM_URL", "http://localhost:5000"), "/"),
		SessionSecret:   getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionDuration: getEnvDuration("SESSION_TTL", time.Hour),
		SessionStore:    strings.ToLower(getEnv("SESSION_STORE", "sql")),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),

		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./smartedtech.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AuthMode:        strings.ToLower(getEnv("AUTH_MODE", "upstream")),
		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		TrustProxy:      getEnvBool("TRUST_PROXY", false),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "SmartLearn"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:3000"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnvBool("DEBUG", false),
	}
}

// IsDemoAuth reports whether sign-in is checked against the built-in demo account
func (c *Config) IsDemoAuth() bool {
	return c.AuthMode == "demo"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
