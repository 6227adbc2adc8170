package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Generation parameter bounds. Requests outside these ranges are rejected
// before any call to the Gemini API is made.
const (
	TemperatureMin     = 0.0
	TemperatureMax     = 1.0
	DefaultTemperature = 0.7

	MaxOutputTokensMin     = 1024
	MaxOutputTokensMax     = 8192
	DefaultMaxOutputTokens = 8192

	DefaultTopP = 0.95
	DefaultTopK = 40
)

// User input limits, carried over from the app's original constants.
const (
	MinDetailLength = 10
	MaxDetailLength = 2000

	TimelineWeeksMin = 1
	TimelineWeeksMax = 16

	ComplexityMin = 1
	ComplexityMax = 10

	MaxImageBytes = 10 * 1024 * 1024 // 10 MiB
)

// AllowedImageMIMETypes lists the image formats accepted as prompt attachments.
var AllowedImageMIMETypes = []string{"image/png", "image/jpeg", "image/jpg", "image/webp"}

type Config struct {
	Port    string
	GinMode string

	// Gemini API
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Timeout for a single generation call, in seconds. Generation of a full
	// project guide is slow, so this is deliberately generous.
	GenerateTimeoutSeconds int

	// Database (optional). When empty, saved-guide endpoints are not mounted.
	DatabaseURL string

	// Database Connection Pool
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime int // in minutes
	DBConnMaxLifetime int // in minutes

	// Catalog file override. Empty means the embedded default catalog.
	CatalogPath string

	// Rate Limiting
	RateLimitEnabled           bool
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Chat sessions
	ChatSessionTTLMinutes    int
	ChatSweepIntervalMinutes int
	ChatMaxMessageLength     int

	// Server
	ServerShutdownTimeoutSeconds int

	// Logging
	LogLevel  string
	LogFormat string
}

var AppConfig *Config

// ErrMissingAPIKey is returned when no Gemini API key is configured. This is
// the only configuration error that is allowed to stop the process.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set; add it to the environment or a .env file")

// LoadConfig populates AppConfig from the environment. A .env file in the
// working directory is loaded first if present.
func LoadConfig() error {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Gemini (trim whitespace to avoid common config errors)
		GeminiAPIKey:  strings.TrimSpace(getEnvOrDefault("GEMINI_API_KEY", "")),
		GeminiBaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),

		GenerateTimeoutSeconds: getEnvAsInt("GENERATE_TIMEOUT_SECONDS", 120),

		// Database
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),

		// Database Connection Pool
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 15),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 1),
		DBConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		// Catalog
		CatalogPath: getEnvOrDefault("CATALOG_PATH", ""),

		// Rate Limiting
		RateLimitEnabled:           getEnvOrDefault("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 10),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 3),

		// Chat sessions
		ChatSessionTTLMinutes:    getEnvAsInt("CHAT_SESSION_TTL_MINUTES", 60),
		ChatSweepIntervalMinutes: getEnvAsInt("CHAT_SWEEP_INTERVAL_MINUTES", 5),
		ChatMaxMessageLength:     getEnvAsInt("CHAT_MAX_MESSAGE_LENGTH", 2000),

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", ""),
	}

	if AppConfig.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}

	return nil
}

// IsAllowedImageMIME reports whether mimeType is an accepted attachment format.
func IsAllowedImageMIME(mimeType string) bool {
	for _, allowed := range AllowedImageMIMETypes {
		if strings.EqualFold(mimeType, allowed) {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
