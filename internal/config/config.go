package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	ResendAPIKey string
	FromEmail    string
	FromName     string

	WhatsAppAPIURL     string
	WhatsAppAPIKey     string
	DefaultCountryCode string

	DevFallbackEmail string
	DevFallbackPhone string
	StagingHostname  string

	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	SendTimeout  time.Duration

	CORSOrigins string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "notification-documents"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.edu"),
		FromName:     getEnv("FROM_NAME", "Campus Office"),

		WhatsAppAPIURL:     getEnv("WA_API_URL", ""),
		WhatsAppAPIKey:     getEnv("WA_API_KEY", ""),
		DefaultCountryCode: getEnv("WA_DEFAULT_COUNTRY_CODE", "+91"),

		DevFallbackEmail: getEnv("DEV_FALLBACK_EMAIL", "dev@example.edu"),
		DevFallbackPhone: getEnv("DEV_FALLBACK_PHONE", "+910000000000"),
		StagingHostname:  getEnv("STAGING_HOSTNAME", "staging."),

		PollInterval: getDurationEnv("DISPATCH_POLL_INTERVAL", 10*time.Second),
		BatchSize:    getIntEnv("DISPATCH_BATCH_SIZE", 25),
		MaxRetries:   getIntEnv("DISPATCH_MAX_RETRIES", 7),
		SendTimeout:  getDurationEnv("PROVIDER_SEND_TIMEOUT", 15*time.Second),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
