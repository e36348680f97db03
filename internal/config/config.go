package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	RedisAddr string

	GeminiAPIKey string
	GeminiModel  string

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	ReviewerEmail string

	ZipLookupURL    string
	ZipLookupUserID string

	RateSheetPath   string
	SheetReloadSpec string

	RateLimitPerMin int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConn:          getEnv("DB_CONN", "host=localhost port=5432 user=quotes password=quotes dbname=quotes sslmode=disable"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "quotes@domuslending.com"),
		ReviewerEmail:   getEnv("REVIEWER_EMAIL", ""),
		ZipLookupURL:    getEnv("ZIP_LOOKUP_URL", "https://production.shippingapis.com/ShippingAPI.dll"),
		ZipLookupUserID: getEnv("ZIP_LOOKUP_USER_ID", ""),
		RateSheetPath:   getEnv("RATE_SHEET_PATH", ""),
		SheetReloadSpec: getEnv("SHEET_RELOAD_SPEC", "@hourly"),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 30),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.RateLimitPerMin <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MIN must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return n
}
