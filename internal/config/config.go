package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogLevel     string

	// Cache
	RedisURI string
	CacheTTL time.Duration

	// External APIs
	GeminiAPIKey  string
	GeminiModel   string
	SerperAPIKey  string
	SerperURL     string
	SerperTimeout time.Duration

	// Inbound throttle
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewConfig creates a new configuration from environment variables
func NewConfig() *Config {
	readTimeoutSec, _ := strconv.Atoi(getEnv("READ_TIMEOUT", "10"))
	writeTimeoutSec, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT", "600"))
	cacheTTLMin, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "60"))
	serperTimeoutSec, _ := strconv.Atoi(getEnv("SERPER_TIMEOUT", "30"))
	rateLimitRPS, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "2"), 64)
	rateLimitBurst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "5"))

	return &Config{
		// Server
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(writeTimeoutSec) * time.Second,
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		// Cache
		RedisURI: getEnv("REDIS_URI", ""),
		CacheTTL: time.Duration(cacheTTLMin) * time.Minute,

		// External APIs
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		SerperAPIKey:  getEnv("SERPER_API_KEY", ""),
		SerperURL:     getEnv("SERPER_URL", "https://google.serper.dev/search"),
		SerperTimeout: time.Duration(serperTimeoutSec) * time.Second,

		// Inbound throttle
		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
