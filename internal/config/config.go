package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Jupiter API settings
	BaseURL string
	APIKey  string

	// HTTP client settings
	HTTPTimeout  time.Duration
	RateLimitRPS int

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		BaseURL: getEnv("JUPITER_BASE_URL", "https://api.jup.ag/swap/v1"),
		APIKey:  getEnv("JUPITER_API_KEY", ""),

		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 12*time.Second),
		RateLimitRPS: getIntEnv("RATE_LIMIT_RPS", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
