package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	UsersAPIURL     string
	GamePassAPIURL  string
	EconomyAPIURL   string
	RequestTimeout  time.Duration
	PaceInterval    time.Duration
	ResolveCacheTTL time.Duration
	PageSize        int
	LogLevel        string
	Environment     string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "5000"),
		UsersAPIURL:     getEnv("USERS_API_URL", "https://users.roblox.com"),
		GamePassAPIURL:  getEnv("GAMEPASS_API_URL", "https://apis.roblox.com"),
		EconomyAPIURL:   getEnv("ECONOMY_API_URL", "https://economy.roblox.com"),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		PaceInterval:    getDurationEnv("PACE_INTERVAL", 300*time.Millisecond),
		ResolveCacheTTL: getDurationEnv("RESOLVE_CACHE_TTL", 5*time.Minute),
		PageSize:        getIntEnv("PAGE_SIZE", 100),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
