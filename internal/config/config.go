package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI      string
	HTTPAddr         string
	JWTSecret        string
	SweepInterval    time.Duration
	SweepConcurrency int
	TelegramToken    string
	AIAPIKey         string
	AIBaseURL        string
	AIModel          string
	LogLevel         string
	DevMode          bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:      os.Getenv("DATABASE_URI"),
		HTTPAddr:         getEnvOrDefault("HTTP_ADDR", ":8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SweepInterval:    getDurationOrDefault("SWEEP_INTERVAL", time.Hour),
		SweepConcurrency: getIntOrDefault("SWEEP_CONCURRENCY", 8),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		AIAPIKey:         os.Getenv("AI_API_KEY"),
		AIBaseURL:        getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
		AIModel:          getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		DevMode:          os.Getenv("DEV_MODE") == "true",
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
