package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultBaseURL = "http://localhost:8000/api/v1"

type Config struct {
	BaseURL     string
	Port        string
	HTTPTimeout time.Duration // 0 = sin timeout del lado cliente
	LogLevel    slog.Level
}

func FromEnv() Config {
	// .env local es opcional
	_ = godotenv.Load()

	var to time.Duration
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		lvl = slog.LevelDebug
	}
	return Config{
		BaseURL:     strings.TrimRight(envOr("PLANNER_BASE_URL", DefaultBaseURL), "/"),
		Port:        envOr("PORT", "8080"),
		HTTPTimeout: to,
		LogLevel:    lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
