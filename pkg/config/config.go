package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	TokenPath   string
	SolverBatch int
	LogLevel    string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func Parse() Config {
	timeout, _ := time.ParseDuration(getenv("HTTP_TIMEOUT", "30s"))
	return Config{
		APIBaseURL:  getenv("API_BASE_URL", "http://localhost:8000"),
		HTTPTimeout: timeout,
		TokenPath:   getenv("TOKEN_PATH", ""),
		SolverBatch: atoi(getenv("SOLVER_BATCH", "4096"), 4096),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
}
