package config

import (
	"testing"
	"time"
)

func TestParse_Defaults_WhenEnvMissing(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("TOKEN_PATH", "")
	t.Setenv("SOLVER_BATCH", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Parse()

	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("APIBaseURL=%q; want http://localhost:8000", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("HTTPTimeout=%v; want 30s", cfg.HTTPTimeout)
	}
	if cfg.TokenPath != "" {
		t.Fatalf("TokenPath=%q; want empty (resolved by the caller)", cfg.TokenPath)
	}
	if cfg.SolverBatch != 4096 {
		t.Fatalf("SolverBatch=%d; want 4096", cfg.SolverBatch)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel=%q; want info", cfg.LogLevel)
	}
}

func TestParse_ValidValues(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.test")
	t.Setenv("HTTP_TIMEOUT", "1500ms")
	t.Setenv("TOKEN_PATH", "/tmp/session")
	t.Setenv("SOLVER_BATCH", "128")

	cfg := Parse()

	if cfg.APIBaseURL != "https://api.example.test" {
		t.Fatalf("APIBaseURL=%q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 1500*time.Millisecond {
		t.Fatalf("HTTPTimeout=%v; want 1500ms", cfg.HTTPTimeout)
	}
	if cfg.TokenPath != "/tmp/session" {
		t.Fatalf("TokenPath=%q", cfg.TokenPath)
	}
	if cfg.SolverBatch != 128 {
		t.Fatalf("SolverBatch=%d; want 128", cfg.SolverBatch)
	}
}

func TestParse_InvalidValues_CurrentBehavior(t *testing.T) {
	// ParseDuration errors are ignored -> zero value.
	t.Setenv("HTTP_TIMEOUT", "oops")
	// Invalid batch -> atoi falls back to the default.
	t.Setenv("SOLVER_BATCH", "abc")

	cfg := Parse()

	if cfg.HTTPTimeout != 0 {
		t.Fatalf("HTTPTimeout=%v; want 0 for an unparseable duration", cfg.HTTPTimeout)
	}
	if cfg.SolverBatch != 4096 {
		t.Fatalf("SolverBatch=%d; want default 4096 for an unparseable value", cfg.SolverBatch)
	}
}
