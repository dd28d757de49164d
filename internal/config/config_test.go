package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != "8081" {
		t.Errorf("expected default port 8081, got %s", cfg.HTTPPort)
	}
	if cfg.DedupWindow != 60*time.Second {
		t.Errorf("expected 60s dedup window, got %s", cfg.DedupWindow)
	}
	if cfg.AuthRequired {
		t.Error("auth must default to off")
	}
	if cfg.PhotoDir == "" {
		t.Error("photo dir must have a default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DEDUP_WINDOW", "5m")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")

	cfg := Load()

	if cfg.HTTPPort != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.HTTPPort)
	}
	if cfg.DedupWindow != 5*time.Minute {
		t.Errorf("expected 5m dedup window, got %s", cfg.DedupWindow)
	}
	if !cfg.AuthRequired {
		t.Error("expected auth required")
	}
	if cfg.RateLimitPerMin != 30 {
		t.Errorf("expected rate limit 30, got %d", cfg.RateLimitPerMin)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DEDUP_WINDOW", "not-a-duration")
	t.Setenv("AUTH_REQUIRED", "maybe")
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")

	cfg := Load()

	if cfg.DedupWindow != 60*time.Second {
		t.Errorf("expected fallback window, got %s", cfg.DedupWindow)
	}
	if cfg.AuthRequired {
		t.Error("expected fallback auth=false")
	}
	if cfg.RateLimitPerMin != 120 {
		t.Errorf("expected fallback rate limit, got %d", cfg.RateLimitPerMin)
	}
}
