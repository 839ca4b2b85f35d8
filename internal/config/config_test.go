package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8000 {
		t.Errorf("expected Port=8000, got %d", cfg.Server.Port)
	}
	if cfg.Aggregation.SummaryWindowHours != 48 {
		t.Errorf("expected SummaryWindowHours=48, got %d", cfg.Aggregation.SummaryWindowHours)
	}
	if cfg.CanvasTimeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.CanvasTimeout())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CANVAS_BASE_URL", "")
	t.Setenv("CANVAS_ACCESS_TOKEN", "")
	t.Setenv("CANVAS_TERM_PREFIX", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	t.Setenv("CANVAS_BASE_URL", "https://env.instructure.com")
	t.Setenv("CANVAS_ACCESS_TOKEN", "")
	t.Setenv("CANVAS_TERM_PREFIX", "")
	t.Setenv("PORT", "9001")

	path := filepath.Join(t.TempDir(), "canvashelper.yaml")
	data := []byte(`
canvas:
  base_url: https://file.instructure.com
  access_token: file-token
  term_prefix: 25-FS
  timeout: 10s
server:
  port: 8080
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Environment beats file.
	if cfg.Canvas.BaseURL != "https://env.instructure.com" {
		t.Errorf("BaseURL = %q, want env override", cfg.Canvas.BaseURL)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Port = %d, want env override 9001", cfg.Server.Port)
	}

	// File beats defaults.
	if cfg.Canvas.AccessToken != "file-token" {
		t.Errorf("AccessToken = %q, want file value", cfg.Canvas.AccessToken)
	}
	if cfg.Canvas.TermPrefix != "25-FS" {
		t.Errorf("TermPrefix = %q, want file value", cfg.Canvas.TermPrefix)
	}
	if cfg.CanvasTimeout() != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", cfg.CanvasTimeout())
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("missing base URL and token should fail validation")
	}

	cfg.Canvas.BaseURL = "https://school.instructure.com"
	cfg.Canvas.AccessToken = "token"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.Server.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative port should fail validation")
	}
}
