package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MUTATION_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("COMMERCE_API_URL", "https://api.example/")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.MutationTimeout != 3*time.Second {
		t.Fatalf("unexpected mutation timeout %s", cfg.MutationTimeout)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.CommerceAPIURL != "https://api.example" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.CommerceAPIURL)
	}
	if cfg.DBMaxConns != 25 {
		t.Fatalf("unexpected db max conns %d", cfg.DBMaxConns)
	}
}

func TestFromEnvIgnoresBadDuration(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT_SECONDS", "soon")
	cfg := FromEnv()
	if cfg.GatewayTimeout != Defaults().GatewayTimeout {
		t.Fatalf("expected default gateway timeout, got %s", cfg.GatewayTimeout)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	body := "httpAddr: \":7000\"\ncommerceProjectKey: flowers\nmutationTimeout: 5s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COMMERCE_PROJECT_KEY", "bouquets")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("expected file value, got %q", cfg.HTTPAddr)
	}
	if cfg.MutationTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.MutationTimeout)
	}
	if cfg.CommerceProjectKey != "bouquets" {
		t.Fatalf("expected env override, got %q", cfg.CommerceProjectKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
