package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":           "postgres://localhost:5432/pricing",
		"REDIS_URL":              "redis://localhost:6379/0",
		"APP_ENV":                "",
		"PORT":                   "",
		"CURRENCY_CODE":          "",
		"RULE_CACHE_TTL":         "",
		"RULE_SYNC_INTERVAL":     "",
		"PREVIEW_RATE_LIMIT_MAX": "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr())
	}
	if cfg.RuleCacheTTL != 30*time.Second {
		t.Fatalf("RuleCacheTTL = %v", cfg.RuleCacheTTL)
	}
	if cfg.RuleSyncEvery != time.Minute {
		t.Fatalf("RuleSyncEvery = %v", cfg.RuleSyncEvery)
	}
	if cfg.PreviewRateLimitMax != 60 {
		t.Fatalf("PreviewRateLimitMax = %d", cfg.PreviewRateLimitMax)
	}
}

func TestLoadRequiresDatabaseAndRedis(t *testing.T) {
	if _, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	}); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
	if _, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/pricing",
		"REDIS_URL":    "",
	}); err == nil {
		t.Fatal("expected error without REDIS_URL")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":              "postgres://localhost:5432/pricing",
		"REDIS_URL":                 "redis://localhost:6379/0",
		"PORT":                      "9090",
		"CORS_ALLOWED_ORIGINS":      "https://shop.example, https://admin.example",
		"RULE_CACHE_TTL":            "2m",
		"PREVIEW_RATE_LIMIT_MAX":    "10",
		"PREVIEW_RATE_LIMIT_WINDOW": "30s",
		"AUTO_MIGRATE":              "true",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":9090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://shop.example" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RuleCacheTTL != 2*time.Minute {
		t.Fatalf("RuleCacheTTL = %v", cfg.RuleCacheTTL)
	}
	if cfg.PreviewRateLimitMax != 10 || cfg.PreviewRateLimitWindow != 30*time.Second {
		t.Fatalf("rate limit = %d/%v", cfg.PreviewRateLimitMax, cfg.PreviewRateLimitWindow)
	}
	if !cfg.AutoMigrate {
		t.Fatal("expected AutoMigrate true")
	}
}
