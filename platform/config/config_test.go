package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/estate")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetCatalogQueryMode() != QueryModePushdown {
		t.Fatalf("expected pushdown mode, got %q", cfg.GetCatalogQueryMode())
	}
	if cfg.GetCatalogCacheTTL() != 2*time.Minute {
		t.Fatalf("expected 2m cache ttl, got %s", cfg.GetCatalogCacheTTL())
	}
	if cfg.GetTourReminderLeadTime() != 24*time.Hour {
		t.Fatalf("expected 24h reminder lead time, got %s", cfg.GetTourReminderLeadTime())
	}
	if cfg.GetTourRejectPastDates() {
		t.Fatalf("past-date rejection must be off by default")
	}
	if cfg.GetDBMaxConns() != 25 || cfg.GetDBMinConns() != 5 {
		t.Fatalf("expected pool bounds 5..25, got %d..%d", cfg.GetDBMinConns(), cfg.GetDBMaxConns())
	}
	if cfg.GetPhoneDefaultRegion() != "US" {
		t.Fatalf("expected US phone region, got %q", cfg.GetPhoneDefaultRegion())
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadRejectsUnknownQueryMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/estate")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CATALOG_QUERY_MODE", "magic")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown query mode")
	}
}

func TestLoadRejectsPoolBounds(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/estate")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "8")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
}

func TestWildcardOriginEnablesAllowAll(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/estate")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatalf("expected wildcard origin to enable allow-all")
	}
}
