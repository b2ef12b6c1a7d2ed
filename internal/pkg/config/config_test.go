package config

import (
	"context"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadContext_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)

	cfg, err := LoadContext(context.Background())
	if err != nil {
		t.Fatalf("LoadContext: %v", err)
	}
	if cfg.Port != "8080" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected defaults: port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.Auth.JWTExpiration != time.Hour {
		t.Fatalf("expected 1h token lifetime, got %s", cfg.Auth.JWTExpiration)
	}
	if cfg.Redis.Addr != "" || cfg.Mongo.URI != "" {
		t.Fatalf("optional stores must default to disabled")
	}
	if cfg.Redis.CacheTTL != time.Minute || cfg.Mongo.Workers != 4 {
		t.Fatalf("unexpected cache/audit defaults: %+v %+v", cfg.Redis, cfg.Mongo)
	}
}

func TestLoadContext_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("JWT_EXPIRATION", "15m")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "/var/lib/commerce/store.db")

	cfg, err := LoadContext(context.Background())
	if err != nil {
		t.Fatalf("LoadContext: %v", err)
	}
	if cfg.Auth.JWTExpiration != 15*time.Minute {
		t.Fatalf("expected 15m, got %s", cfg.Auth.JWTExpiration)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("production must not be development")
	}
	if cfg.Database.URL != "/var/lib/commerce/store.db" {
		t.Fatalf("unexpected database url %q", cfg.Database.URL)
	}
}

func TestLoadContext_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "short secret", env: map[string]string{"JWT_SECRET": "short"}},
		{name: "zero lifetime", env: map[string]string{"JWT_SECRET": validSecret, "JWT_EXPIRATION": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadContext(context.Background()); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
