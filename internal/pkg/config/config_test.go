package config

import (
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected base defaults: %+v", cfg)
	}
	if cfg.StorageBackend != BackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.StorageBackend)
	}
	if cfg.Auth.SessionTTL != 24*time.Hour || cfg.Auth.LoginDelay != time.Second {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Auth.TokenSecret != "" || cfg.Auth.CredentialsDurable {
		t.Fatalf("expected mock tokens and memory credentials by default: %+v", cfg.Auth)
	}
	if cfg.Audit.Workers != 4 || cfg.Audit.Capacity != 500 {
		t.Fatalf("unexpected audit defaults: %+v", cfg.Audit)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Mongo.Database != "admin_console" {
		t.Fatalf("unexpected backend defaults: %+v %+v", cfg.Redis, cfg.Mongo)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not be production")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"ENV":                 "production",
		"STORAGE_BACKEND":     "redis",
		"REDIS_ADDR":          "cache:6380",
		"REDIS_DB":            "2",
		"TOKEN_SECRET":        "s3cret",
		"SESSION_TTL":         "30m",
		"LOGIN_DELAY":         "0s",
		"CREDENTIALS_DURABLE": "true",
		"AUDIT_WORKERS":       "8",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.IsProduction() || cfg.StorageBackend != BackendRedis {
		t.Fatalf("unexpected env/backend: %+v", cfg)
	}
	if cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	want := AuthConfig{TokenSecret: "s3cret", SessionTTL: 30 * time.Minute, LoginDelay: 0, CredentialsDurable: true}
	if cfg.Auth != want {
		t.Fatalf("got %+v, want %+v", cfg.Auth, want)
	}
	if cfg.Audit.Workers != 8 {
		t.Fatalf("expected 8 audit workers, got %d", cfg.Audit.Workers)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "sqlite"}, "STORAGE_BACKEND"},
		{"zero ttl", map[string]string{"SESSION_TTL": "0s"}, "SESSION_TTL"},
		{"negative delay", map[string]string{"LOGIN_DELAY": "-1s"}, "LOGIN_DELAY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(envconfig.MapLookuper(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_PanicsOnBadEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Load()
}
