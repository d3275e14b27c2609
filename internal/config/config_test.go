package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vigat-bahee/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_SKIP", "true")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port, got %s", cfg.HTTPPort)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %s", cfg.DB.Driver)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", cfg.Auth.TokenTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 {
		t.Fatalf("expected default origin, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadDotEnvDoesNotOverrideEnv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	contents := "HTTP_PORT=9090\nDB_DRIVER=sqlite\nJWT_SECRET=\"from-file\"\n"
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, nested)
	t.Setenv("HTTP_PORT", "7070")
	// Registered for cleanup; the values below come from the file.
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("JWT_SECRET")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected env to win, got %s", cfg.HTTPPort)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Fatalf("expected sqlite from .env, got %s", cfg.DB.Driver)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("expected secret from .env, got %q", cfg.Auth.JWTSecret)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{DB: DBConfig{Driver: "oracle"}, Auth: AuthConfig{SkipAuth: true}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported driver error")
	}

	cfg = Config{DB: DBConfig{Driver: DriverMemory}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing secret error")
	}

	cfg.Auth.JWTSecret = "s3cret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	got := getEnvList("CORS_ALLOWED_ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", got)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
