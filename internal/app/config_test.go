package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "PORT", "AUTO_MIGRATE", "JWT_SECRET", "JWT_EXPIRATION_HOURS",
		"ADMIN_EMAIL", "ADMIN_PASSWORD_HASH", "RESET_PASSWORD_URL", "CORS_ORIGINS",
		"REDIS_ADDR", "REDIS_DB",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	clearConfigEnv(t)
	if _, err := LoadConfig(logger.Nop()); err == nil {
		t.Fatalf("expected an error without JWT_SECRET")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || !cfg.AutoMigrate {
		t.Fatalf("unexpected defaults: port=%q automigrate=%v", cfg.Port, cfg.AutoMigrate)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl: want=24h got=%s", cfg.TokenTTL)
	}
	if cfg.RedisAddr != "" || len(cfg.CORSOrigins) != 0 {
		t.Fatalf("optional settings should be empty: redis=%q cors=%v", cfg.RedisAddr, cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "https://amelfit.fr, https://admin.amelfit.fr,")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REDIS_ADDR", " redis:6379 ")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TokenTTL != 2*time.Hour || cfg.AutoMigrate || cfg.RedisAddr != "redis:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.amelfit.fr" {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nRESET_PASSWORD_URL=https://amelfit.fr/reset\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RESET_PASSWORD_URL", "")
	_ = os.Unsetenv("RESET_PASSWORD_URL")

	LoadDotEnv(path)

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("dotenv must not override the environment, got %q", cfg.JWTSecret)
	}
	if cfg.ResetURL != "https://amelfit.fr/reset" {
		t.Fatalf("dotenv value not loaded: %q", cfg.ResetURL)
	}
}
