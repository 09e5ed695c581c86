package app

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/amelfit-backend/internal/data/db"
	"github.com/yungbote/amelfit-backend/internal/platform/envutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type Config struct {
	Env         string
	LogMode     string
	Port        string
	MetricsAddr string
	AutoMigrate bool

	JWTSecret         string
	TokenTTL          time.Duration
	AdminEmail        string
	AdminPasswordHash string
	ResetURL          string

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Postgres db.PostgresConfig
}

// LoadDotEnv reads .env files when present; real environment variables win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Env:         envutil.String("APP_ENV", "development"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		Port:        envutil.String("PORT", "8080"),
		MetricsAddr: envutil.String("METRICS_ADDR", ""),
		AutoMigrate: envutil.Bool("AUTO_MIGRATE", true),

		JWTSecret:         envutil.String("JWT_SECRET", ""),
		TokenTTL:          time.Duration(envutil.Int("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		AdminEmail:        envutil.String("ADMIN_EMAIL", ""),
		AdminPasswordHash: envutil.String("ADMIN_PASSWORD_HASH", ""),
		ResetURL:          envutil.String("RESET_PASSWORD_URL", "http://localhost:3000/reset-password"),

		CORSOrigins: envutil.List("CORS_ORIGINS", nil),

		RedisAddr:     strings.TrimSpace(envutil.String("REDIS_ADDR", "")),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),

		Postgres: db.PostgresConfigFromEnv(),
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, errors.New("missing env var JWT_SECRET")
	}
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, admin login disabled")
	}
	return cfg, nil
}
