package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/amelfit-backend/internal/platform/gcp"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/platform/openai"
	"github.com/yungbote/amelfit-backend/internal/platform/redislock"
	"github.com/yungbote/amelfit-backend/internal/platform/sendgrid"
	"github.com/yungbote/amelfit-backend/internal/platform/stripe"
)

// Clients holds the outbound integrations. Every one except Locker is optional and left nil
// when unconfigured; the services degrade accordingly.
type Clients struct {
	Redis    goredis.UniversalClient
	Locker   redislock.Locker
	OpenAI   openai.Client
	Stripe   stripe.Client
	SendGrid sendgrid.Client
	Bucket   gcp.BucketService
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		locker, err := redislock.NewRedis(log, rdb, redislock.Config{})
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis locker: %w", err)
		}
		out.Redis = rdb
		out.Locker = locker
		log.Info("stats lock backed by redis", "addr", cfg.RedisAddr)
	} else {
		out.Locker = redislock.NewLocal()
	}

	// Openai
	if ai, err := openai.NewFromEnv(log); err != nil {
		log.Warn("openai client disabled, meal analysis uses the fallback estimate", "error", err)
	} else {
		out.OpenAI = ai
	}

	// Stripe
	if sc, err := stripe.New(log, stripe.ConfigFromEnv()); err != nil {
		if !errors.Is(err, stripe.ErrNotConfigured) {
			return Clients{}, fmt.Errorf("init stripe client: %w", err)
		}
		log.Warn("stripe not configured, card checkout disabled")
	} else {
		out.Stripe = sc
	}

	// Sendgrid
	if mailer, err := sendgrid.NewFromEnv(log); err != nil {
		if !errors.Is(err, sendgrid.ErrNotConfigured) {
			return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
		}
		log.Warn("sendgrid not configured, password reset emails are not sent")
	} else {
		out.SendGrid = mailer
	}

	// Gcs
	if bucket, err := gcp.NewBucketService(log); err != nil {
		log.Warn("content bucket disabled, image upload unavailable", "error", err)
	} else {
		out.Bucket = bucket
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
