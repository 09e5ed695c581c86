// Package redislock serializes work per key, either in-process or across replicas through Redis.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/amelfit-backend/internal/platform/httpx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out a release func once key is held.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// ---- in-process ----

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

// NewLocal returns a Locker that only serializes goroutines of this process.
func NewLocal() Locker {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		m.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() { k.release(key, m) }, nil
	case <-ctx.Done():
		// The goroutine still takes the mutex eventually; hand it straight back.
		go func() {
			<-acquired
			k.release(key, m)
		}()
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) release(key string, m *refMutex) {
	m.mu.Unlock()
	k.mu.Lock()
	m.refs--
	if m.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// ---- redis ----

type Config struct {
	Prefix     string
	TTL        time.Duration
	RetryEvery time.Duration
}

type redisLocker struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	cfg Config
}

// Deletes the key only while it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewRedis(log *logger.Logger, rdb goredis.UniversalClient, cfg Config) (Locker, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(cfg.Prefix) == "" {
		cfg.Prefix = "amelfit:lock:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	if cfg.RetryEvery <= 0 {
		cfg.RetryEvery = 25 * time.Millisecond
	}
	return &redisLocker{log: log.With("client", "RedisLocker"), rdb: rdb, cfg: cfg}, nil
}

func (r *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := r.cfg.Prefix + key
	token := uuid.NewString()
	for attempt := 0; ; attempt++ {
		ok, err := r.rdb.SetNX(ctx, fullKey, token, r.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return func() { r.unlock(fullKey, token) }, nil
		}
		if err := httpx.Sleep(ctx, httpx.Backoff(attempt, r.cfg.RetryEvery, 250*time.Millisecond)); err != nil {
			return nil, errors.Join(ErrNotAcquired, err)
		}
	}
}

func (r *redisLocker) unlock(fullKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.rdb, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		r.log.Warn("redis unlock failed", "key", fullKey, "error", err)
	}
}
