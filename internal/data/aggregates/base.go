package aggregates

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/httpx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	return d
}

// executeWrite runs fn in one transaction and records the outcome under op.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	start := time.Now()
	err := MapError(op, deps.Runner.InTx(ctx, fn))

	status := aggregateErrorStatus(err)
	if domainagg.IsCode(err, domainagg.CodeConflict) {
		deps.Hooks.IncConflict(op)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return err
}

// retryPolicy bounds how often a conflicting transaction is replayed from scratch.
type retryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Max         time.Duration
}

// executeWriteRetrying replays the whole transaction while it fails with a conflict or a
// transient error. fn must be safe to run again: nothing it did survives a rollback. When
// the attempts run out the last failure is reported as a concurrency anomaly.
func executeWriteRetrying(ctx context.Context, deps BaseDeps, op string, policy retryPolicy, fn func(dbc dbctx.Context) error) (int, error) {
	deps = deps.withDefaults()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := executeWrite(ctx, deps, op, fn)
		if err == nil {
			return attempt, nil
		}
		if !domainagg.IsCode(err, domainagg.CodeConflict) && !domainagg.IsCode(err, domainagg.CodeRetryable) {
			return attempt, err
		}
		if ctx.Err() != nil {
			return attempt, domainagg.Wrap(domainagg.CodeRetryable, op, ctx.Err())
		}
		lastErr = err
		if attempt == policy.MaxAttempts {
			break
		}
		deps.Hooks.IncRetry(op)
		deps.Log.Warn("aggregate write conflicted, retrying", "op", op, "attempt", attempt, "error", err)
		if err := httpx.Sleep(ctx, httpx.Backoff(attempt-1, policy.Base, policy.Max)); err != nil {
			return attempt, domainagg.Wrap(domainagg.CodeRetryable, op, err)
		}
	}
	return policy.MaxAttempts, domainagg.NewError(domainagg.CodeConcurrencyAnomaly, op, "update could not be applied, please retry", lastErr)
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	return string(classify(err))
}
