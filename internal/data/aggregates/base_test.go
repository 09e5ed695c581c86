package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

func TestExecuteWriteRecordsOutcome(t *testing.T) {
	cases := []struct {
		name       string
		fnErr      error
		wantStatus string
		conflicts  int
	}{
		{"success", nil, "success", 0},
		{"invariant", InvariantError("stats row missing after ensure"), string(domainagg.CodeInvariantViolation), 0},
		{"cas miss", ConflictError("user stats changed concurrently"), string(domainagg.CodeConflict), 1},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, string(domainagg.CodeRetryable), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks},
				"Training.UserStats.CompleteSession", func(dbctx.Context) error { return tc.fnErr })
			if (err == nil) != (tc.fnErr == nil) {
				t.Fatalf("error: want=%v got=%v", tc.fnErr, err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != tc.wantStatus {
				t.Fatalf("operations: %+v", hooks.Operations)
			}
			if len(hooks.Conflicts) != tc.conflicts {
				t.Fatalf("conflicts: want=%d got=%d", tc.conflicts, len(hooks.Conflicts))
			}
			if len(hooks.Retries) != 0 {
				t.Fatalf("a single write must not count retries: %+v", hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteRetryingReplaysUntilCommit(t *testing.T) {
	hooks := &spyHooks{}
	calls := 0
	attempts, err := executeWriteRetrying(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks},
		"Training.UserStats.CompleteSession", retryPolicy{MaxAttempts: 4, Base: time.Microsecond, Max: time.Microsecond},
		func(dbctx.Context) error {
			calls++
			if calls < 3 {
				return ConflictError("stale version")
			}
			return nil
		})
	if err != nil {
		t.Fatalf("executeWriteRetrying: %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Fatalf("attempts=%d calls=%d", attempts, calls)
	}
	if len(hooks.Retries) != 2 || len(hooks.Conflicts) != 2 {
		t.Fatalf("hooks: retries=%v conflicts=%v", hooks.Retries, hooks.Conflicts)
	}
}

func TestExecuteWriteRetryingGivesUpAsAnomaly(t *testing.T) {
	calls := 0
	attempts, err := executeWriteRetrying(context.Background(), BaseDeps{Runner: spyTxRunner{}},
		"op", retryPolicy{MaxAttempts: 3, Base: time.Microsecond, Max: time.Microsecond},
		func(dbctx.Context) error {
			calls++
			return &pgconn.PgError{Code: "40001"}
		})
	if !domainagg.IsCode(err, domainagg.CodeConcurrencyAnomaly) {
		t.Fatalf("expected concurrency anomaly, got %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Fatalf("attempts=%d calls=%d", attempts, calls)
	}
}

func TestExecuteWriteRetryingStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := executeWriteRetrying(context.Background(), BaseDeps{Runner: spyTxRunner{}},
		"op", retryPolicy{MaxAttempts: 5},
		func(dbctx.Context) error {
			calls++
			return ValidationError("steps must be >= 0")
		})
	if !domainagg.IsCode(err, domainagg.CodeValidation) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestExecuteWriteRetryingHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := executeWriteRetrying(ctx, BaseDeps{Runner: spyTxRunner{}},
		"op", retryPolicy{MaxAttempts: 5, Base: time.Second, Max: time.Second},
		func(dbctx.Context) error {
			calls++
			cancel()
			return ConflictError("stale")
		})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) || !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}
