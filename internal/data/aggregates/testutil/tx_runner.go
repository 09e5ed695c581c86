package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/amelfit-backend/internal/data/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs aggregate bodies without a database and injects begin, body and
// commit failures. FailCommitTimes fails only the first N commits, which is how a
// serialization failure followed by a clean retry looks to the aggregate.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin       error
	FailCommit      error
	FailCommitTimes int

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.mu.Lock()
			r.RollbackCalls++
			r.mu.Unlock()
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCommit != nil && (r.FailCommitTimes <= 0 || r.RollbackCalls < r.FailCommitTimes) {
		r.RollbackCalls++
		return r.FailCommit
	}
	r.CommitCalls++
	return nil
}
