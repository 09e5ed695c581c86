package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/domain/training"
)

var UserStatsAggregateContract = Contract{
	Name:             "Training.UserStatsAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Tables:           []string{"session_record", "user_stats"},
	Notes: "Appends a session record and folds it into the cached stats row in one transaction. " +
		"The stats row is updated by version compare-and-swap and the whole write is retried on a miss.",
}

// UserStatsAggregate owns session-ledger appends and the cached stats fold.
//
// Errors carry CodeValidation, CodeConcurrencyAnomaly, CodeRetryable or CodeInternal.
type UserStatsAggregate interface {
	Aggregate

	CompleteSession(ctx context.Context, in CompleteSessionInput) (CompleteSessionResult, error)
}

type CompleteSessionInput struct {
	UserID          uuid.UUID
	WeekID          int
	SeanceID        int
	Steps           int
	DurationMinutes int
	PhasesCompleted int
	CompletedAt     time.Time
}

type CompleteSessionResult struct {
	Session  training.SessionRecord
	Stats    training.UserStats
	Attempts int
}
