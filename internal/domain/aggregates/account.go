package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var AccountAggregateContract = Contract{
	Name:             "User.AccountAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Tables:           []string{"user", "password_reset", "nutrition_goal", "nutrition_profile", "meal_entry", "session_record", "user_stats", "purchase", "payment_transaction"},
	Notes:            "Deletes a user together with every row the user owns.",
}

type AccountAggregate interface {
	Aggregate

	DeleteAccount(ctx context.Context, userID uuid.UUID) (DeleteAccountResult, error)
}

type DeleteAccountResult struct {
	RowsDeleted map[string]int64
}
