package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
)

var PurchaseAggregateContract = Contract{
	Name:             "Catalog.PurchaseAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Tables:           []string{"payment_transaction", "purchase"},
	Notes: "Marks a checkout transaction paid and grants the purchase exactly once per provider " +
		"reference, whichever of the webhook or the status poll arrives first.",
}

type PurchaseAggregate interface {
	Aggregate

	// CompleteCheckout marks the Stripe transaction paid and grants the course.
	CompleteCheckout(ctx context.Context, sessionID string) (GrantResult, error)

	// GrantAppleProduct records an App Store transaction for the course mapped to the product.
	GrantAppleProduct(ctx context.Context, in GrantAppleInput) (GrantResult, error)
}

type GrantAppleInput struct {
	UserID        uuid.UUID
	TransactionID string
	ProductID     string
}

type GrantResult struct {
	Purchase catalog.Purchase
	Created  bool
}
