package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

type PurchaseAggregateDeps struct {
	Base BaseDeps

	Courses      repos.CourseRepo
	Purchases    repos.PurchaseRepo
	Transactions repos.PaymentTransactionRepo
}

type purchaseAggregate struct {
	deps PurchaseAggregateDeps
}

func NewPurchaseAggregate(deps PurchaseAggregateDeps) domainagg.PurchaseAggregate {
	deps.Base = deps.Base.withDefaults()
	return &purchaseAggregate{deps: deps}
}

func (a *purchaseAggregate) Contract() domainagg.Contract {
	return domainagg.PurchaseAggregateContract
}

func (a *purchaseAggregate) CompleteCheckout(ctx context.Context, sessionID string) (domainagg.GrantResult, error) {
	const op = "Catalog.Purchase.CompleteCheckout"
	var out domainagg.GrantResult

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing session_id", nil)
	}
	if a.deps.Purchases == nil || a.deps.Transactions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "purchase aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		txn, err := a.deps.Transactions.LockBySessionID(dbc, sessionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "Transaction not found", nil)
		}
		if !txn.Paid() {
			if err := a.deps.Transactions.UpdateStatus(dbc, txn.ID, catalog.TransactionStatusComplete, catalog.PaymentStatusPaid); err != nil {
				return err
			}
		}
		p, created, err := a.deps.Purchases.CreateIfAbsent(dbc, &types.Purchase{
			UserID:        txn.UserID,
			CourseID:      txn.CourseID,
			CourseTitle:   txn.CourseTitle,
			Amount:        txn.Amount,
			PaymentMethod: catalog.PaymentMethodStripe,
			ProviderRef:   txn.SessionID,
			Status:        catalog.PurchaseStatusCompleted,
		})
		if err != nil {
			return err
		}
		out = domainagg.GrantResult{Purchase: *p, Created: created}
		return nil
	})
	return out, err
}

func (a *purchaseAggregate) GrantAppleProduct(ctx context.Context, in domainagg.GrantAppleInput) (domainagg.GrantResult, error) {
	const op = "Catalog.Purchase.GrantAppleProduct"
	var out domainagg.GrantResult

	productID := strings.TrimSpace(in.ProductID)
	txnID := strings.TrimSpace(in.TransactionID)
	if in.UserID == uuid.Nil || productID == "" || txnID == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "user_id, product_id and transaction_id are required", nil)
	}
	if a.deps.Courses == nil || a.deps.Purchases == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "purchase aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		courses, err := a.deps.Courses.GetByAppleProductIDs(dbc, []string{productID})
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown product: %s", productID), nil)
		}
		course := courses[0]
		pid := productID
		p, created, err := a.deps.Purchases.CreateIfAbsent(dbc, &types.Purchase{
			UserID:        in.UserID,
			CourseID:      course.ID,
			CourseTitle:   course.Title,
			Amount:        course.Price,
			PaymentMethod: catalog.PaymentMethodApple,
			ProviderRef:   txnID,
			ProductID:     &pid,
			Status:        catalog.PurchaseStatusCompleted,
		})
		if err != nil {
			return err
		}
		if !created && p.UserID != in.UserID {
			return ConflictError("transaction belongs to another account")
		}
		out = domainagg.GrantResult{Purchase: *p, Created: created}
		return nil
	})
	return out, err
}
