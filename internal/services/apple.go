package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type AppleVerifyInput struct {
	TransactionID string `json:"transaction_id"`
	ProductID     string `json:"product_id"`
	// ReceiptData is accepted as sent; receipts are trusted, not validated with Apple.
	ReceiptData string `json:"receipt_data"`
}

type AppleVerifyResult struct {
	Success   bool      `json:"success"`
	ProductID string    `json:"product_id"`
	CourseID  uuid.UUID `json:"course_id"`
	Message   string    `json:"message"`
}

type AppleProductStatus struct {
	ProductID string `json:"product_id"`
	Purchased bool   `json:"purchased"`
	HasAccess bool   `json:"has_access"`
}

type AppleService interface {
	Verify(ctx context.Context, in AppleVerifyInput) (*AppleVerifyResult, error)
	// Restore lists the App Store product ids the user already owns.
	Restore(ctx context.Context) ([]string, error)
	Status(ctx context.Context, productID string) (*AppleProductStatus, error)
}

type appleService struct {
	log       *logger.Logger
	courses   repos.CourseRepo
	purchases repos.PurchaseRepo
	grants    domainagg.PurchaseAggregate
	metrics   *observability.Metrics
}

func NewAppleService(log *logger.Logger, courses repos.CourseRepo, purchases repos.PurchaseRepo, grants domainagg.PurchaseAggregate, metrics *observability.Metrics) AppleService {
	return &appleService{
		log:       log.With("service", "AppleService"),
		courses:   courses,
		purchases: purchases,
		grants:    grants,
		metrics:   metrics,
	}
}

var errAlreadyPurchased = apierr.BadRequest("already_purchased", "Product already purchased")

func (as *appleService) Verify(ctx context.Context, in AppleVerifyInput) (*AppleVerifyResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	productID := strings.TrimSpace(in.ProductID)
	txnID := strings.TrimSpace(in.TransactionID)
	if productID == "" || txnID == "" {
		return nil, apierr.BadRequest("invalid_request", "transaction_id and product_id are required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	courses, err := as.courses.GetByAppleProductIDs(dbc, []string{productID})
	if err != nil {
		return nil, storageError(as.log, "apple_verify", err)
	}
	if len(courses) == 0 {
		return nil, apierr.BadRequest("unknown_product", "Unknown product: "+productID)
	}
	owned, err := as.purchases.HasCompleted(dbc, userID, courses[0].ID)
	if err != nil {
		return nil, storageError(as.log, "apple_verify", err)
	}
	if owned {
		return nil, errAlreadyPurchased
	}

	res, err := as.grants.GrantAppleProduct(ctx, domainagg.GrantAppleInput{
		UserID:        userID,
		TransactionID: txnID,
		ProductID:     productID,
	})
	if err != nil {
		return nil, aggregateError(as.log, "apple_verify", err)
	}
	if !res.Created {
		return nil, errAlreadyPurchased
	}
	as.metrics.IncPurchase(catalog.PaymentMethodApple)
	as.log.Info("apple purchase granted", "user_id", userID, "product_id", productID, "course_id", res.Purchase.CourseID)
	return &AppleVerifyResult{
		Success:   true,
		ProductID: productID,
		CourseID:  res.Purchase.CourseID,
		Message:   "Purchase verified",
	}, nil
}

func (as *appleService) Restore(ctx context.Context) ([]string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := as.purchases.ListCompletedByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, storageError(as.log, "apple_restore", err)
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range rows {
		if p.PaymentMethod != catalog.PaymentMethodApple || p.ProductID == nil || seen[*p.ProductID] {
			continue
		}
		seen[*p.ProductID] = true
		out = append(out, *p.ProductID)
	}
	return out, nil
}

func (as *appleService) Status(ctx context.Context, productID string) (*AppleProductStatus, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	out := &AppleProductStatus{ProductID: productID}
	dbc := dbctx.Context{Ctx: ctx}
	courses, err := as.courses.GetByAppleProductIDs(dbc, []string{productID})
	if err != nil {
		return nil, storageError(as.log, "apple_status", err)
	}
	if len(courses) == 0 {
		return out, nil
	}
	owned, err := as.purchases.HasCompleted(dbc, userID, courses[0].ID)
	if err != nil {
		return nil, storageError(as.log, "apple_status", err)
	}
	out.Purchased = owned
	out.HasAccess = owned
	return out, nil
}
