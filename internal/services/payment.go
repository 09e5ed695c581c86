package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/platform/stripe"
)

const checkoutCurrency = "eur"

type CheckoutInput struct {
	CourseID      string `json:"course_id"`
	PaymentMethod string `json:"payment_method"`
	OriginURL     string `json:"origin_url"`
}

type CheckoutResult struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type CheckoutStatus struct {
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CourseID      uuid.UUID `json:"course_id"`
}

type PayPalOrder struct {
	Message  string          `json:"message"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	CourseID uuid.UUID       `json:"course_id"`
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	CheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	PayPalOrder(ctx context.Context, in CheckoutInput) (*PayPalOrder, error)
}

type PaymentServiceDeps struct {
	Courses      repos.CourseRepo
	Purchases    repos.PurchaseRepo
	Transactions repos.PaymentTransactionRepo
	Grants       domainagg.PurchaseAggregate
	Stripe       stripe.Client
	Metrics      *observability.Metrics
}

type paymentService struct {
	log  *logger.Logger
	deps PaymentServiceDeps
}

// NewPaymentService accepts a nil Stripe client; checkout then fails with 503.
func NewPaymentService(log *logger.Logger, deps PaymentServiceDeps) PaymentService {
	return &paymentService{
		log:  log.With("service", "PaymentService"),
		deps: deps,
	}
}

var errStripeUnavailable = apierr.New(http.StatusServiceUnavailable, "payments_unavailable", stripe.ErrNotConfigured)

func (ps *paymentService) purchasableCourse(ctx context.Context, userID uuid.UUID, rawID string) (*types.Course, error) {
	courseID, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, errCourseNotFound
	}
	dbc := dbctx.Context{Ctx: ctx}
	course, err := ps.deps.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, storageError(ps.log, "load_course", err)
	}
	if course == nil {
		return nil, errCourseNotFound
	}
	owned, err := ps.deps.Purchases.HasCompleted(dbc, userID, courseID)
	if err != nil {
		return nil, storageError(ps.log, "load_course", err)
	}
	if owned {
		return nil, apierr.BadRequest("already_purchased", "Course already purchased")
	}
	return course, nil
}

func originURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apierr.BadRequest("invalid_origin_url", "origin_url must be an absolute http(s) URL")
	}
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"), nil
}

func (ps *paymentService) CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	course, err := ps.purchasableCourse(ctx, userID, in.CourseID)
	if err != nil {
		return nil, err
	}
	origin, err := originURL(in.OriginURL)
	if err != nil {
		return nil, err
	}
	if ps.deps.Stripe == nil {
		return nil, errStripeUnavailable
	}

	metadata := map[string]string{
		"user_id":      userID.String(),
		"course_id":    course.ID.String(),
		"course_title": course.Title,
	}
	session, err := ps.deps.Stripe.CreateCheckoutSession(ctx, stripe.CheckoutRequest{
		AmountCents: course.PriceCents(),
		Currency:    checkoutCurrency,
		ProductName: course.Title,
		SuccessURL:  origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/courses/" + course.ID.String(),
		Metadata:    metadata,
	})
	if err != nil {
		ps.log.Error("create checkout session failed", "course_id", course.ID, "error", err)
		return nil, apierr.New(http.StatusBadGateway, "checkout_failed", err)
	}

	rawMeta, err := json.Marshal(metadata)
	if err != nil {
		return nil, storageError(ps.log, "create_checkout", err)
	}
	if _, err := ps.deps.Transactions.Create(dbctx.Context{Ctx: ctx}, &types.PaymentTransaction{
		SessionID:     session.ID,
		UserID:        userID,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		Amount:        course.Price,
		Currency:      checkoutCurrency,
		PaymentMethod: catalog.PaymentMethodStripe,
		Status:        catalog.TransactionStatusPending,
		PaymentStatus: catalog.PaymentStatusInitiated,
		Metadata:      datatypes.JSON(rawMeta),
	}); err != nil {
		return nil, storageError(ps.log, "create_checkout", err)
	}
	ps.log.Info("checkout created", "user_id", userID, "course_id", course.ID, "session_id", session.ID)
	return &CheckoutResult{CheckoutURL: session.URL, SessionID: session.ID}, nil
}

func (ps *paymentService) CheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	txn, err := ps.deps.Transactions.GetBySessionID(dbc, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, storageError(ps.log, "checkout_status", err)
	}
	if txn == nil || txn.UserID != userID {
		return nil, apierr.NotFound("transaction_not_found", "Transaction not found")
	}
	stored := &CheckoutStatus{Status: txn.Status, PaymentStatus: txn.PaymentStatus, CourseID: txn.CourseID}
	if txn.Paid() || ps.deps.Stripe == nil {
		return stored, nil
	}

	session, err := ps.deps.Stripe.GetCheckoutSession(ctx, txn.SessionID)
	if err != nil {
		ps.log.Warn("stripe status lookup failed, returning stored status", "session_id", txn.SessionID, "error", err)
		return stored, nil
	}
	if session.PaymentStatus == catalog.PaymentStatusPaid {
		if err := ps.grant(ctx, txn.SessionID); err != nil {
			return nil, err
		}
	} else if err := ps.deps.Transactions.UpdateStatus(dbc, txn.ID, session.Status, session.PaymentStatus); err != nil {
		return nil, storageError(ps.log, "checkout_status", err)
	}
	return &CheckoutStatus{Status: session.Status, PaymentStatus: session.PaymentStatus, CourseID: txn.CourseID}, nil
}

func (ps *paymentService) grant(ctx context.Context, sessionID string) error {
	res, err := ps.deps.Grants.CompleteCheckout(ctx, sessionID)
	if err != nil {
		return aggregateError(ps.log, "complete_checkout", err)
	}
	if res.Created {
		ps.deps.Metrics.IncPurchase(catalog.PaymentMethodStripe)
		ps.log.Info("purchase granted", "user_id", res.Purchase.UserID, "course_id", res.Purchase.CourseID, "session_id", sessionID)
	}
	return nil
}

func (ps *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if ps.deps.Stripe == nil {
		return errStripeUnavailable
	}
	event, err := ps.deps.Stripe.ParseWebhook(payload, signature)
	if err != nil {
		ps.log.Warn("stripe webhook rejected", "error", err)
		return apierr.BadRequest("invalid_webhook", err.Error())
	}
	if event.Type != stripe.EventCheckoutCompleted || event.Session == nil {
		ps.log.Debug("stripe webhook ignored", "event_id", event.ID, "type", event.Type)
		return nil
	}
	return ps.grant(ctx, event.Session.ID)
}

func (ps *paymentService) PayPalOrder(ctx context.Context, in CheckoutInput) (*PayPalOrder, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	courseID, err := uuid.Parse(strings.TrimSpace(in.CourseID))
	if err != nil {
		return nil, errCourseNotFound
	}
	course, err := ps.deps.Courses.GetByID(dbctx.Context{Ctx: ctx}, courseID)
	if err != nil {
		return nil, storageError(ps.log, "paypal_order", err)
	}
	if course == nil {
		return nil, errCourseNotFound
	}
	return &PayPalOrder{
		Message:  "PayPal integration - redirect to PayPal",
		Amount:   course.Price,
		Currency: strings.ToUpper(checkoutCurrency),
		CourseID: course.ID,
	}, nil
}
