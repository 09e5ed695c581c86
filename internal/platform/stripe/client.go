// Package stripe wraps Stripe Checkout behind a narrow interface so services can be tested with fakes.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/yungbote/amelfit-backend/internal/platform/envutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

var ErrNotConfigured = errors.New("stripe not configured")

const EventCheckoutCompleted = "checkout.session.completed"

type Client interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

type Config struct {
	APIKey        string
	WebhookSecret string
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:        envutil.String("STRIPE_API_KEY", ""),
		WebhookSecret: envutil.String("STRIPE_WEBHOOK_SECRET", ""),
	}
}

type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID            string
	URL           string
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

type client struct {
	log      *logger.Logger
	cfg      Config
	sessions *session.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	return &client{
		log: log.With("client", "StripeClient"),
		cfg: cfg,
		sessions: &session.Client{
			B:   stripego.GetBackend(stripego.APIBackend),
			Key: cfg.APIKey,
		},
	}, nil
}

func (c *client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("stripe: amount must be positive")
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "eur"
	}
	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		SuccessURL:         stripego.String(req.SuccessURL),
		CancelURL:          stripego.String(req.CancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Quantity: stripego.Int64(1),
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(currency),
					UnitAmount: stripego.Int64(req.AmountCents),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(req.ProductName),
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	s, err := c.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}
	c.log.Info("stripe checkout session created", "session_id", s.ID, "amount_cents", req.AmountCents)
	return fromStripe(s), nil
}

func (c *client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx
	s, err := c.sessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get checkout session: %w", err)
	}
	return fromStripe(s), nil
}

func (c *client) ParseWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	if strings.TrimSpace(c.cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("stripe: webhook secret not configured")
	}
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe webhook signature: %w", err)
	}
	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type == EventCheckoutCompleted && event.Data != nil {
		var s stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("stripe webhook payload: %w", err)
		}
		out.Session = fromStripe(&s)
	}
	return out, nil
}

func fromStripe(s *stripego.CheckoutSession) *CheckoutSession {
	if s == nil {
		return nil
	}
	return &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}
}
