package stripe

import (
	"errors"
	"testing"

	stripego "github.com/stripe/stripe-go/v82"

	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(logger.Nop(), Config{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFromStripeCopiesStatusFields(t *testing.T) {
	got := fromStripe(&stripego.CheckoutSession{
		ID:            "cs_test_1",
		URL:           "https://checkout.stripe.com/c/pay/cs_test_1",
		Status:        stripego.CheckoutSessionStatusComplete,
		PaymentStatus: stripego.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   2999,
		Currency:      stripego.CurrencyEUR,
		Metadata:      map[string]string{"course_id": "c1"},
	})
	if got.PaymentStatus != "paid" || got.Status != "complete" || got.Currency != "eur" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Metadata["course_id"] != "c1" || got.AmountTotal != 2999 {
		t.Fatalf("unexpected metadata/amount: %+v", got)
	}
	if fromStripe(nil) != nil {
		t.Fatalf("nil input must map to nil")
	}
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	c, err := New(logger.Nop(), Config{APIKey: "sk_test_x", WebhookSecret: "whsec_x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.ParseWebhook([]byte(`{}`), "t=1,v1=deadbeef"); err == nil {
		t.Fatalf("expected signature error")
	}
}
