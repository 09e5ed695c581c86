package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/services"
)

// Stripe rejects webhook payloads above 64 KiB when verifying signatures.
const maxWebhookBytes = 65536

type PaymentHandler struct {
	log      *logger.Logger
	payments services.PaymentService
	apple    services.AppleService
}

func NewPaymentHandler(log *logger.Logger, payments services.PaymentService, apple services.AppleService) *PaymentHandler {
	return &PaymentHandler{
		log:      log.With("handler", "PaymentHandler"),
		payments: payments,
		apple:    apple,
	}
}

// POST /api/payments/stripe/checkout
// body: { "course_id": "...", "payment_method": "stripe", "origin_url": "https://..." }
func (ph *PaymentHandler) StripeCheckout(c *gin.Context) {
	var req services.CheckoutInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := ph.payments.CreateCheckout(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/payments/stripe/status/:session_id
func (ph *PaymentHandler) StripeStatus(c *gin.Context) {
	res, err := ph.payments.CheckoutStatus(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/webhook/stripe
// Always answers 200 so Stripe does not retry events this server cannot process.
func (ph *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err == nil {
		err = ph.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	}
	if err != nil {
		ph.log.Warn("stripe webhook not processed", "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// POST /api/payments/paypal/create
func (ph *PaymentHandler) PayPalCreate(c *gin.Context) {
	var req services.CheckoutInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := ph.payments.PayPalOrder(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/purchases/apple/verify
func (ph *PaymentHandler) AppleVerify(c *gin.Context) {
	var req services.AppleVerifyInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := ph.apple.Verify(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/purchases/apple/restore
func (ph *PaymentHandler) AppleRestore(c *gin.Context) {
	ids, err := ph.apple.Restore(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"restored_products": ids})
}

// GET /api/purchases/apple/status/:product_id
func (ph *PaymentHandler) AppleStatus(c *gin.Context) {
	res, err := ph.apple.Status(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}
