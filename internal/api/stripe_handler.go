package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"greenpark/internal/service"
)

const maxWebhookBytes = int64(65536)

// PaymentEvents applies Stripe payment outcomes to reservations.
type PaymentEvents interface {
	ConfirmPayment(ctx context.Context, sessionID, paymentIntentID string) error
	MarkRefunded(ctx context.Context, paymentIntentID string) error
}

type StripeWebhookHandler struct {
	secret   string
	payments PaymentEvents
	logger   *zap.Logger
}

func NewStripeWebhookHandler(webhookSecret string, payments PaymentEvents, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{secret: webhookSecret, payments: payments, logger: logger}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Error reading webhook body", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		h.logger.Warn("Webhook signature verification failed", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			h.logger.Warn("Invalid checkout.session payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		paymentIntentID := ""
		if sess.PaymentIntent != nil {
			paymentIntentID = sess.PaymentIntent.ID
		}
		if err := h.payments.ConfirmPayment(r.Context(), sess.ID, paymentIntentID); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				h.logger.Warn("Checkout session without reservation", zap.String("session_id", sess.ID))
				break
			}
			h.logger.Error("Error confirming payment", zap.String("session_id", sess.ID), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			h.logger.Warn("Invalid charge payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
			break
		}
		if err := h.payments.MarkRefunded(r.Context(), charge.PaymentIntent.ID); err != nil {
			h.logger.Warn("Error marking reservation refunded",
				zap.String("payment_intent", charge.PaymentIntent.ID), zap.Error(err))
		}

	default:
		h.logger.Debug("Unhandled event type", zap.String("type", string(event.Type)))
	}

	w.WriteHeader(http.StatusOK)
}
