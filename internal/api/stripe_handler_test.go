package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test"

func signedRequest(payload string) *http.Request {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

func eventPayload(eventType, object string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, object)
}

func TestWebhook_CheckoutCompleted(t *testing.T) {
	b := newFakeBackend()
	h := NewStripeWebhookHandler(testWebhookSecret, b, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, signedRequest(eventPayload("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session","payment_intent":"pi_1"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cs_1/pi_1"}, b.confirmed)
}

func TestWebhook_ChargeRefunded(t *testing.T) {
	b := newFakeBackend()
	h := NewStripeWebhookHandler(testWebhookSecret, b, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, signedRequest(eventPayload("charge.refunded",
		`{"id":"ch_1","object":"charge","payment_intent":"pi_9"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"pi_9"}, b.refunded)
}

func TestWebhook_ConfirmFailure(t *testing.T) {
	b := newFakeBackend()
	b.paymentErr = errBoom
	h := NewStripeWebhookHandler(testWebhookSecret, b, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, signedRequest(eventPayload("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhook_BadSignature(t *testing.T) {
	b := newFakeBackend()
	h := NewStripeWebhookHandler(testWebhookSecret, b, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook",
		bytes.NewReader([]byte(eventPayload("checkout.session.completed", `{"id":"cs_1"}`))))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, b.confirmed)
}
