package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

// CheckoutRequest describes a one-off Stripe Checkout payment.
type CheckoutRequest struct {
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
	Language      string
}

// CheckoutSession is the part of a Stripe Checkout session the
// reservation flow keeps.
type CheckoutSession struct {
	ID  string
	URL string
}

type StripeService struct {
	successURL string
	cancelURL  string
}

var _ PaymentGateway = (*StripeService)(nil)

// NewStripeService sets the Stripe API key and sends customers back to
// publicBaseURL after checkout.
func NewStripeService(secretKey, publicBaseURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		successURL: publicBaseURL + "/?session_id={CHECKOUT_SESSION_ID}#reservation",
		cancelURL:  publicBaseURL + "/?checkout=canceled#reservation",
	}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(s.successURL),
		CancelURL:     stripe.String(s.cancelURL),
		CustomerEmail: stripe.String(req.CustomerEmail),
		Locale:        stripe.String(checkoutLocale(req.Language)),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeService) RefundPaymentBySessionID(ctx context.Context, sessionID string) error {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	sess, err := session.Get(sessionID, getParams)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no PaymentIntent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	params.Context = ctx
	_, err = refund.New(params)
	return err
}

// SessionIDByPaymentIntent finds the Checkout session that created a
// PaymentIntent.
func (s *StripeService) SessionIDByPaymentIntent(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx
	it := session.List(params)
	for it.Next() {
		if sess := it.CheckoutSession(); sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	if err := it.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no session_id found for PaymentIntent %s: %w", paymentIntentID, ErrNotFound)
}

func checkoutLocale(lang string) string {
	switch lang {
	case "en", "es", "it", "fr":
		return lang
	}
	return "auto"
}
