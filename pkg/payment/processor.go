// Package payment talks to the card payment processor.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/breaker"
)

// ErrNotConfigured is returned when no processor secret key was provided.
var ErrNotConfigured = errors.New("payment processor not configured")

// Intent is the processor-side view of a payment.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Succeeded    bool
}

// Processor creates and inspects payment intents.
type Processor interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// StripeProcessor implements Processor with Stripe PaymentIntents.
type StripeProcessor struct {
	api *client.API
	cb  *gobreaker.CircuitBreaker
}

var _ Processor = (*StripeProcessor)(nil)

// NewStripeProcessor builds a Stripe-backed processor.
func NewStripeProcessor(secretKey string, logger *zap.Logger) (*StripeProcessor, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	return newStripeProcessor(secretKey, nil, logger), nil
}

func newStripeProcessor(secretKey string, backends *stripe.Backends, logger *zap.Logger) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeProcessor{api: api, cb: breaker.New(breaker.PaymentProcessor, logger, IsClientError)}
}

// CreateIntent creates a card payment intent for amount in the currency's minor unit.
func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.api.PaymentIntents.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return toIntent(res.(*stripe.PaymentIntent)), nil
}

// GetIntent fetches an existing payment intent.
func (p *StripeProcessor) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.api.PaymentIntents.Get(id, params)
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return toIntent(res.(*stripe.PaymentIntent)), nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}
}

// IsClientError reports whether the processor rejected the request itself
// (bad amount, unknown intent) rather than being unavailable.
func IsClientError(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500
	}
	return false
}
