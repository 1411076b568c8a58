package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
)

// Intent statuses the checkout flow cares about.
const (
	IntentStatusSucceeded = "succeeded"
)

// Intent is the gateway-neutral view of a payment intent handed to services.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
	Metadata     map[string]string
}

// CreateIntentInput carries everything needed to open a payment intent.
type CreateIntentInput struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// PaymentIntentClient exposes the subset of Stripe operations required by checkout.
type PaymentIntentClient interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}

type paymentIntentWrapper struct{}

// NewPaymentIntentClient wraps the initialized Stripe client so checkout can be tested.
func NewPaymentIntentClient(api *Client) PaymentIntentClient {
	if api == nil {
		return nil
	}
	return &paymentIntentWrapper{}
}

func (w *paymentIntentWrapper) CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountCents),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return fromStripeIntent(pi), nil
}

func (w *paymentIntentWrapper) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent %s: %w", id, err)
	}
	return fromStripeIntent(pi), nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) *Intent {
	if pi == nil {
		return nil
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
