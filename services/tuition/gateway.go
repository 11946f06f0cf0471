package tuition

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// CheckoutParams describes one hosted checkout to be created with the
// payment processor. Amount is in the processor's minor units.
type CheckoutParams struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	SuccessURL       string
	CancelURL        string
	Metadata         map[string]string
}

// CheckoutGateway creates hosted checkout sessions with the external
// payment processor.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
}

// StripeCheckoutGateway implements CheckoutGateway against Stripe
// hosted Checkout. The API key is set globally in main.
type StripeCheckoutGateway struct{}

// CreateCheckoutSession creates a single-item payment session and
// returns its hosted URL.
func (g *StripeCheckoutGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountMinorUnits),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}
