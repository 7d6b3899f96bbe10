package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentProvider creates payment intents with the card processor.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, email string, metadata map[string]string) (*PaymentIntent, error)
}

type StripeService struct{}

// NewStripeService sets the process-wide Stripe key.
func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{}
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount int64, currency, email string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if email != "" {
		params.ReceiptEmail = stripe.String(email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("error creating PaymentIntent: %w", err)
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
