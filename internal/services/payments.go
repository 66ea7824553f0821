package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Gateway event types the booking lifecycle reacts to. Everything else is
// acknowledged and ignored.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)

// PaymentIntent is the gateway-side object a booking is settled against.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent is a verified gateway event reduced to what the booking
// lifecycle needs.
type WebhookEvent struct {
	ID              string
	Type            string
	PaymentIntentID string
}

// PaymentGateway abstracts the payment processor so the booking service
// and its tests do not talk to Stripe directly.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error)
	CancelIntent(ctx context.Context, intentID string) error
	RefundIntent(ctx context.Context, intentID string) error
	VerifyEvent(payload []byte, signature string) (*WebhookEvent, error)
}

// StripeGateway is the production PaymentGateway backed by the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

// CreateIntent creates a payment intent for the given amount. Stripe takes
// amounts in the currency's minor unit, hence the ×100.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %v", err)
	}

	return &PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := g.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return fmt.Errorf("failed to cancel payment intent %s: %v", intentID, err)
	}
	return nil
}

func (g *StripeGateway) RefundIntent(ctx context.Context, intentID string) error {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	params.Context = ctx
	if _, err := g.api.Refunds.New(params); err != nil {
		return fmt.Errorf("failed to refund payment intent %s: %v", intentID, err)
	}
	return nil
}

// VerifyEvent checks the webhook signature and reduces the event to the
// fields the booking lifecycle acts on. Unverified payloads never reach
// the lifecycle.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %v", err)
	}

	verified := &WebhookEvent{ID: event.ID, Type: string(event.Type)}

	switch verified.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent event: %v", err)
		}
		verified.PaymentIntentID = intent.ID
	case EventChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("failed to decode charge event: %v", err)
		}
		if charge.PaymentIntent != nil {
			verified.PaymentIntentID = charge.PaymentIntent.ID
		}
	}

	return verified, nil
}
