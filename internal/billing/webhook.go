package billing

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Webhook event types the application reacts to. All other events are
// acknowledged and ignored.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// VerifyEvent checks the Stripe-Signature header against the raw payload and
// returns the decoded event. An invalid signature is an error; the caller
// must reject the delivery.
func VerifyEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}

// CheckoutSessionFromEvent decodes a checkout.session.* event's object.
func CheckoutSessionFromEvent(event stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

// SubscriptionFromEvent decodes a customer.subscription.* event's object.
func SubscriptionFromEvent(event stripe.Event) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}
	return &sub, nil
}
