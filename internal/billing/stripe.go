package billing

import (
	"context"
	"fmt"
	"time"

	"spendly/internal/config"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const trialDays = 7

// SubscriptionState is the live view of a Stripe subscription merged from
// the remote API.
type SubscriptionState struct {
	Status            string    `json:"status"`
	CurrentPeriodEnd  time.Time `json:"current_period_end"`
	CancelAtPeriodEnd bool      `json:"cancel_at_period_end"`
}

// Client wraps the Stripe API for the subscription billing flow.
type Client struct {
	api    *client.API
	cfg    config.StripeConfig
	logger zerolog.Logger
}

// NewClient creates a Stripe client from configuration.
func NewClient(cfg config.StripeConfig, logger zerolog.Logger) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{
		api:    api,
		cfg:    cfg,
		logger: logger.With().Str("component", "stripe").Logger(),
	}
}

// NewCheckoutSession creates a subscription checkout session with a
// seven-day trial that cancels when no payment method was collected.
// Returns the hosted checkout URL for the client to redirect to.
func (c *Client) NewCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:                  stripe.Params{Context: ctx},
		ClientReferenceID:       stripe.String(userID),
		CustomerEmail:           stripe.String(email),
		Mode:                    stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodCollection: stripe.String(string(stripe.CheckoutSessionPaymentMethodCollectionAlways)),
		SuccessURL:              stripe.String(c.cfg.SuccessURL),
		CancelURL:               stripe.String(c.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.cfg.MonthlyPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(trialDays),
			TrialSettings: &stripe.CheckoutSessionSubscriptionDataTrialSettingsParams{
				EndBehavior: &stripe.CheckoutSessionSubscriptionDataTrialSettingsEndBehaviorParams{
					MissingPaymentMethod: stripe.String(string(stripe.SubscriptionTrialSettingsEndBehaviorMissingPaymentMethodCancel)),
				},
			},
			Metadata: map[string]string{"user_id": userID},
		},
	}
	params.AddMetadata("user_id", userID)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create checkout session")
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	c.logger.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Msg("checkout session created")
	return session.URL, nil
}

// NewPortalSession creates a billing portal session so a customer can manage
// their subscription. Returns the portal URL.
func (c *Client) NewPortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(c.cfg.PortalReturn),
	}

	session, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		c.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to create portal session")
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}

	return session.URL, nil
}

// GetSubscription retrieves the live subscription state from Stripe.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionState, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}

	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		c.logger.Error().Err(err).Str("subscription_id", subscriptionID).Msg("failed to retrieve subscription")
		return nil, fmt.Errorf("failed to retrieve subscription: %w", err)
	}

	return &SubscriptionState{
		Status:            string(sub.Status),
		CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}, nil
}
