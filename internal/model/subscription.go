package model

import "time"

// SubscriptionStatus mirrors the payment processor's subscription states we
// care about.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// Subscription is the locally synced subscription record for a user, kept
// up to date by the billing webhook.
type Subscription struct {
	UserID               string             `json:"user_id" db:"user_id"`
	Status               SubscriptionStatus `json:"status" db:"status"`
	StripeSubscriptionID string             `json:"stripe_subscription_id,omitempty" db:"stripe_subscription_id"`
	StripeCustomerID     string             `json:"stripe_customer_id,omitempty" db:"stripe_customer_id"`
	CurrentPeriodEnd     time.Time          `json:"current_period_end" db:"current_period_end"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" db:"updated_at"`
}

// Gating reports whether the subscription grants access to the cart and
// checkout surfaces.
func (s *Subscription) Gating() bool {
	if s == nil {
		return false
	}
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
