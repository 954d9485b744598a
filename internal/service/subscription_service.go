package service

import (
	"context"
	"time"

	"spendly/internal/billing"
	"spendly/internal/model"
	"spendly/internal/realtime"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
)

// subscriptionService implements the SubscriptionService interface: the
// local table is the gate, Stripe is the source of truth the webhook syncs
// it from.
type subscriptionService struct {
	repo          repository.SubscriptionRepository
	client        *billing.Client
	webhookSecret string
	hub           *realtime.Hub
	logger        zerolog.Logger
	now           func() time.Time
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(repo repository.SubscriptionRepository, client *billing.Client, webhookSecret string, hub *realtime.Hub, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:          repo,
		client:        client,
		webhookSecret: webhookSecret,
		hub:           hub,
		logger:        logger.With().Str("service", "subscription").Logger(),
		now:           time.Now,
	}
}

// RequireActive rejects unless the user has an active or trialing
// subscription row.
func (s *subscriptionService) RequireActive(ctx context.Context, userID string) error {
	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !sub.Gating() {
		return model.ErrSubscriptionRequired
	}
	return nil
}

// Status merges the local record with live Stripe state. A Stripe outage
// degrades to the locally synced view rather than failing the read.
func (s *subscriptionService) Status(ctx context.Context, userID string) (*billing.SubscriptionState, error) {
	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &billing.SubscriptionState{Status: string(model.SubscriptionInactive)}, nil
	}

	state := &billing.SubscriptionState{
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}

	if sub.StripeSubscriptionID != "" {
		live, err := s.client.GetSubscription(ctx, sub.StripeSubscriptionID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("live subscription lookup failed, serving local state")
			return state, nil
		}
		state.CurrentPeriodEnd = live.CurrentPeriodEnd
		state.CancelAtPeriodEnd = live.CancelAtPeriodEnd
	}

	return state, nil
}

// StartCheckout creates a Stripe checkout session for the monthly plan.
func (s *subscriptionService) StartCheckout(ctx context.Context, userID, email string) (string, error) {
	return s.client.NewCheckoutSession(ctx, userID, email)
}

// Portal creates a billing portal session for the user's Stripe customer.
func (s *subscriptionService) Portal(ctx context.Context, userID string) (string, error) {
	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub == nil || sub.StripeCustomerID == "" {
		return "", model.ErrSubscriptionRequired
	}
	return s.client.NewPortalSession(ctx, sub.StripeCustomerID)
}

// HandleWebhook verifies and applies one Stripe webhook delivery. Unknown
// event types are acknowledged and ignored. Redeliveries converge: completed
// replaces the row wholesale, updated and deleted are naturally idempotent.
func (s *subscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := billing.VerifyEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return err
	}

	switch string(event.Type) {
	case billing.EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)
	case billing.EventSubscriptionUpdated:
		return s.applySubscriptionUpdated(ctx, event)
	case billing.EventSubscriptionDeleted:
		return s.applySubscriptionDeleted(ctx, event)
	default:
		s.logger.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event")
		return nil
	}
}

func (s *subscriptionService) applyCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	session, err := billing.CheckoutSessionFromEvent(event)
	if err != nil {
		return err
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = session.Metadata["user_id"]
	}
	if userID == "" {
		s.logger.Warn().Str("session_id", session.ID).Msg("checkout session carries no user id, skipping")
		return nil
	}

	now := s.now()
	sub := &model.Subscription{
		UserID:           userID,
		Status:           model.SubscriptionActive,
		CurrentPeriodEnd: now.AddDate(0, 0, 30),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if session.Subscription != nil {
		sub.StripeSubscriptionID = session.Subscription.ID
	}
	if session.Customer != nil {
		sub.StripeCustomerID = session.Customer.ID
	}

	if err := s.repo.Replace(ctx, sub); err != nil {
		return err
	}

	s.publishChange(userID, string(sub.Status))
	return nil
}

func (s *subscriptionService) applySubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	sub, err := billing.SubscriptionFromEvent(event)
	if err != nil {
		return err
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		s.logger.Warn().Str("subscription_id", sub.ID).Msg("subscription carries no user id, skipping")
		return nil
	}

	status := model.SubscriptionInactive
	switch sub.Status {
	case stripe.SubscriptionStatusActive:
		status = model.SubscriptionActive
	case stripe.SubscriptionStatusTrialing:
		status = model.SubscriptionTrialing
	}

	if err := s.repo.UpdateStatus(ctx, userID, status, time.Unix(sub.CurrentPeriodEnd, 0)); err != nil {
		return err
	}

	s.publishChange(userID, string(status))
	return nil
}

func (s *subscriptionService) applySubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	sub, err := billing.SubscriptionFromEvent(event)
	if err != nil {
		return err
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		s.logger.Warn().Str("subscription_id", sub.ID).Msg("subscription carries no user id, skipping")
		return nil
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.publishChange(userID, string(model.SubscriptionInactive))
	return nil
}

func (s *subscriptionService) publishChange(userID, status string) {
	s.hub.Publish(realtime.Message{
		Topic:   realtime.UserTopic(userID),
		Event:   "subscription_changed",
		Payload: map[string]string{"status": status},
	})
}
