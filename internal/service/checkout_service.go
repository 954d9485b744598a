package service

import (
	"context"
	"sync"
	"time"

	"spendly/internal/cart"
	"spendly/internal/checkout"
	"spendly/internal/model"
	"spendly/internal/notify"
	"spendly/internal/realtime"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

const notifyTimeout = 30 * time.Second

// checkoutService implements the CheckoutService interface. One state
// machine per user, created on first touch and replaced on Restart.
type checkoutService struct {
	mu       sync.Mutex
	machines map[string]*checkout.Machine

	carts  *cart.Manager
	orders repository.OrderRepository
	stats  repository.StatsRepository
	mailer notify.Mailer
	coach  notify.Coach
	hub    *realtime.Hub
	logger zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts *cart.Manager,
	orders repository.OrderRepository,
	stats repository.StatsRepository,
	mailer notify.Mailer,
	coach notify.Coach,
	hub *realtime.Hub,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		machines: make(map[string]*checkout.Machine),
		carts:    carts,
		orders:   orders,
		stats:    stats,
		mailer:   mailer,
		coach:    coach,
		hub:      hub,
		logger:   logger.With().Str("service", "checkout").Logger(),
	}
}

func (s *checkoutService) machine(userID string) *checkout.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[userID]
	if !ok {
		m = checkout.NewMachine(userID)
		s.machines[userID] = m
	}
	return m
}

func stateOf(m *checkout.Machine) *CheckoutState {
	return &CheckoutState{
		Step:        m.Step().String(),
		Trigger:     m.Trigger(),
		OrderNumber: m.OrderNumber(),
	}
}

// parseStep maps a wire step name to its machine state.
func parseStep(name string) (checkout.Step, bool) {
	switch name {
	case "emotional":
		return checkout.StepEmotionalCheckIn, true
	case "shipping":
		return checkout.StepShipping, true
	case "payment":
		return checkout.StepPayment, true
	case "confirmation":
		return checkout.StepConfirmation, true
	}
	return 0, false
}

// State returns the user's current checkout position.
func (s *checkoutService) State(ctx context.Context, userID string) *CheckoutState {
	return stateOf(s.machine(userID))
}

// SelectTrigger records the emotional check-in answer.
func (s *checkoutService) SelectTrigger(ctx context.Context, userID string, trigger model.EmotionalTrigger) (*CheckoutState, error) {
	m := s.machine(userID)
	if err := m.SelectTrigger(trigger); err != nil {
		return nil, err
	}
	return stateOf(m), nil
}

// SetShipping records the shipping form.
func (s *checkoutService) SetShipping(ctx context.Context, userID string, shipping model.ShippingDetails) (*CheckoutState, error) {
	m := s.machine(userID)
	if err := m.SetShipping(shipping); err != nil {
		return nil, err
	}
	return stateOf(m), nil
}

// SetPayment records the payment form.
func (s *checkoutService) SetPayment(ctx context.Context, userID string, payment model.PaymentDetails) (*CheckoutState, error) {
	m := s.machine(userID)
	if err := m.SetPayment(payment); err != nil {
		return nil, err
	}
	return stateOf(m), nil
}

// Next advances one step forward.
func (s *checkoutService) Next(ctx context.Context, userID string) (*CheckoutState, error) {
	m := s.machine(userID)
	if err := m.Next(); err != nil {
		return nil, err
	}
	return stateOf(m), nil
}

// Back navigates to an earlier step.
func (s *checkoutService) Back(ctx context.Context, userID, step string) (*CheckoutState, error) {
	to, ok := parseStep(step)
	if !ok {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Unknown checkout step: "+step)
	}

	m := s.machine(userID)
	if err := m.Back(to); err != nil {
		return nil, err
	}
	return stateOf(m), nil
}

// Restart abandons the current attempt and starts a fresh machine.
func (s *checkoutService) Restart(ctx context.Context, userID string) *CheckoutState {
	s.mu.Lock()
	m := checkout.NewMachine(userID)
	s.machines[userID] = m
	s.mu.Unlock()

	return stateOf(m)
}

// Complete submits the order. The submit closure snapshots the cart into
// immutable line items at current effective prices, runs the atomic
// acceptance, then fires the confirmation email without blocking, clears the
// cart and announces the stats change.
func (s *checkoutService) Complete(ctx context.Context, userID, email string) (*model.Order, error) {
	m := s.machine(userID)
	engine := s.carts.Get(userID)

	submit := func(ctx context.Context, trigger model.EmotionalTrigger, shipping model.ShippingDetails) (*model.Order, error) {
		items := engine.Items()
		if len(items) == 0 {
			return nil, model.ErrEmptyCart
		}

		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(items))
		for _, item := range items {
			orderItems = append(orderItems, model.OrderItem{
				ProductID: item.ID,
				Name:      item.Name,
				Price:     item.EffectiveUnitPrice(now),
				Quantity:  item.Quantity,
				Image:     item.Image,
				Category:  item.Category,
			})
		}

		req := &model.OrderRequest{
			UserID:           userID,
			Items:            orderItems,
			TotalAmount:      engine.TotalPrice(),
			TotalSavings:     engine.TotalSavings(),
			ShippingAddress:  shipping,
			EmotionalTrigger: trigger,
		}

		return s.orders.CreateOrder(ctx, req)
	}

	order, err := m.Complete(ctx, submit)
	if err != nil {
		return nil, err
	}

	if err := s.stats.EnsureUser(ctx, userID, email); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to record user identity")
	}

	// Confirmation must not wait on the mail provider.
	go s.notifyPurchase(email, order)

	engine.Clear()

	s.hub.Publish(realtime.Message{
		Topic:   realtime.UserTopic(userID),
		Event:   "order_completed",
		Payload: order,
	})
	s.hub.Publish(realtime.Message{
		Topic: realtime.TopicLeaderboard,
		Event: "standings_changed",
	})

	s.logger.Info().
		Str("user_id", userID).
		Str("order_number", order.OrderNumber).
		Msg("checkout completed")
	return order, nil
}

// notifyPurchase generates the coaching note and sends the confirmation
// email. Failures are logged and dropped; the order already stands.
func (s *checkoutService) notifyPurchase(email string, order *model.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	encouragement := s.coach.Encouragement(ctx, order.EmotionalTrigger)
	if err := s.mailer.SendOrderConfirmation(ctx, email, order, encouragement); err != nil {
		s.logger.Warn().Err(err).
			Str("order_number", order.OrderNumber).
			Msg("purchase notification failed")
	}
}
