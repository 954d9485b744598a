// Package checkout implements the order-placement state machine. The four
// steps are strictly linear going forward; backward navigation to any earlier
// step is free of side effects; Confirmation is terminal for the attempt.
package checkout

import (
	"context"
	"sync"

	"spendly/internal/model"
)

// Step identifies a checkout state.
type Step int

const (
	StepEmotionalCheckIn Step = iota
	StepShipping
	StepPayment
	StepConfirmation
)

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepEmotionalCheckIn:
		return "emotional"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// SubmitFunc performs the order submission side effects for the
// Payment -> Confirmation transition: budget verification, atomic order
// insert, best-effort notification, cart clear. It runs at most once per
// machine.
type SubmitFunc func(ctx context.Context, trigger model.EmotionalTrigger, shipping model.ShippingDetails) (*model.Order, error)

// Machine sequences one checkout attempt for one user. A new attempt always
// starts a fresh machine at EmotionalCheckIn.
type Machine struct {
	mu          sync.Mutex
	userID      string
	step        Step
	trigger     model.EmotionalTrigger
	shipping    model.ShippingDetails
	payment     model.PaymentDetails
	inFlight    bool
	submitted   bool
	orderNumber string
}

// NewMachine starts a fresh checkout attempt.
func NewMachine(userID string) *Machine {
	return &Machine{
		userID: userID,
		step:   StepEmotionalCheckIn,
	}
}

// Step returns the current state.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Trigger returns the selected emotional trigger, or "" if none yet.
func (m *Machine) Trigger() model.EmotionalTrigger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trigger
}

// OrderNumber returns the generated order number once the attempt has
// reached Confirmation.
func (m *Machine) OrderNumber() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderNumber
}

// SelectTrigger records the emotional check-in answer. Only catalog triggers
// are accepted.
func (m *Machine) SelectTrigger(t model.EmotionalTrigger) error {
	if !model.ValidTrigger(t) {
		return model.ErrInvalidTrigger
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step == StepConfirmation {
		return model.ErrCheckoutSubmitted
	}
	m.trigger = t
	return nil
}

// SetShipping records the shipping form data.
func (m *Machine) SetShipping(s model.ShippingDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step == StepConfirmation {
		return model.ErrCheckoutSubmitted
	}
	m.shipping = s
	return nil
}

// SetPayment records the payment form data. The values are opaque; no real
// payment network is involved.
func (m *Machine) SetPayment(p model.PaymentDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step == StepConfirmation {
		return model.ErrCheckoutSubmitted
	}
	m.payment = p
	return nil
}

// Next advances one step forward, enforcing the transition guards. The
// Payment -> Confirmation transition is driven by Complete, not Next.
func (m *Machine) Next() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.step {
	case StepEmotionalCheckIn:
		if m.trigger == "" {
			return model.ErrInvalidTrigger
		}
		m.step = StepShipping
		return nil
	case StepShipping:
		if !m.shipping.Complete() {
			return model.ErrIncompleteShipping
		}
		m.step = StepPayment
		return nil
	case StepPayment:
		return model.NewDomainError(model.ErrCodeIncompletePayment, "Complete purchase to finish checkout")
	default:
		return model.ErrCheckoutSubmitted
	}
}

// Back navigates to an earlier step without side effects. Confirmation is
// terminal; there is no way back out of it.
func (m *Machine) Back(to Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step == StepConfirmation || m.inFlight {
		return model.ErrCheckoutSubmitted
	}
	if to >= m.step {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Can only navigate to an earlier checkout step")
	}
	m.step = to
	return nil
}

// Complete runs the Payment -> Confirmation transition. The submit action is
// not reentrant: a second call while one is in flight or after success is
// rejected, since order acceptance debits balances upstream. On a rejection
// the machine stays at Payment; on success it clears through to Confirmation
// carrying the generated order number.
func (m *Machine) Complete(ctx context.Context, submit SubmitFunc) (*model.Order, error) {
	m.mu.Lock()
	if m.step != StepPayment {
		m.mu.Unlock()
		return nil, model.NewDomainError(model.ErrCodeIncompletePayment, "Checkout is not at the payment step")
	}
	if m.submitted || m.inFlight {
		m.mu.Unlock()
		return nil, model.ErrCheckoutSubmitted
	}
	if !m.payment.Complete() {
		m.mu.Unlock()
		return nil, model.ErrIncompletePayment
	}
	m.inFlight = true
	trigger := m.trigger
	shipping := m.shipping
	m.mu.Unlock()

	order, err := submit(ctx, trigger, shipping)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if err != nil {
		return nil, err
	}

	m.submitted = true
	m.orderNumber = order.OrderNumber
	m.step = StepConfirmation
	return order, nil
}
