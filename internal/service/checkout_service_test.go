package service

import (
	"context"
	"testing"
	"time"

	"spendly/internal/cart"
	"spendly/internal/model"
	"spendly/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc    CheckoutService
	carts  *cart.Manager
	orders *MockOrderRepository
	stats  *MockStatsRepository
	mailer *stubMailer
	hub    *realtime.Hub
}

func newCheckoutFixture() *checkoutFixture {
	logger := zerolog.Nop()
	f := &checkoutFixture{
		carts:  cart.NewManager(newMemCartStore(), logger),
		orders: new(MockOrderRepository),
		stats:  new(MockStatsRepository),
		mailer: newStubMailer(),
		hub:    realtime.NewHub(logger),
	}
	f.svc = NewCheckoutService(f.carts, f.orders, f.stats, f.mailer, &stubCoach{note: "well done"}, f.hub, logger)
	return f
}

// advanceToPayment walks the machine through check-in and shipping and fills
// in the payment form.
func advanceToPayment(t *testing.T, svc CheckoutService, userID string) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.SelectTrigger(ctx, userID, model.TriggerPlanned)
	require.NoError(t, err)
	_, err = svc.Next(ctx, userID)
	require.NoError(t, err)
	_, err = svc.SetShipping(ctx, userID, model.ShippingDetails{
		FullName: "A Person", Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
	})
	require.NoError(t, err)
	_, err = svc.Next(ctx, userID)
	require.NoError(t, err)
	_, err = svc.SetPayment(ctx, userID, model.PaymentDetails{
		CardNumber: "4242424242424242", ExpiryDate: "12/30", CVV: "123",
	})
	require.NoError(t, err)
}

func TestCheckoutService_StateStartsFresh(t *testing.T) {
	f := newCheckoutFixture()

	state := f.svc.State(context.Background(), "u1")
	assert.Equal(t, "emotional", state.Step)
	assert.Empty(t, state.OrderNumber)
}

func TestCheckoutService_BackRejectsUnknownStep(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Back(context.Background(), "u1", "warehouse")
	assert.Error(t, err)
}

func TestCheckoutService_CompleteRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	advanceToPayment(t, f.svc, "u1")

	_, err := f.svc.Complete(ctx, "u1", "u1@example.com")
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeEmptyCart, domainErr.Code)

	// The attempt is still live; payment can be retried once the cart fills.
	assert.Equal(t, "payment", f.svc.State(ctx, "u1").Step)
	f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckoutService_CompleteSubmitsOrder(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	discount := 25
	end := time.Now().Add(time.Hour)
	engine := f.carts.Get("u1")
	engine.AddItem(model.Product{ID: "deal", Name: "Deal", Price: 80, Category: "Tech", IsFlashDeal: true, DiscountPercentage: &discount, FlashDealEnd: &end})
	engine.AddItem(model.Product{ID: "plain", Name: "Plain", Price: 50, Category: "Home"})

	order := &model.Order{
		ID:               uuid.New(),
		UserID:           "u1",
		OrderNumber:      "SPD-ABCDEF1234",
		TotalAmount:      110,
		EmotionalTrigger: model.TriggerPlanned,
		Status:           model.OrderStatusCompleted,
	}
	f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *model.OrderRequest) bool {
		return req.UserID == "u1" &&
			len(req.Items) == 2 &&
			req.Items[0].Price == 60 &&
			req.TotalAmount == 110 &&
			req.TotalSavings == 20 &&
			req.EmotionalTrigger == model.TriggerPlanned
	})).Return(order, nil)
	f.stats.On("EnsureUser", mock.Anything, "u1", "u1@example.com").Return(nil)

	standings, cancel := f.hub.Subscribe(realtime.TopicLeaderboard)
	defer cancel()

	advanceToPayment(t, f.svc, "u1")
	got, err := f.svc.Complete(ctx, "u1", "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "SPD-ABCDEF1234", got.OrderNumber)

	state := f.svc.State(ctx, "u1")
	assert.Equal(t, "confirmation", state.Step)
	assert.Equal(t, "SPD-ABCDEF1234", state.OrderNumber)

	assert.Empty(t, engine.Items(), "cart is cleared after acceptance")

	select {
	case note := <-f.mailer.sent:
		assert.Equal(t, "well done", note)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a confirmation email")
	}

	select {
	case msg := <-standings:
		assert.Equal(t, "standings_changed", msg.Event)
	case <-time.After(time.Second):
		t.Fatal("expected a leaderboard broadcast")
	}

	f.orders.AssertExpectations(t)
	f.stats.AssertExpectations(t)
}

func TestCheckoutService_CompleteRejectionKeepsCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	engine := f.carts.Get("u1")
	engine.AddItem(model.Product{ID: "p1", Name: "Mug", Price: 10})

	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, model.ErrInsufficientFunds)

	advanceToPayment(t, f.svc, "u1")
	_, err := f.svc.Complete(ctx, "u1", "u1@example.com")
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	assert.Equal(t, "payment", f.svc.State(ctx, "u1").Step)
	assert.Len(t, engine.Items(), 1, "rejected checkout leaves the cart intact")

	select {
	case <-f.mailer.sent:
		t.Fatal("no email should be sent for a rejected order")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCheckoutService_RestartAbandonsAttempt(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	advanceToPayment(t, f.svc, "u1")
	require.Equal(t, "payment", f.svc.State(ctx, "u1").Step)

	state := f.svc.Restart(ctx, "u1")
	assert.Equal(t, "emotional", state.Step)
	assert.Empty(t, state.Trigger)
}

func TestCheckoutService_MachinesArePerUser(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	_, err := f.svc.SelectTrigger(ctx, "u1", model.TriggerStress)
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, "shipping", f.svc.State(ctx, "u1").Step)
	assert.Equal(t, "emotional", f.svc.State(ctx, "u2").Step)
}
