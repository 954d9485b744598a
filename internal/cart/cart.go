package cart

import (
	"sync"
	"time"

	"spendly/internal/model"

	"github.com/rs/zerolog"
)

// StorageKeyPrefix is the fixed key prefix for durable cart snapshots.
const StorageKeyPrefix = "spendly_cart"

// Store is the durable local cache behind a cart engine. The in-memory state
// stays authoritative for the session; store failures are logged and swallowed.
type Store interface {
	// Load reads the cart snapshot for a key. A missing key yields an empty
	// item list and no error.
	Load(key string) ([]model.CartItem, error)

	// Save writes the full cart snapshot for a key.
	Save(key string, items []model.CartItem) error

	// Delete purges the cache entry for a key.
	Delete(key string) error
}

// Engine holds one authenticated user's cart. All derived values are
// recomputed on every read.
type Engine struct {
	mu     sync.Mutex
	userID string
	key    string
	items  []model.CartItem
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine creates a cart engine for a user, warming it from the durable
// cache. A cache read failure leaves the cart empty.
func NewEngine(userID string, store Store, logger zerolog.Logger) *Engine {
	e := &Engine{
		userID: userID,
		key:    StorageKeyPrefix + "_" + userID,
		store:  store,
		logger: logger.With().Str("component", "cart").Str("user_id", userID).Logger(),
		now:    time.Now,
	}

	items, err := store.Load(e.key)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to load cart from cache, starting empty")
		return e
	}
	e.items = items
	return e
}

// UserID returns the owning user.
func (e *Engine) UserID() string {
	return e.userID
}

// AddItem increments the quantity of an existing item or inserts the product
// with quantity one.
func (e *Engine) AddItem(product model.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == product.ID {
			e.items[i].Quantity++
			e.persist()
			return
		}
	}

	e.items = append(e.items, model.CartItem{Product: product, Quantity: 1})
	e.persist()
}

// RemoveItem deletes the matching cart item if present.
func (e *Engine) RemoveItem(productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			e.persist()
			return
		}
	}
}

// SetQuantity sets an item's quantity exactly. A quantity below one removes
// the item. There is no upward clamp; this system has no inventory ledger.
func (e *Engine) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		e.RemoveItem(productID)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == productID {
			e.items[i].Quantity = quantity
			e.persist()
			return
		}
	}
}

// Clear empties the cart and purges the durable cache entry.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	if err := e.store.Delete(e.key); err != nil {
		e.logger.Warn().Err(err).Msg("failed to purge cart cache entry")
	}
}

// Items returns a copy of the cart contents.
func (e *Engine) Items() []model.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

// TotalItemCount is the sum of all quantities.
func (e *Engine) TotalItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for _, item := range e.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums effective unit price times quantity across the cart,
// honouring currently active flash deals.
func (e *Engine) TotalPrice() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	total := 0.0
	for i := range e.items {
		total += e.items[i].EffectiveUnitPrice(now) * float64(e.items[i].Quantity)
	}
	return total
}

// TotalSavings sums the flash-deal discount across the cart, for the
// gamification ledger.
func (e *Engine) TotalSavings() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	saved := 0.0
	for i := range e.items {
		saved += (e.items[i].Price - e.items[i].EffectiveUnitPrice(now)) * float64(e.items[i].Quantity)
	}
	return saved
}

// persist mirrors the full snapshot to the durable cache. Callers hold the
// lock.
func (e *Engine) persist() {
	if err := e.store.Save(e.key, e.items); err != nil {
		e.logger.Warn().Err(err).Msg("failed to persist cart snapshot")
	}
}
