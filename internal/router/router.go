package router

import (
	"net/http"
	"strings"

	"spendly/internal/handler"
	"spendly/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router wires up.
type Handlers struct {
	Product     *handler.ProductHandler
	Cart        *handler.CartHandler
	Checkout    *handler.CheckoutHandler
	Order       *handler.OrderHandler
	Analytics   *handler.AnalyticsHandler
	Budget      *handler.BudgetHandler
	Stats       *handler.StatsHandler
	Wishlist    *handler.WishlistHandler
	Achievement *handler.AchievementHandler
	Billing     *handler.BillingHandler
	Realtime    *handler.RealtimeHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, jwtSecret string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalog routes
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			h.Product.GetByID(w, r)
			return
		}
		h.Product.GetAll(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)
	mux.HandleFunc("/api/categories", h.Product.Categories)
	mux.HandleFunc("/api/flash-deals", h.Product.FlashDeals)
	mux.HandleFunc("/api/catalog/seed", h.Product.Seed)

	// Cart routes
	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Cart.Get(w, r)
		case http.MethodDelete:
			h.Cart.Clear(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/cart/items", h.Cart.Add)
	mux.HandleFunc("/api/cart/items/", func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
		if productID == "" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.Cart.SetQuantity(w, r, productID)
		case http.MethodDelete:
			h.Cart.Remove(w, r, productID)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/cart/reset", h.Cart.Reset)

	// Checkout routes
	mux.HandleFunc("/api/checkout", h.Checkout.State)
	mux.HandleFunc("/api/checkout/triggers", h.Checkout.Triggers)
	mux.HandleFunc("/api/checkout/trigger", h.Checkout.SelectTrigger)
	mux.HandleFunc("/api/checkout/shipping", h.Checkout.SetShipping)
	mux.HandleFunc("/api/checkout/payment", h.Checkout.SetPayment)
	mux.HandleFunc("/api/checkout/next", h.Checkout.Next)
	mux.HandleFunc("/api/checkout/back", h.Checkout.Back)
	mux.HandleFunc("/api/checkout/complete", h.Checkout.Complete)
	mux.HandleFunc("/api/checkout/restart", h.Checkout.Restart)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			h.Order.GetByID(w, r)
			return
		}
		h.Order.GetAll(w, r)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)
	mux.HandleFunc("/api/purchases/recent", h.Order.Recent)
	mux.HandleFunc("/api/purchases/top-products", h.Order.MostPurchased)

	// Insights and gamification routes
	mux.HandleFunc("/api/analytics", h.Analytics.Snapshot)
	mux.HandleFunc("/api/budget", h.Budget.Current)
	mux.HandleFunc("/api/budget/remaining", h.Budget.Remaining)
	mux.HandleFunc("/api/stats", h.Stats.Get)
	mux.HandleFunc("/api/leaderboard", h.Stats.Leaderboard)
	mux.HandleFunc("/api/achievements", h.Achievement.List)

	// Wishlist routes
	mux.HandleFunc("/api/wishlists", h.Wishlist.Collection)
	mux.HandleFunc("/api/wishlists/", h.Wishlist.Item)
	mux.HandleFunc("/api/wishlist/items", h.Wishlist.QuickAdd)

	// Billing routes
	mux.HandleFunc("/api/billing/subscription", h.Billing.Subscription)
	mux.HandleFunc("/api/billing/checkout-session", h.Billing.CheckoutSession)
	mux.HandleFunc("/api/billing/portal-session", h.Billing.PortalSession)
	mux.HandleFunc("/api/billing/webhook", h.Billing.Webhook)

	// Realtime push channel
	mux.HandleFunc("/api/realtime", h.Realtime.Connect)

	// Apply middleware in order: Recovery -> Logging -> CORS -> BearerAuth
	var root http.Handler = mux
	root = middleware.BearerAuth(jwtSecret, logger)(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
