package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the server-side order lifecycle.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// ShippingDetails is the shipping snapshot captured during checkout. Fields
// are presence-checked only; this is a simulated environment and values are
// never validated against a real address network.
type ShippingDetails struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// Complete reports whether every shipping field is present.
func (s ShippingDetails) Complete() bool {
	return s.FullName != "" && s.Address != "" && s.City != "" &&
		s.State != "" && s.ZipCode != ""
}

// PaymentDetails is transient checkout form data. The values are opaque
// strings; no real payment is ever processed.
type PaymentDetails struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// Complete reports whether every payment field is present.
func (p PaymentDetails) Complete() bool {
	return p.CardNumber != "" && p.ExpiryDate != "" && p.CVV != ""
}

// OrderItem is an immutable line-item snapshot. Price is the effective unit
// price at submission time, insulating order history from later catalog
// changes.
type OrderItem struct {
	ProductID string  `json:"product_id" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Image     string  `json:"image" db:"image"`
	Category  string  `json:"category" db:"category"`
}

// Order represents a completed simulated purchase. Created exactly once per
// successful checkout and never mutated by the client afterwards.
type Order struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	UserID           string           `json:"user_id" db:"user_id"`
	OrderNumber      string           `json:"order_number" db:"order_number"`
	Items            []OrderItem      `json:"items" db:"items"`
	TotalAmount      float64          `json:"total_amount" db:"total_amount"`
	ShippingAddress  ShippingDetails  `json:"shipping_address" db:"shipping_address"`
	EmotionalTrigger EmotionalTrigger `json:"emotional_trigger" db:"emotional_trigger"`
	Status           OrderStatus      `json:"status" db:"status"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// OrderRequest is the payload submitted by the checkout flow. TotalSavings
// is the flash-deal discount realised by the cart, credited to the
// gamification ledger on acceptance.
type OrderRequest struct {
	UserID           string
	Items            []OrderItem
	TotalAmount      float64
	TotalSavings     float64
	ShippingAddress  ShippingDetails
	EmotionalTrigger EmotionalTrigger
}
