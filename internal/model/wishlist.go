package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultWishlistName is the lazily created wishlist every user gets on
// first access.
const DefaultWishlistName = "Default"

// Wishlist is a named, user-owned collection of product references.
type Wishlist struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	IsPublic  bool      `json:"is_public" db:"is_public"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WishlistItem is a product reference with a price snapshot taken when the
// item was added.
type WishlistItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	WishlistID   uuid.UUID `json:"wishlist_id" db:"wishlist_id"`
	ProductID    string    `json:"product_id" db:"product_id"`
	PriceAtAdd   float64   `json:"price_at_add" db:"price_at_add"`
	NotifyOnSale bool      `json:"notify_on_sale" db:"notify_on_sale"`
	AddedAt      time.Time `json:"added_at" db:"added_at"`
}
