package model

import "time"

// Product represents a catalog product. Flash-deal fields are only
// meaningful while the deal is active; expiry is evaluated at read time
// rather than enforced by deletion.
type Product struct {
	ID                 string     `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Description        string     `json:"description" db:"description"`
	Price              float64    `json:"price" db:"price"`
	Image              string     `json:"image" db:"image"`
	Category           string     `json:"category" db:"category"`
	IsFlashDeal        bool       `json:"is_flash_deal" db:"is_flash_deal"`
	DiscountPercentage *int       `json:"discount_percentage,omitempty" db:"discount_percentage"`
	FlashDealEnd       *time.Time `json:"flash_deal_end,omitempty" db:"flash_deal_end"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// FlashDealActive reports whether the product's flash deal applies at the
// given instant. Stored discount fields are ignored once the deal has expired.
func (p *Product) FlashDealActive(now time.Time) bool {
	if !p.IsFlashDeal || p.DiscountPercentage == nil {
		return false
	}
	return p.FlashDealEnd != nil && p.FlashDealEnd.After(now)
}

// EffectiveUnitPrice returns the price after any currently active flash
// discount, or the base price otherwise.
func (p *Product) EffectiveUnitPrice(now time.Time) float64 {
	if p.FlashDealActive(now) {
		return p.Price * (1 - float64(*p.DiscountPercentage)/100)
	}
	return p.Price
}

// Category represents a product category label.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
