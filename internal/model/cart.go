package model

// CartItem is a product selected for purchase plus a positive quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}
