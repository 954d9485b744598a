package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeWishlistNotFound     = "WISHLIST_NOT_FOUND"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidTrigger       = "INVALID_TRIGGER"
	ErrCodeIncompleteShipping   = "INCOMPLETE_SHIPPING"
	ErrCodeIncompletePayment    = "INCOMPLETE_PAYMENT"
	ErrCodeBudgetNotConfigured  = "BUDGET_NOT_CONFIGURED"
	ErrCodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	ErrCodeCheckoutSubmitted    = "CHECKOUT_ALREADY_SUBMITTED"
	ErrCodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
)

// DomainError is a business-rule rejection carrying a structured code so
// clients never have to match on message substrings.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrWishlistNotFound     = NewDomainError(ErrCodeWishlistNotFound, "Wishlist not found")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidTrigger       = NewDomainError(ErrCodeInvalidTrigger, "Take a moment to identify how you're feeling before proceeding")
	ErrIncompleteShipping   = NewDomainError(ErrCodeIncompleteShipping, "All shipping fields are required")
	ErrIncompletePayment    = NewDomainError(ErrCodeIncompletePayment, "All payment fields are required")
	ErrBudgetNotConfigured  = NewDomainError(ErrCodeBudgetNotConfigured, "Please set your monthly budget before making a purchase")
	ErrInsufficientFunds    = NewDomainError(ErrCodeInsufficientFunds, "You have insufficient budget and points for this purchase")
	ErrCheckoutSubmitted    = NewDomainError(ErrCodeCheckoutSubmitted, "This checkout attempt has already been submitted")
	ErrSubscriptionRequired = NewDomainError(ErrCodeSubscriptionRequired, "An active subscription is required to shop")
)
