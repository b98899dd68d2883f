package cart

import "errors"

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrTooManyItems       = errors.New("max items per order exceeded")
	ErrInvalidVariation   = errors.New("invalid variation selection")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrStoreInMaintenance = errors.New("store in maintenance mode")
)
