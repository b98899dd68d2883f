package order

import "errors"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrInvalidContact = errors.New("contact number must have at least 10 digits")
)
