package inventory

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotTracked        = errors.New("product does not use stock control")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStockBusy is returned when the product lock could not be taken.
	ErrStockBusy = errors.New("stock is being updated")
)
