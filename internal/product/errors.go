package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrVariationNotFound = errors.New("variation not found")
)
