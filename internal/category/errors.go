package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUnknownCategory is returned by reorder when an id does not exist.
	ErrUnknownCategory = errors.New("unknown category in reorder list")
)
