package dto

type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// UpdateCategoryInput leaves nil fields untouched.
type UpdateCategoryInput struct {
	ID          string  `json:"-"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}
