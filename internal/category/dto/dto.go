package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

type CategoryFilters struct {
	IsActive *bool
	Page     int
	PageSize int
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type CategoryListResponse struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}
