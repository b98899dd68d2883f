package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

type ProductFilters struct {
	CategoryID  string `json:"category_id,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	SearchQuery string `json:"q,omitempty"`    // name or description
	SortBy      string `json:"sort,omitempty"` // name, price, created_at
	SortOrder   string `json:"order,omitempty"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}
