package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

type OrderFilters struct {
	Status   string
	Page     int
	PageSize int
}

type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

type OrderListResponse struct {
	Orders   []model.Order `json:"orders"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
