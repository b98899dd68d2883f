package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

type StockFilters struct {
	// LowStock keeps products at or below this quantity.
	LowStock *int
	Page     int
	PageSize int
}

type MovementFilters struct {
	ProductID    string
	MovementType string
	Page         int
	PageSize     int
}

type StockListResponse struct {
	Items    []model.StockLevel `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type MovementListResponse struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int                   `json:"total"`
	Page      int                   `json:"page"`
	PageSize  int                   `json:"page_size"`
}

const (
	MovementAdjustment = "adjustment"
	MovementSale       = "sale"

	ReferenceManual = "manual_adjustment"
	ReferenceOrder  = "order"
)

type AdjustStockInput struct {
	ProductID      string `json:"-"`
	QuantityChange int    `json:"quantity_change" validate:"ne=0"`
	Reason         string `json:"reason" validate:"required"`
	ReferenceID    string `json:"reference_id"`
	UserID         string `json:"-"`
}
