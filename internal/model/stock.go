package model

import "time"

type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StockLevel is the stock view of a stock-controlled product.
type StockLevel struct {
	ProductID          string    `db:"id" json:"product_id"`
	Name               string    `db:"name" json:"name"`
	StockControl       bool      `db:"stock_control" json:"stock_control"`
	StockQuantity      int       `db:"stock_quantity" json:"stock_quantity"`
	AutoStockReduction bool      `db:"auto_stock_reduction" json:"auto_stock_reduction"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
