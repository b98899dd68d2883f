package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID         *string         `json:"category_id"`
	Name               string          `json:"name" validate:"required"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price" validate:"gte=0"`
	StockControl       bool            `json:"stock_control"`
	StockQuantity      int             `json:"stock_quantity" validate:"gte=0"`
	AutoStockReduction bool            `json:"auto_stock_reduction"`
	IsActive           *bool           `json:"is_active"`
}

// UpdateProductInput replaces the product's fields. Stock quantity is not
// part of it; a nil IsActive keeps the current flag.
type UpdateProductInput struct {
	ID                 string          `json:"-"`
	CategoryID         *string         `json:"category_id"`
	Name               string          `json:"name" validate:"required"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price" validate:"gte=0"`
	StockControl       bool            `json:"stock_control"`
	AutoStockReduction bool            `json:"auto_stock_reduction"`
	IsActive           *bool           `json:"is_active"`
}

// ImageInput adds an image, or updates one when ID is set.
type ImageInput struct {
	ID        string `json:"-"`
	ProductID string `json:"-"`
	URL       string `json:"url" validate:"required,url"`
	IsMain    bool   `json:"is_main"`
}

type GroupInput struct {
	ID                string `json:"-"`
	ProductID         string `json:"-"`
	Name              string `json:"name" validate:"required"`
	Required          bool   `json:"required"`
	MultipleSelection bool   `json:"multiple_selection"`
	SortOrder         *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// OptionInput carries a signed price modifier. A nil Stock means the option
// is not stock-limited.
type OptionInput struct {
	ID            string          `json:"-"`
	ProductID     string          `json:"-"`
	GroupID       string          `json:"-"`
	Name          string          `json:"name" validate:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Stock         *int            `json:"stock" validate:"omitempty,gte=0"`
	SortOrder     *int            `json:"sort_order" validate:"omitempty,gte=0"`
}
