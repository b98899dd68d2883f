package model

import "github.com/shopspring/decimal"

// SelectedVariation is a snapshot of one chosen option, decoupled from the
// live catalog.
type SelectedVariation struct {
	GroupID       string          `json:"group_id"`
	GroupName     string          `json:"group_name"`
	OptionID      string          `json:"option_id"`
	OptionName    string          `json:"option_name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

type CartItem struct {
	ID                 string              `json:"id"`
	ProductID          string              `json:"product_id"`
	ProductName        string              `json:"product_name"`
	Quantity           int                 `json:"quantity"`
	BasePrice          decimal.Decimal     `json:"base_price"`
	SelectedVariations []SelectedVariation `json:"selected_variations"`
	TotalPrice         decimal.Decimal     `json:"total_price"`
	ImageURL           string              `json:"image_url,omitempty"`
}

// UnitPrice is the base price plus every selected modifier.
func (i *CartItem) UnitPrice() decimal.Decimal {
	unit := i.BasePrice
	for _, v := range i.SelectedVariations {
		unit = unit.Add(v.PriceModifier)
	}
	return unit
}

type Cart struct {
	Items    []CartItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
