package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID         *string          `db:"category_id" json:"category_id"` // Nullable
	Name               string           `db:"name" json:"name"`
	Description        string           `db:"description" json:"description"`
	Price              decimal.Decimal  `db:"price" json:"price"`
	StockControl       bool             `db:"stock_control" json:"stock_control"`
	StockQuantity      int              `db:"stock_quantity" json:"stock_quantity"`
	AutoStockReduction bool             `db:"auto_stock_reduction" json:"auto_stock_reduction"`
	IsActive           bool             `db:"is_active" json:"is_active"`
	Images             []ProductImage   `db:"-" json:"images"`
	VariationGroups    []VariationGroup `db:"-" json:"variation_groups"`
	CategoryName       string           `db:"category_name" json:"category_name,omitempty"`
}

type ProductImage struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	URL       string    `db:"url" json:"url"`
	IsMain    bool      `db:"is_main" json:"is_main"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type VariationGroup struct {
	ID                string            `db:"id" json:"id"`
	ProductID         string            `db:"product_id" json:"product_id"`
	Name              string            `db:"name" json:"name"`
	Required          bool              `db:"required" json:"required"`
	MultipleSelection bool              `db:"multiple_selection" json:"multiple_selection"`
	SortOrder         int               `db:"sort_order" json:"sort_order"`
	Options           []VariationOption `db:"-" json:"options"`
}

type VariationOption struct {
	ID            string          `db:"id" json:"id"`
	GroupID       string          `db:"group_id" json:"group_id"`
	Name          string          `db:"name" json:"name"`
	PriceModifier decimal.Decimal `db:"price_modifier" json:"price_modifier"`
	Stock         *int            `db:"stock" json:"stock"` // Nullable
	SortOrder     int             `db:"sort_order" json:"sort_order"`
}

// Catalog is everything the storefront needs to render: active products
// with their images and variations, and active categories.
type Catalog struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	Stale      bool       `json:"stale,omitempty"`
}

// MainImageURL returns the image flagged main, else the first image, else "".
func (p *Product) MainImageURL() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

func (p *Product) FindGroup(groupID string) *VariationGroup {
	for i := range p.VariationGroups {
		if p.VariationGroups[i].ID == groupID {
			return &p.VariationGroups[i]
		}
	}
	return nil
}

func (g *VariationGroup) FindOption(optionID string) *VariationOption {
	for i := range g.Options {
		if g.Options[i].ID == optionID {
			return &g.Options[i]
		}
	}
	return nil
}
