package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

type AddItemRequest struct {
	ProductID  string               `json:"product_id"`
	Quantity   int                  `json:"quantity"`
	Selections []VariationSelection `json:"selections"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	model.Cart
	ItemCount int `json:"item_count"`
}

func NewCartResponse(c *model.Cart) CartResponse {
	return CartResponse{Cart: *c, ItemCount: c.ItemCount()}
}
