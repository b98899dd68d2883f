package checkout

import (
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

// View is what a storefront renders for the checkout panel.
type View struct {
	State
	Cart             model.Cart           `json:"cart"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	DeliveryFee      decimal.Decimal      `json:"delivery_fee"`
	Total            decimal.Decimal      `json:"total"`
	AvailableOptions []model.DeliveryType `json:"available_options"`
	Neighborhoods    []model.Neighborhood `json:"neighborhoods"`
}

func (c *Checkout) View() *View {
	opts := make([]model.DeliveryType, 0, 3)
	for _, t := range []model.DeliveryType{model.DeliveryPickup, model.DeliveryFixedRate, model.DeliveryNeighborhood} {
		if c.delivery.Enabled(t) {
			opts = append(opts, t)
		}
	}
	neighborhoods := c.delivery.NeighborhoodRates.Neighborhoods
	if !c.delivery.NeighborhoodRates.Enabled || neighborhoods == nil {
		neighborhoods = []model.Neighborhood{}
	}

	return &View{
		State:            c.state,
		Cart:             c.cart,
		Subtotal:         c.Subtotal(),
		DeliveryFee:      c.DeliveryFee(),
		Total:            c.Total(),
		AvailableOptions: opts,
		Neighborhoods:    neighborhoods,
	}
}

// Receipt is the outcome of a submission. Order is set whenever the order
// was stored, even if the handoff failed afterwards.
type Receipt struct {
	Order      *model.Order `json:"order"`
	HandoffURL string       `json:"handoff_url,omitempty"`
}
