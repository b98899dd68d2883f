package dto

import (
	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
)

type SelectDeliveryRequest struct {
	DeliveryType model.DeliveryType `json:"delivery_type"`
}

type SelectNeighborhoodRequest struct {
	NeighborhoodID string `json:"neighborhood_id"`
}

type CustomerFormRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	Notes      string `json:"notes"`
}

func (r CustomerFormRequest) Form() checkout.CustomerForm {
	return checkout.CustomerForm{
		Name:       r.Name,
		Phone:      r.Phone,
		Street:     r.Street,
		Number:     r.Number,
		Complement: r.Complement,
		District:   r.District,
		Notes:      r.Notes,
	}
}

// HandoffFailedResponse reports an order that was stored but could not be
// handed to WhatsApp, so the shopper can still quote its number.
type HandoffFailedResponse struct {
	httpx.ErrorBody
	Order *model.Order `json:"order"`
}
