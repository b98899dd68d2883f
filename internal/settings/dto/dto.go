package dto

import (
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

// UpdateSettingsInput changes only the fields that are present. An empty
// string clears an optional text field.
type UpdateSettingsInput struct {
	StoreName        *string                `json:"store_name"`
	Description      *string                `json:"description"`
	LogoURL          *string                `json:"logo_url"`
	BannerURL        *string                `json:"banner_url"`
	PrimaryColor     *string                `json:"primary_color"`
	SecondaryColor   *string                `json:"secondary_color"`
	WhatsAppNumber   *string                `json:"whatsapp_number"`
	SocialLinks      []SocialLinkInput      `json:"social_links"`
	ContactInfo      *model.ContactInfo     `json:"contact_info"`
	DeliverySettings *DeliverySettingsInput `json:"delivery_settings"`
	StoreConfig      *model.StoreConfig     `json:"store_config"`
}

// DeliverySettingsInput replaces each delivery section that is present and
// keeps the others.
type DeliverySettingsInput struct {
	Pickup                *model.PickupSettings           `json:"pickup"`
	FixedRate             *model.FixedRateSettings        `json:"fixed_rate"`
	NeighborhoodRates     *model.NeighborhoodRateSettings `json:"neighborhood_rates"`
	MinOrderValue         *decimal.Decimal                `json:"min_order_value"`
	EstimatedDeliveryTime *model.DeliveryWindow           `json:"estimated_delivery_time"`
}

func (in *DeliverySettingsInput) Apply(d *model.DeliverySettings) {
	if in.Pickup != nil {
		d.Pickup = *in.Pickup
	}
	if in.FixedRate != nil {
		d.FixedRate = *in.FixedRate
	}
	if in.NeighborhoodRates != nil {
		d.NeighborhoodRates = *in.NeighborhoodRates
	}
	if in.MinOrderValue != nil {
		d.MinOrderValue = *in.MinOrderValue
	}
	if in.EstimatedDeliveryTime != nil {
		d.EstimatedDeliveryTime = *in.EstimatedDeliveryTime
	}
}

type NeighborhoodInput struct {
	Name string          `json:"name"`
	Fee  decimal.Decimal `json:"fee"`
}

type SocialLinkInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
