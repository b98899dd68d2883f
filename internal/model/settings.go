package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type StoreSettings struct {
	ID               string           `json:"id"`
	StoreName        string           `json:"store_name" validate:"required"`
	Description      *string          `json:"description"`
	LogoURL          *string          `json:"logo_url" validate:"omitempty,url"`
	BannerURL        *string          `json:"banner_url" validate:"omitempty,url"`
	PrimaryColor     string           `json:"primary_color" validate:"hexcolor"`
	SecondaryColor   string           `json:"secondary_color" validate:"hexcolor"`
	WhatsAppNumber   *string          `json:"whatsapp_number"`
	SocialLinks      []SocialLink     `json:"social_links" validate:"dive"`
	ContactInfo      ContactInfo      `json:"contact_info"`
	DeliverySettings DeliverySettings `json:"delivery_settings"`
	StoreConfig      StoreConfig      `json:"store_config"`
	CreatedAt        *time.Time       `json:"created_at"`
	UpdatedAt        *time.Time       `json:"updated_at"`
}

type SocialLink struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

type ContactInfo struct {
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address string  `json:"address,omitempty"`
}

type Neighborhood struct {
	ID   string          `json:"id"`
	Name string          `json:"name" validate:"required"`
	Fee  decimal.Decimal `json:"fee" validate:"gte=0"`
}

type PickupSettings struct {
	Enabled      bool   `json:"enabled"`
	Instructions string `json:"instructions,omitempty"`
}

type FixedRateSettings struct {
	Enabled     bool            `json:"enabled"`
	Fee         decimal.Decimal `json:"fee" validate:"gte=0"`
	Description string          `json:"description,omitempty"`
}

type NeighborhoodRateSettings struct {
	Enabled       bool           `json:"enabled"`
	Neighborhoods []Neighborhood `json:"neighborhoods" validate:"dive"`
}

type DeliveryWindow struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

type DeliverySettings struct {
	Pickup                PickupSettings           `json:"pickup"`
	FixedRate             FixedRateSettings        `json:"fixed_rate"`
	NeighborhoodRates     NeighborhoodRateSettings `json:"neighborhood_rates"`
	MinOrderValue         decimal.Decimal          `json:"min_order_value" validate:"gte=0"`
	EstimatedDeliveryTime DeliveryWindow           `json:"estimated_delivery_time"`
}

func (d *DeliverySettings) FindNeighborhood(id string) *Neighborhood {
	for i := range d.NeighborhoodRates.Neighborhoods {
		if d.NeighborhoodRates.Neighborhoods[i].ID == id {
			return &d.NeighborhoodRates.Neighborhoods[i]
		}
	}
	return nil
}

// Enabled reports whether the delivery type can be chosen. Neighborhood rates
// also need at least one neighborhood.
func (d *DeliverySettings) Enabled(t DeliveryType) bool {
	switch t {
	case DeliveryPickup:
		return d.Pickup.Enabled
	case DeliveryFixedRate:
		return d.FixedRate.Enabled
	case DeliveryNeighborhood:
		return d.NeighborhoodRates.Enabled && len(d.NeighborhoodRates.Neighborhoods) > 0
	}
	return false
}

// DefaultOption is the first enabled type in pickup, fixedRate, neighborhood
// order, or "" when none is enabled.
func (d *DeliverySettings) DefaultOption() DeliveryType {
	for _, t := range []DeliveryType{DeliveryPickup, DeliveryFixedRate, DeliveryNeighborhood} {
		if d.Enabled(t) {
			return t
		}
	}
	return ""
}

type StoreConfig struct {
	Currency           string `json:"currency" validate:"required,len=3"`
	CurrencySymbol     string `json:"currency_symbol" validate:"required"`
	OrderNumberPrefix  string `json:"order_number_prefix" validate:"required"`
	MaxItemsPerOrder   int    `json:"max_items_per_order" validate:"gte=0"`
	MinItemsPerOrder   int    `json:"min_items_per_order" validate:"gte=0"`
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message"`
}

func DefaultDeliverySettings() DeliverySettings {
	return DeliverySettings{
		Pickup:                PickupSettings{Enabled: false, Instructions: "Retire seu pedido em nosso endereço."},
		FixedRate:             FixedRateSettings{Enabled: false, Fee: decimal.Zero, Description: "Taxa de entrega única para toda a cidade."},
		NeighborhoodRates:     NeighborhoodRateSettings{Enabled: false, Neighborhoods: []Neighborhood{}},
		MinOrderValue:         decimal.Zero,
		EstimatedDeliveryTime: DeliveryWindow{Min: 30, Max: 60},
	}
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Currency:           "BRL",
		CurrencySymbol:     "R$",
		OrderNumberPrefix:  "GPD-",
		MaintenanceMessage: "Loja em manutenção. Voltamos em breve!",
	}
}

// DefaultStoreSettings is served when neither the database nor the cached
// snapshot is available.
func DefaultStoreSettings(id string) *StoreSettings {
	desc := "Descrição padrão da loja."
	return &StoreSettings{
		ID:               id,
		StoreName:        "Nome da Loja Padrão",
		Description:      &desc,
		PrimaryColor:     "#3B82F6",
		SecondaryColor:   "#10B981",
		SocialLinks:      []SocialLink{},
		DeliverySettings: DefaultDeliverySettings(),
		StoreConfig:      DefaultStoreConfig(),
	}
}
