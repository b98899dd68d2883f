package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryType string

const (
	DeliveryPickup       DeliveryType = "pickup"
	DeliveryFixedRate    DeliveryType = "fixedRate"
	DeliveryNeighborhood DeliveryType = "neighborhood"
)

func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryPickup, DeliveryFixedRate, DeliveryNeighborhood:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
}

type Customer struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Address *Address `json:"address,omitempty"`
}

type OrderDeliveryOption struct {
	Type             DeliveryType    `json:"type"`
	Name             string          `json:"name"`
	Fee              decimal.Decimal `json:"fee"`
	NeighborhoodID   string          `json:"neighborhood_id,omitempty"`
	NeighborhoodName string          `json:"neighborhood_name,omitempty"`
}

type Order struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	Customer       Customer            `json:"customer"`
	Items          []CartItem          `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DeliveryOption OrderDeliveryOption `json:"delivery_option"`
	Total          decimal.Decimal     `json:"total"`
	Notes          string              `json:"notes,omitempty"`
	Status         OrderStatus         `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	WhatsAppSent   bool                `json:"whatsapp_sent"`
}
