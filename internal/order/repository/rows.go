package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, order_number, customer_name, customer_phone, customer_address, items,
	subtotal, delivery_option, total, notes, status, whatsapp_sent, created_at, updated_at`

// orderRow is the orders table layout. Address, items and delivery option
// are stored as JSONB.
type orderRow struct {
	ID              string             `db:"id"`
	OrderNumber     string             `db:"order_number"`
	CustomerName    string             `db:"customer_name"`
	CustomerPhone   string             `db:"customer_phone"`
	CustomerAddress types.NullJSONText `db:"customer_address"`
	Items           types.JSONText     `db:"items"`
	Subtotal        decimal.Decimal    `db:"subtotal"`
	DeliveryOption  types.JSONText     `db:"delivery_option"`
	Total           decimal.Decimal    `db:"total"`
	Notes           string             `db:"notes"`
	Status          string             `db:"status"`
	WhatsAppSent    bool               `db:"whatsapp_sent"`
	CreatedAt       time.Time          `db:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at"`
}

func toRow(o *model.Order) (*orderRow, error) {
	items := o.Items
	if items == nil {
		items = []model.CartItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	deliveryJSON, err := json.Marshal(o.DeliveryOption)
	if err != nil {
		return nil, fmt.Errorf("encode delivery option: %w", err)
	}

	row := &orderRow{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.Customer.Name,
		CustomerPhone:  o.Customer.Phone,
		Items:          types.JSONText(itemsJSON),
		Subtotal:       o.Subtotal,
		DeliveryOption: types.JSONText(deliveryJSON),
		Total:          o.Total,
		Notes:          o.Notes,
		Status:         string(o.Status),
		WhatsAppSent:   o.WhatsAppSent,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.CreatedAt,
	}
	if o.Customer.Address != nil {
		addr, err := json.Marshal(o.Customer.Address)
		if err != nil {
			return nil, fmt.Errorf("encode address: %w", err)
		}
		row.CustomerAddress = types.NullJSONText{JSONText: types.JSONText(addr), Valid: true}
	}
	return row, nil
}

func (r *orderRow) toModel() (*model.Order, error) {
	o := &model.Order{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		Customer: model.Customer{
			Name:  r.CustomerName,
			Phone: r.CustomerPhone,
		},
		Subtotal:     r.Subtotal,
		Total:        r.Total,
		Notes:        r.Notes,
		Status:       model.OrderStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		WhatsAppSent: r.WhatsAppSent,
	}

	if err := r.Items.Unmarshal(&o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", r.ID, err)
	}
	if err := r.DeliveryOption.Unmarshal(&o.DeliveryOption); err != nil {
		return nil, fmt.Errorf("decode delivery option of order %s: %w", r.ID, err)
	}
	if r.CustomerAddress.Valid {
		var addr model.Address
		if err := r.CustomerAddress.Unmarshal(&addr); err != nil {
			return nil, fmt.Errorf("decode address of order %s: %w", r.ID, err)
		}
		o.Customer.Address = &addr
	}
	return o, nil
}
