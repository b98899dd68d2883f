package order

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, o *model.Order) error
	MarkWhatsAppSent(ctx context.Context, id string) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, v interface{}) error
}

// Broadcaster pushes live updates to connected admin dashboards.
type Broadcaster interface {
	Broadcast(v interface{})
}

const (
	FeedOrderCreated = "order.created"
	FeedOrderUpdated = "order.updated"
)

// FeedEvent is one message on the admin live feed.
type FeedEvent struct {
	Type  string       `json:"type"`
	Order *model.Order `json:"order"`
}
