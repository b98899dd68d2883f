package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/order"
	"github.com/fekuna/omnipos-storefront-service/internal/order/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

type orderUseCase struct {
	repo      order.Repository
	publisher order.EventPublisher
	feed      order.Broadcaster
	logger    logger.ZapLogger
}

// NewOrderUseCase wires order storage with its side channels. publisher and
// feed may be nil when Kafka or the live feed are not running.
func NewOrderUseCase(repo order.Repository, publisher order.EventPublisher, feed order.Broadcaster, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		publisher: publisher,
		feed:      feed,
		logger:    log,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, o *model.Order) error {
	if err := uc.repo.Create(ctx, o); err != nil {
		return err
	}

	snapshot := *o
	go uc.publishCreated(snapshot)
	uc.broadcast(order.FeedOrderCreated, &snapshot)
	return nil
}

func (uc *orderUseCase) MarkWhatsAppSent(ctx context.Context, id string) error {
	return uc.repo.MarkWhatsAppSent(ctx, id)
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) (*dto.OrderListResponse, error) {
	if filters.Status != "" && !model.OrderStatus(filters.Status).Valid() {
		return nil, order.ErrInvalidStatus
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	orders, total, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &dto.OrderListResponse{
		Orders:   orders,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, order.ErrInvalidStatus
	}

	found, err := uc.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, order.ErrOrderNotFound
	}

	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	uc.broadcast(order.FeedOrderUpdated, o)
	return o, nil
}

func (uc *orderUseCase) publishCreated(o model.Order) {
	if uc.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	event := model.OrderEvent{
		EventID:   uuid.New().String(),
		EventType: model.EventOrderCreated,
		Payload:   o,
		Timestamp: time.Now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, o.ID, event); err != nil {
		uc.logger.Error("failed to publish order event", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	uc.logger.Debug("order event published", zap.String("order_id", o.ID))
}

func (uc *orderUseCase) broadcast(kind string, o *model.Order) {
	if uc.feed == nil {
		return
	}
	uc.feed.Broadcast(order.FeedEvent{Type: kind, Order: o})
}
