package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/order"
	"github.com/fekuna/omnipos-storefront-service/internal/order/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	orders  map[string]*model.Order
	err     error
	filters *dto.OrderFilters
}

func (m *memRepo) Create(_ context.Context, o *model.Order) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) FindAll(_ context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	m.filters = f
	return nil, 0, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, s model.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = s
	return true, nil
}

func (m *memRepo) MarkWhatsAppSent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[id].WhatsAppSent = true
	return nil
}

type chanPublisher struct {
	events chan model.OrderEvent
	keys   chan string
}

func (p *chanPublisher) Publish(_ context.Context, key string, v interface{}) error {
	p.keys <- key
	p.events <- v.(model.OrderEvent)
	return nil
}

type recordingFeed struct {
	mu     sync.Mutex
	events []order.FeedEvent
}

func (f *recordingFeed) Broadcast(v interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v.(order.FeedEvent))
}

func newOrder() *model.Order {
	return &model.Order{
		ID:          "o1",
		OrderNumber: "GPD-1",
		Customer:    model.Customer{Name: "Ana", Phone: "(11) 91234-5678"},
		Subtotal:    decimal.NewFromInt(30),
		Total:       decimal.NewFromInt(30),
		Status:      model.OrderStatusNew,
		CreatedAt:   time.Now(),
	}
}

func TestCreateOrder_PublishesAndBroadcasts(t *testing.T) {
	repo := &memRepo{orders: map[string]*model.Order{}}
	pub := &chanPublisher{events: make(chan model.OrderEvent, 1), keys: make(chan string, 1)}
	feed := &recordingFeed{}
	uc := NewOrderUseCase(repo, pub, feed, logger.NewNop())

	require.NoError(t, uc.CreateOrder(context.Background(), newOrder()))
	assert.Contains(t, repo.orders, "o1")

	select {
	case ev := <-pub.events:
		assert.Equal(t, model.EventOrderCreated, ev.EventType)
		assert.Equal(t, "GPD-1", ev.Payload.OrderNumber)
		assert.NotEmpty(t, ev.EventID)
		assert.Equal(t, "o1", <-pub.keys)
	case <-time.After(2 * time.Second):
		t.Fatal("order event was not published")
	}

	require.Len(t, feed.events, 1)
	assert.Equal(t, order.FeedOrderCreated, feed.events[0].Type)
}

func TestCreateOrder_StoreFailureHasNoSideEffects(t *testing.T) {
	repo := &memRepo{orders: map[string]*model.Order{}, err: errors.New("db down")}
	feed := &recordingFeed{}
	uc := NewOrderUseCase(repo, nil, feed, logger.NewNop())

	assert.EqualError(t, uc.CreateOrder(context.Background(), newOrder()), "db down")
	assert.Empty(t, feed.events)
}

func TestGetOrder_NotFound(t *testing.T) {
	uc := NewOrderUseCase(&memRepo{orders: map[string]*model.Order{}}, nil, nil, logger.NewNop())
	_, err := uc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestListOrders_Defaults(t *testing.T) {
	repo := &memRepo{orders: map[string]*model.Order{}}
	uc := NewOrderUseCase(repo, nil, nil, logger.NewNop())

	res, err := uc.ListOrders(context.Background(), &dto.OrderFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.PageSize)
	assert.NotNil(t, res.Orders)
	assert.Equal(t, 20, repo.filters.PageSize)

	_, err = uc.ListOrders(context.Background(), &dto.OrderFilters{Status: "lost"})
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestUpdateStatus(t *testing.T) {
	repo := &memRepo{orders: map[string]*model.Order{}}
	feed := &recordingFeed{}
	uc := NewOrderUseCase(repo, nil, feed, logger.NewNop())
	require.NoError(t, repo.Create(context.Background(), newOrder()))

	o, err := uc.UpdateStatus(context.Background(), "o1", model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, o.Status)
	require.Len(t, feed.events, 1)
	assert.Equal(t, order.FeedOrderUpdated, feed.events[0].Type)

	_, err = uc.UpdateStatus(context.Background(), "o1", "lost")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)

	_, err = uc.UpdateStatus(context.Background(), "missing", model.OrderStatusDelivered)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
