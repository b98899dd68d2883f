package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/inventory"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanReader hands out queued messages and then blocks until ctx ends.
type chanReader struct {
	msgs chan kafka.Message
	errs chan error
}

func (c *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-c.msgs:
		return m, nil
	case err := <-c.errs:
		return kafka.Message{}, err
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

type recordingUseCase struct {
	inventory.UseCase
	mu     sync.Mutex
	orders []string
}

func (r *recordingUseCase) ReduceForOrder(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o.ID)
	return nil
}

func (r *recordingUseCase) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.orders...)
}

func event(t *testing.T, typ, orderID string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(model.OrderEvent{
		EventID:   "e-" + orderID,
		EventType: typ,
		Payload:   model.Order{ID: orderID, Items: []model.CartItem{{ProductID: "p1", Quantity: 1}}},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return kafka.Message{Key: []byte(orderID), Value: b}
}

func TestStart_ReducesStockForOrderEvents(t *testing.T) {
	reader := &chanReader{msgs: make(chan kafka.Message, 4), errs: make(chan error, 1)}
	uc := &recordingUseCase{}
	l := NewInventoryListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	reader.msgs <- event(t, model.EventOrderCreated, "o1")
	reader.msgs <- kafka.Message{Value: []byte("{broken")}
	reader.errs <- errors.New("broker unavailable")
	reader.msgs <- event(t, "OrderCancelled", "o2")
	reader.msgs <- event(t, model.EventOrderCreated, "o3")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(uc.seen()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
	assert.Equal(t, []string{"o1", "o3"}, uc.seen())
}
