package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	GetStock(ctx context.Context, productID string) (*model.StockLevel, error)
	ListStock(ctx context.Context, filters *dto.StockFilters) ([]model.StockLevel, int, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockLevel, error)
	// ReduceForOrder takes the ordered quantities off products with automatic
	// stock reduction. Replays of the same order are ignored.
	ReduceForOrder(ctx context.Context, o *model.Order) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// CacheInvalidator drops cached listings that show stock quantities.
type CacheInvalidator interface {
	DeletePattern(ctx context.Context, pattern string) error
}
