package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/inventory"
	"github.com/fekuna/omnipos-storefront-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond

	productListPattern = "products:list:*"
)

var validate = validation.New()

type inventoryUseCase struct {
	repo   inventory.Repository
	locker inventory.Locker
	cache  inventory.CacheInvalidator
	logger logger.ZapLogger
}

// NewInventoryUseCase builds the stock use case. cache may be nil.
func NewInventoryUseCase(repo inventory.Repository, locker inventory.Locker, cache inventory.CacheInvalidator, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		locker: locker,
		cache:  cache,
		logger: log,
	}
}

func (uc *inventoryUseCase) GetStock(ctx context.Context, productID string) (*model.StockLevel, error) {
	level, err := uc.repo.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, inventory.ErrProductNotFound
	}
	return level, nil
}

func (uc *inventoryUseCase) ListStock(ctx context.Context, filters *dto.StockFilters) ([]model.StockLevel, int, error) {
	normalizePage(&filters.Page, &filters.PageSize)
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	normalizePage(&filters.Page, &filters.PageSize)
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockLevel, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	var level *model.StockLevel
	err := uc.withLock(ctx, input.ProductID, func() error {
		current, err := uc.GetStock(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if !current.StockControl {
			return inventory.ErrNotTracked
		}
		if current.StockQuantity+input.QuantityChange < 0 {
			return inventory.ErrInsufficientStock
		}

		ref := input.ReferenceID
		if ref == "" {
			ref = uuid.New().String()
		}
		level = current
		return uc.apply(ctx, current, input.QuantityChange, movementSpec{
			kind:    dto.MovementAdjustment,
			refType: dto.ReferenceManual,
			refID:   ref,
			notes:   input.Reason,
			user:    input.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("stock adjusted",
		zap.String("product_id", level.ProductID),
		zap.Int("change", input.QuantityChange),
		zap.Int("quantity", level.StockQuantity),
	)
	return level, nil
}

func (uc *inventoryUseCase) ReduceForOrder(ctx context.Context, o *model.Order) error {
	// Lines of the same product with different variations are one reduction.
	quantities := map[string]int{}
	var order []string
	for _, item := range o.Items {
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	var failed []string
	for _, productID := range order {
		if err := uc.reduce(ctx, o, productID, quantities[productID]); err != nil {
			uc.logger.Error("failed to reduce stock for order item",
				zap.String("order_id", o.ID),
				zap.String("product_id", productID),
				zap.Error(err),
			)
			failed = append(failed, productID)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("reduce stock for order %s: %d of %d products failed", o.OrderNumber, len(failed), len(order))
	}
	return nil
}

// reduce takes qty off one product. The order is already placed, so a
// shortfall empties the stock instead of failing.
func (uc *inventoryUseCase) reduce(ctx context.Context, o *model.Order, productID string, qty int) error {
	return uc.withLock(ctx, productID, func() error {
		current, err := uc.repo.GetStock(ctx, productID)
		if err != nil {
			return err
		}
		if current == nil || !current.StockControl || !current.AutoStockReduction {
			return nil
		}

		done, err := uc.repo.HasMovement(ctx, productID, dto.ReferenceOrder, o.ID)
		if err != nil {
			return err
		}
		if done {
			uc.logger.Debug("stock already reduced for order", zap.String("order_id", o.ID), zap.String("product_id", productID))
			return nil
		}

		change := -qty
		if current.StockQuantity < qty {
			uc.logger.Warn("order exceeds available stock",
				zap.String("order_id", o.ID),
				zap.String("product_id", productID),
				zap.Int("ordered", qty),
				zap.Int("available", current.StockQuantity),
			)
			change = -current.StockQuantity
		}
		return uc.apply(ctx, current, change, movementSpec{
			kind:    dto.MovementSale,
			refType: dto.ReferenceOrder,
			refID:   o.ID,
			notes:   "Pedido " + o.OrderNumber,
		})
	})
}

type movementSpec struct {
	kind    string
	refType string
	refID   string
	notes   string
	user    string
}

// apply updates level in place and stores it with its movement.
func (uc *inventoryUseCase) apply(ctx context.Context, level *model.StockLevel, change int, spec movementSpec) error {
	now := time.Now()
	before := level.StockQuantity
	level.StockQuantity += change
	level.UpdatedAt = now

	movement := &model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      level.ProductID,
		MovementType:   spec.kind,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  level.StockQuantity,
		ReferenceType:  &spec.refType,
		ReferenceID:    &spec.refID,
		Notes:          spec.notes,
		CreatedAt:      now,
	}
	if spec.user != "" {
		movement.CreatedBy = &spec.user
	}

	if err := uc.repo.AdjustStockWithMovement(ctx, level, movement); err != nil {
		level.StockQuantity = before
		return err
	}
	go uc.invalidateProductCache(context.Background())
	return nil
}

// withLock runs fn while holding the product's stock lock.
func (uc *inventoryUseCase) withLock(ctx context.Context, productID string, fn func() error) error {
	lockKey := fmt.Sprintf("lock:stock:%s", productID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire stock lock", zap.String("product_id", productID), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		if i < lockAttempts-1 {
			time.Sleep(lockBackoff)
		}
	}
	if !acquired {
		return inventory.ErrStockBusy
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release stock lock", zap.String("product_id", productID), zap.Error(err))
		}
	}()

	return fn()
}

func (uc *inventoryUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, productListPattern); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func normalizePage(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = 20
	}
	if *pageSize > 100 {
		*pageSize = 100
	}
}
