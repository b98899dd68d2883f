package inventory

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	// Stock levels live on the products table.
	GetStock(ctx context.Context, productID string) (*model.StockLevel, error)
	FindAll(ctx context.Context, filters *dto.StockFilters) ([]model.StockLevel, int, error)

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	HasMovement(ctx context.Context, productID, referenceType, referenceID string) (bool, error)

	// AdjustStockWithMovement writes the new quantity and its movement in one transaction.
	AdjustStockWithMovement(ctx context.Context, level *model.StockLevel, movement *model.StockMovement) error
}
