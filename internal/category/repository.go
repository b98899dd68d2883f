package category

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	Update(ctx context.Context, category *model.Category) error
	// Delete removes the category; its products stay, uncategorised.
	Delete(ctx context.Context, id string) error
	NextSortOrder(ctx context.Context) (int, error)
	// Reorder sets sort_order to each id's position. It reports false when
	// any id is unknown, in which case nothing changes.
	Reorder(ctx context.Context, ids []string) (bool, error)
}
