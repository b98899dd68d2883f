package product

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	// Update leaves stock_quantity alone; stock only moves through inventory.
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	AddImage(ctx context.Context, image *model.ProductImage) error
	UpdateImage(ctx context.Context, image *model.ProductImage) error
	DeleteImage(ctx context.Context, id string) error
	NextImageOrder(ctx context.Context, productID string) (int, error)
	ReorderImages(ctx context.Context, productID string, ids []string) (bool, error)
	SetMainImage(ctx context.Context, productID, imageID string) (bool, error)

	AddGroup(ctx context.Context, group *model.VariationGroup) error
	UpdateGroup(ctx context.Context, group *model.VariationGroup) error
	DeleteGroup(ctx context.Context, id string) error

	AddOption(ctx context.Context, option *model.VariationOption) error
	UpdateOption(ctx context.Context, option *model.VariationOption) error
	DeleteOption(ctx context.Context, id string) error
}
