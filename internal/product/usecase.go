package product

import (
	"context"
	"io"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/search"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	LookupProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*model.Product, error)
	GetCatalog(ctx context.Context) (*model.Catalog, error)
	ExportProducts(ctx context.Context, w io.Writer) error

	// Image ops
	AddImage(ctx context.Context, input *dto.ImageInput) (*model.ProductImage, error)
	UpdateImage(ctx context.Context, input *dto.ImageInput) (*model.ProductImage, error)
	RemoveImage(ctx context.Context, productID, imageID string) error
	ReorderImages(ctx context.Context, productID string, ids []string) error
	SetMainImage(ctx context.Context, productID, imageID string) error

	// Variation ops
	AddVariationGroup(ctx context.Context, input *dto.GroupInput) (*model.VariationGroup, error)
	UpdateVariationGroup(ctx context.Context, input *dto.GroupInput) (*model.VariationGroup, error)
	RemoveVariationGroup(ctx context.Context, productID, groupID string) error
	AddVariationOption(ctx context.Context, input *dto.OptionInput) (*model.VariationOption, error)
	UpdateVariationOption(ctx context.Context, input *dto.OptionInput) (*model.VariationOption, error)
	RemoveVariationOption(ctx context.Context, productID, groupID, optionID string) error
}

type CategoryReader interface {
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListActive(ctx context.Context) ([]model.Category, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

type Searcher interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}
