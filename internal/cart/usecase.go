package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	GetCart(ctx context.Context, sessionID string) (*model.Cart, error)
	AddItem(ctx context.Context, input *dto.AddItemInput) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*model.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// ProductReader is the catalog lookup the cart needs to snapshot a product.
// A missing product is reported as nil without an error.
type ProductReader interface {
	LookupProduct(ctx context.Context, id string) (*model.Product, error)
}

type SettingsReader interface {
	GetSettings(ctx context.Context) (*model.StoreSettings, error)
}
