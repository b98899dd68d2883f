package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// Store persists one cart per storefront session. Last write wins.
type Store interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	Save(ctx context.Context, sessionID string, cart model.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
