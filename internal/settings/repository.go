package settings

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	// Find returns nil when the row has not been written yet.
	Find(ctx context.Context, id string) (*model.StoreSettings, error)
	Save(ctx context.Context, s *model.StoreSettings) error
}
