package settings

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/settings/dto"
)

type UseCase interface {
	GetSettings(ctx context.Context) (*model.StoreSettings, error)
	UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (*model.StoreSettings, error)
	UpdateDeliverySettings(ctx context.Context, input *dto.DeliverySettingsInput) (*model.StoreSettings, error)
	UpdateStoreConfig(ctx context.Context, cfg model.StoreConfig) (*model.StoreSettings, error)

	AddNeighborhood(ctx context.Context, input dto.NeighborhoodInput) (*model.Neighborhood, error)
	UpdateNeighborhood(ctx context.Context, id string, input dto.NeighborhoodInput) (*model.Neighborhood, error)
	RemoveNeighborhood(ctx context.Context, id string) error

	AddSocialLink(ctx context.Context, input dto.SocialLinkInput) (*model.SocialLink, error)
	UpdateSocialLink(ctx context.Context, id string, input dto.SocialLinkInput) (*model.SocialLink, error)
	RemoveSocialLink(ctx context.Context, id string) error
}

// Snapshot keeps the last settings that were read or written so the
// storefront keeps working while the database is down.
type Snapshot interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}
