package checkout

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	GetCheckout(ctx context.Context, sessionID string) (*View, error)
	Next(ctx context.Context, sessionID string) (*View, error)
	Back(ctx context.Context, sessionID string) (*View, error)
	SelectDelivery(ctx context.Context, sessionID string, t model.DeliveryType) (*View, error)
	SelectNeighborhood(ctx context.Context, sessionID, neighborhoodID string) (*View, error)
	UpdateForm(ctx context.Context, sessionID string, form CustomerForm) (*View, error)
	// Submit places the order. A nil form submits the stored form.
	Submit(ctx context.Context, sessionID string, form *CustomerForm) (*Receipt, error)
}

type CartStore interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

type SettingsReader interface {
	GetSettings(ctx context.Context) (*model.StoreSettings, error)
}

// OrderWriter stores orders. CreateOrder is called exactly once per
// successful submission.
type OrderWriter interface {
	CreateOrder(ctx context.Context, o *model.Order) error
	MarkWhatsAppSent(ctx context.Context, id string) error
}

// Handoff hands a formatted message to the store's chat contact and returns
// the link the customer follows.
type Handoff interface {
	Handoff(ctx context.Context, contact, message string) (string, error)
}

type NumberGenerator interface {
	Next(prefix string) string
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
