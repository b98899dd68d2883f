package checkout

import (
	"errors"

	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
)

var (
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrDeliveryOptionRequired    = errors.New("delivery option required")
	ErrNeighborhoodRequired      = errors.New("neighborhood required")
	ErrInvalidDeliveryOption     = errors.New("invalid delivery option")
	ErrDeliveryOptionUnavailable = errors.New("delivery option not enabled")
	ErrUnknownNeighborhood       = errors.New("unknown neighborhood")
	ErrNotAtCustomerInfo         = errors.New("checkout is not at the customer info step")
	ErrSubmitInProgress          = errors.New("order submission already in progress")
	ErrContactNotConfigured      = errors.New("store whatsapp number not configured")
	ErrOrderNotSaved             = errors.New("order could not be saved")
	ErrHandoffFailed             = errors.New("whatsapp handoff failed")
)

// ValidationError carries one message id per offending customer field.
type ValidationError = validation.Error
