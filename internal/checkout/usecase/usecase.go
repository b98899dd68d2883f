package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/order"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const submitLockTTL = 30 * time.Second

type checkoutUseCase struct {
	states   checkout.StateStore
	carts    checkout.CartStore
	settings checkout.SettingsReader
	orders   checkout.OrderWriter
	handoff  checkout.Handoff
	numbers  checkout.NumberGenerator
	locker   checkout.Locker
	logger   logger.ZapLogger

	inflight sync.Map
	now      func() time.Time
}

func NewCheckoutUseCase(
	states checkout.StateStore,
	carts checkout.CartStore,
	settings checkout.SettingsReader,
	orders checkout.OrderWriter,
	handoff checkout.Handoff,
	numbers checkout.NumberGenerator,
	locker checkout.Locker,
	log logger.ZapLogger,
) checkout.UseCase {
	return &checkoutUseCase{
		states:   states,
		carts:    carts,
		settings: settings,
		orders:   orders,
		handoff:  handoff,
		numbers:  numbers,
		locker:   locker,
		logger:   log,
		now:      time.Now,
	}
}

// session is one loaded checkout: the engine plus the settings it was built on.
type session struct {
	id       string
	co       *checkout.Checkout
	settings *model.StoreSettings
}

func (uc *checkoutUseCase) load(ctx context.Context, sessionID string) (*session, error) {
	settings, err := uc.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	c, err := uc.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st, err := uc.states.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := checkout.NewState(settings.DeliverySettings)
	if st != nil {
		state = *st
	}
	return &session{
		id:       sessionID,
		co:       checkout.New(state, c, settings.DeliverySettings),
		settings: settings,
	}, nil
}

func (uc *checkoutUseCase) save(ctx context.Context, s *session) error {
	return uc.states.Save(ctx, s.id, s.co.State())
}

// mutate loads the session, applies fn and persists the resulting state.
// When fn fails with keep set, the state is still saved (used where a
// failed step also changes state).
func (uc *checkoutUseCase) mutate(ctx context.Context, sessionID string, fn func(*checkout.Checkout) (keep bool, err error)) (*checkout.View, error) {
	s, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	keep, opErr := fn(s.co)
	if opErr != nil && !keep {
		return nil, opErr
	}
	if err := uc.save(ctx, s); err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}
	return s.co.View(), nil
}

func (uc *checkoutUseCase) GetCheckout(ctx context.Context, sessionID string) (*checkout.View, error) {
	s, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.co.View(), nil
}

func (uc *checkoutUseCase) Next(ctx context.Context, sessionID string) (*checkout.View, error) {
	return uc.mutate(ctx, sessionID, func(co *checkout.Checkout) (bool, error) {
		return false, co.Next()
	})
}

func (uc *checkoutUseCase) Back(ctx context.Context, sessionID string) (*checkout.View, error) {
	return uc.mutate(ctx, sessionID, func(co *checkout.Checkout) (bool, error) {
		co.Back()
		return false, nil
	})
}

func (uc *checkoutUseCase) SelectDelivery(ctx context.Context, sessionID string, t model.DeliveryType) (*checkout.View, error) {
	return uc.mutate(ctx, sessionID, func(co *checkout.Checkout) (bool, error) {
		return false, co.SelectDelivery(t)
	})
}

func (uc *checkoutUseCase) SelectNeighborhood(ctx context.Context, sessionID, neighborhoodID string) (*checkout.View, error) {
	return uc.mutate(ctx, sessionID, func(co *checkout.Checkout) (bool, error) {
		err := co.SelectNeighborhood(neighborhoodID)
		// an unknown neighborhood clears the previous choice, which must stick
		return errors.Is(err, checkout.ErrUnknownNeighborhood), err
	})
}

func (uc *checkoutUseCase) UpdateForm(ctx context.Context, sessionID string, form checkout.CustomerForm) (*checkout.View, error) {
	return uc.mutate(ctx, sessionID, func(co *checkout.Checkout) (bool, error) {
		co.UpdateForm(form)
		return false, nil
	})
}

// Submit runs the whole order placement. Concurrent submissions for the same
// session are rejected with ErrSubmitInProgress, in process and across
// replicas.
func (uc *checkoutUseCase) Submit(ctx context.Context, sessionID string, form *checkout.CustomerForm) (*checkout.Receipt, error) {
	if _, busy := uc.inflight.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, checkout.ErrSubmitInProgress
	}
	defer uc.inflight.Delete(sessionID)

	lockKey := "lock:checkout:" + sessionID
	lockValue := uuid.New().String()
	acquired, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, submitLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !acquired {
		return nil, checkout.ErrSubmitInProgress
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release submit lock", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	s, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	co := s.co

	if co.Step() != checkout.StepCustomerInfo {
		return nil, checkout.ErrNotAtCustomerInfo
	}
	if form != nil {
		co.UpdateForm(*form)
		// keep what was typed even if validation rejects it
		if err := uc.save(ctx, s); err != nil {
			return nil, err
		}
	}
	if len(co.View().Cart.Items) == 0 {
		return nil, checkout.ErrEmptyCart
	}

	if err := co.Validate(); err != nil {
		return nil, err
	}
	if !s.settings.DeliverySettings.Enabled(co.State().DeliveryType) {
		return nil, checkout.ErrDeliveryOptionUnavailable
	}

	var rawContact string
	if s.settings.WhatsAppNumber != nil {
		rawContact = *s.settings.WhatsAppNumber
	}
	contact, ok := order.ContactDigits(rawContact)
	if !ok {
		return nil, checkout.ErrContactNotConfigured
	}

	cfg := s.settings.StoreConfig
	o := co.BuildOrder(uuid.New().String(), uc.numbers.Next(cfg.OrderNumberPrefix), cfg.CurrencySymbol, uc.now())

	if err := uc.orders.CreateOrder(ctx, o); err != nil {
		uc.logger.Error("failed to save order",
			zap.String("session_id", sessionID),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", checkout.ErrOrderNotSaved, err)
	}

	msg := order.FormatMessage(s.settings.StoreName, cfg.CurrencySymbol, o)
	link, err := uc.handoff.Handoff(ctx, contact, msg)
	if err != nil {
		uc.logger.Error("whatsapp handoff failed",
			zap.String("order_id", o.ID),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
		return &checkout.Receipt{Order: o}, fmt.Errorf("%w: %v", checkout.ErrHandoffFailed, err)
	}

	if err := uc.orders.MarkWhatsAppSent(ctx, o.ID); err != nil {
		uc.logger.Warn("failed to mark order as sent", zap.String("order_id", o.ID), zap.Error(err))
	} else {
		o.WhatsAppSent = true
	}

	if err := uc.carts.Delete(ctx, sessionID); err != nil {
		uc.logger.Error("failed to clear cart after order", zap.String("session_id", sessionID), zap.Error(err))
	}
	co.Reset()
	if err := uc.save(ctx, s); err != nil {
		uc.logger.Error("failed to reset checkout after order", zap.String("session_id", sessionID), zap.Error(err))
	}

	uc.logger.Info("order submitted",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return &checkout.Receipt{Order: o, HandoffURL: link}, nil
}
