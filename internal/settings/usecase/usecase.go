package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/settings"
	"github.com/fekuna/omnipos-storefront-service/internal/settings/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const snapshotKey = "storefront:settings"

var validate = validation.New()

type settingsUseCase struct {
	repo     settings.Repository
	snapshot settings.Snapshot
	id       string
	logger   logger.ZapLogger
}

// NewSettingsUseCase serves the store settings row identified by id.
// snapshot may be nil.
func NewSettingsUseCase(repo settings.Repository, snapshot settings.Snapshot, id string, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:     repo,
		snapshot: snapshot,
		id:       id,
		logger:   log,
	}
}

// GetSettings never fails: a database error falls back to the last
// snapshot and then to the built-in defaults.
func (uc *settingsUseCase) GetSettings(ctx context.Context) (*model.StoreSettings, error) {
	s, err := uc.repo.Find(ctx, uc.id)
	if err == nil {
		if s == nil {
			return model.DefaultStoreSettings(uc.id), nil
		}
		uc.remember(ctx, s)
		return s, nil
	}

	uc.logger.Warn("failed to load store settings", zap.Error(err))
	if uc.snapshot != nil {
		var cached model.StoreSettings
		serr := uc.snapshot.GetJSON(ctx, snapshotKey, &cached)
		if serr == nil {
			return &cached, nil
		}
		if !errors.Is(serr, cache.ErrCacheMiss) {
			uc.logger.Warn("failed to read settings snapshot", zap.Error(serr))
		}
	}
	return model.DefaultStoreSettings(uc.id), nil
}

func (uc *settingsUseCase) UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (*model.StoreSettings, error) {
	return uc.mutate(ctx, func(s *model.StoreSettings) error {
		if input.StoreName != nil {
			s.StoreName = strings.TrimSpace(*input.StoreName)
		}
		if input.Description != nil {
			s.Description = input.Description
		}
		if input.LogoURL != nil {
			s.LogoURL = input.LogoURL
		}
		if input.BannerURL != nil {
			s.BannerURL = input.BannerURL
		}
		if input.PrimaryColor != nil {
			s.PrimaryColor = strings.TrimSpace(*input.PrimaryColor)
		}
		if input.SecondaryColor != nil {
			s.SecondaryColor = strings.TrimSpace(*input.SecondaryColor)
		}
		if input.WhatsAppNumber != nil {
			s.WhatsAppNumber = input.WhatsAppNumber
		}
		if input.SocialLinks != nil {
			s.SocialLinks = make([]model.SocialLink, 0, len(input.SocialLinks))
			for _, l := range input.SocialLinks {
				s.SocialLinks = append(s.SocialLinks, newSocialLink(uuid.New().String(), l))
			}
		}
		if input.ContactInfo != nil {
			s.ContactInfo = *input.ContactInfo
		}
		if input.DeliverySettings != nil {
			input.DeliverySettings.Apply(&s.DeliverySettings)
		}
		if input.StoreConfig != nil {
			s.StoreConfig = *input.StoreConfig
		}
		return nil
	})
}

func (uc *settingsUseCase) UpdateDeliverySettings(ctx context.Context, input *dto.DeliverySettingsInput) (*model.StoreSettings, error) {
	return uc.mutate(ctx, func(s *model.StoreSettings) error {
		input.Apply(&s.DeliverySettings)
		return nil
	})
}

func (uc *settingsUseCase) UpdateStoreConfig(ctx context.Context, cfg model.StoreConfig) (*model.StoreSettings, error) {
	return uc.mutate(ctx, func(s *model.StoreSettings) error {
		cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
		s.StoreConfig = cfg
		return nil
	})
}

// AddNeighborhood also turns neighborhood delivery on.
func (uc *settingsUseCase) AddNeighborhood(ctx context.Context, input dto.NeighborhoodInput) (*model.Neighborhood, error) {
	n := model.Neighborhood{ID: uuid.New().String(), Name: strings.TrimSpace(input.Name), Fee: input.Fee}
	_, err := uc.mutate(ctx, func(s *model.StoreSettings) error {
		rates := &s.DeliverySettings.NeighborhoodRates
		rates.Neighborhoods = append(rates.Neighborhoods, n)
		rates.Enabled = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (uc *settingsUseCase) UpdateNeighborhood(ctx context.Context, id string, input dto.NeighborhoodInput) (*model.Neighborhood, error) {
	var updated model.Neighborhood
	_, err := uc.mutate(ctx, func(s *model.StoreSettings) error {
		n := s.DeliverySettings.FindNeighborhood(id)
		if n == nil {
			return settings.ErrNeighborhoodNotFound
		}
		n.Name = strings.TrimSpace(input.Name)
		n.Fee = input.Fee
		updated = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *settingsUseCase) RemoveNeighborhood(ctx context.Context, id string) error {
	_, err := uc.mutate(ctx, func(s *model.StoreSettings) error {
		list := s.DeliverySettings.NeighborhoodRates.Neighborhoods
		for i := range list {
			if list[i].ID == id {
				s.DeliverySettings.NeighborhoodRates.Neighborhoods = append(list[:i:i], list[i+1:]...)
				return nil
			}
		}
		return settings.ErrNeighborhoodNotFound
	})
	return err
}

func (uc *settingsUseCase) AddSocialLink(ctx context.Context, input dto.SocialLinkInput) (*model.SocialLink, error) {
	link := newSocialLink(uuid.New().String(), input)
	_, err := uc.mutate(ctx, func(s *model.StoreSettings) error {
		s.SocialLinks = append(s.SocialLinks, link)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (uc *settingsUseCase) UpdateSocialLink(ctx context.Context, id string, input dto.SocialLinkInput) (*model.SocialLink, error) {
	var updated model.SocialLink
	_, err := uc.mutate(ctx, func(s *model.StoreSettings) error {
		for i := range s.SocialLinks {
			if s.SocialLinks[i].ID == id {
				s.SocialLinks[i] = newSocialLink(id, input)
				updated = s.SocialLinks[i]
				return nil
			}
		}
		return settings.ErrSocialLinkNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *settingsUseCase) RemoveSocialLink(ctx context.Context, id string) error {
	_, err := uc.mutate(ctx, func(s *model.StoreSettings) error {
		for i := range s.SocialLinks {
			if s.SocialLinks[i].ID == id {
				s.SocialLinks = append(s.SocialLinks[:i:i], s.SocialLinks[i+1:]...)
				return nil
			}
		}
		return settings.ErrSocialLinkNotFound
	})
	return err
}

// mutate loads the stored row (or the defaults before the first save),
// applies fn, validates the result and writes it back. Writes do not fall
// back to the snapshot.
func (uc *settingsUseCase) mutate(ctx context.Context, fn func(*model.StoreSettings) error) (*model.StoreSettings, error) {
	s, err := uc.repo.Find(ctx, uc.id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = model.DefaultStoreSettings(uc.id)
	}

	if err := fn(s); err != nil {
		return nil, err
	}
	normalize(s)
	if err := validation.Struct(validate, s, nil); err != nil {
		return nil, err
	}

	now := time.Now()
	if s.CreatedAt == nil {
		s.CreatedAt = &now
	}
	s.UpdatedAt = &now

	if err := uc.repo.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.logger.Info("store settings updated", zap.String("settings_id", s.ID))
	uc.remember(ctx, s)
	return s, nil
}

func (uc *settingsUseCase) remember(ctx context.Context, s *model.StoreSettings) {
	if uc.snapshot == nil {
		return
	}
	if err := uc.snapshot.SetJSON(ctx, snapshotKey, s, 0); err != nil {
		uc.logger.Warn("failed to store settings snapshot", zap.Error(err))
	}
}

func newSocialLink(id string, in dto.SocialLinkInput) model.SocialLink {
	return model.SocialLink{ID: id, Name: strings.TrimSpace(in.Name), URL: strings.TrimSpace(in.URL)}
}

// normalize turns blank optional text into nil so that it is stored as NULL
// and skipped by validation.
func normalize(s *model.StoreSettings) {
	s.Description = trimmed(s.Description)
	s.LogoURL = trimmed(s.LogoURL)
	s.BannerURL = trimmed(s.BannerURL)
	s.WhatsAppNumber = trimmed(s.WhatsAppNumber)
	s.ContactInfo.Phone = trimmed(s.ContactInfo.Phone)
	s.ContactInfo.Email = trimmed(s.ContactInfo.Email)
	if s.SocialLinks == nil {
		s.SocialLinks = []model.SocialLink{}
	}
	if s.DeliverySettings.NeighborhoodRates.Neighborhoods == nil {
		s.DeliverySettings.NeighborhoodRates.Neighborhoods = []model.Neighborhood{}
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
