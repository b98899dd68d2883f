package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

const settingsColumns = `id, store_name, description, logo_url, banner_url, primary_color, secondary_color,
	whatsapp_number, social_links, contact_info, delivery_settings, store_config, created_at, updated_at`

// settingsRow is the store_settings layout. Nested sections are JSONB.
type settingsRow struct {
	ID               string         `db:"id"`
	StoreName        string         `db:"store_name"`
	Description      *string        `db:"description"`
	LogoURL          *string        `db:"logo_url"`
	BannerURL        *string        `db:"banner_url"`
	PrimaryColor     string         `db:"primary_color"`
	SecondaryColor   string         `db:"secondary_color"`
	WhatsAppNumber   *string        `db:"whatsapp_number"`
	SocialLinks      types.JSONText `db:"social_links"`
	ContactInfo      types.JSONText `db:"contact_info"`
	DeliverySettings types.JSONText `db:"delivery_settings"`
	StoreConfig      types.JSONText `db:"store_config"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Find(ctx context.Context, id string) (*model.StoreSettings, error) {
	var row settingsRow
	query := `SELECT ` + settingsColumns + ` FROM store_settings WHERE id = $1 LIMIT 1`
	if err := r.DB.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

// Save inserts the row the first time and overwrites it afterwards.
func (r *PGRepository) Save(ctx context.Context, s *model.StoreSettings) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO store_settings (
            id, store_name, description, logo_url, banner_url, primary_color, secondary_color,
            whatsapp_number, social_links, contact_info, delivery_settings, store_config, created_at, updated_at
        )
        VALUES (
            :id, :store_name, :description, :logo_url, :banner_url, :primary_color, :secondary_color,
            :whatsapp_number, :social_links, :contact_info, :delivery_settings, :store_config, :created_at, :updated_at
        )
        ON CONFLICT (id) DO UPDATE SET
            store_name = EXCLUDED.store_name,
            description = EXCLUDED.description,
            logo_url = EXCLUDED.logo_url,
            banner_url = EXCLUDED.banner_url,
            primary_color = EXCLUDED.primary_color,
            secondary_color = EXCLUDED.secondary_color,
            whatsapp_number = EXCLUDED.whatsapp_number,
            social_links = EXCLUDED.social_links,
            contact_info = EXCLUDED.contact_info,
            delivery_settings = EXCLUDED.delivery_settings,
            store_config = EXCLUDED.store_config,
            updated_at = EXCLUDED.updated_at
    `
	_, err = r.DB.NamedExecContext(ctx, query, row)
	return err
}

func toRow(s *model.StoreSettings) (*settingsRow, error) {
	links := s.SocialLinks
	if links == nil {
		links = []model.SocialLink{}
	}

	row := &settingsRow{
		ID:             s.ID,
		StoreName:      s.StoreName,
		Description:    s.Description,
		LogoURL:        s.LogoURL,
		BannerURL:      s.BannerURL,
		PrimaryColor:   s.PrimaryColor,
		SecondaryColor: s.SecondaryColor,
		WhatsAppNumber: s.WhatsAppNumber,
	}
	sections := []struct {
		name string
		v    interface{}
		dst  *types.JSONText
	}{
		{"social links", links, &row.SocialLinks},
		{"contact info", s.ContactInfo, &row.ContactInfo},
		{"delivery settings", s.DeliverySettings, &row.DeliverySettings},
		{"store config", s.StoreConfig, &row.StoreConfig},
	}
	for _, sec := range sections {
		b, err := json.Marshal(sec.v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", sec.name, err)
		}
		*sec.dst = types.JSONText(b)
	}

	now := time.Now()
	row.CreatedAt, row.UpdatedAt = now, now
	if s.CreatedAt != nil {
		row.CreatedAt = *s.CreatedAt
	}
	if s.UpdatedAt != nil {
		row.UpdatedAt = *s.UpdatedAt
	}
	return row, nil
}

func (r *settingsRow) toModel() (*model.StoreSettings, error) {
	s := &model.StoreSettings{
		ID:             r.ID,
		StoreName:      r.StoreName,
		Description:    r.Description,
		LogoURL:        r.LogoURL,
		BannerURL:      r.BannerURL,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		WhatsAppNumber: r.WhatsAppNumber,
		CreatedAt:      &r.CreatedAt,
		UpdatedAt:      &r.UpdatedAt,
		// Sections missing from older rows keep their defaults.
		DeliverySettings: model.DefaultDeliverySettings(),
		StoreConfig:      model.DefaultStoreConfig(),
	}

	sections := []struct {
		name string
		src  types.JSONText
		dst  interface{}
	}{
		{"social links", r.SocialLinks, &s.SocialLinks},
		{"contact info", r.ContactInfo, &s.ContactInfo},
		{"delivery settings", r.DeliverySettings, &s.DeliverySettings},
		{"store config", r.StoreConfig, &s.StoreConfig},
	}
	for _, sec := range sections {
		if len(sec.src) == 0 {
			continue
		}
		if err := sec.src.Unmarshal(sec.dst); err != nil {
			return nil, fmt.Errorf("decode %s of settings %s: %w", sec.name, r.ID, err)
		}
	}
	if s.SocialLinks == nil {
		s.SocialLinks = []model.SocialLink{}
	}
	return s, nil
}
