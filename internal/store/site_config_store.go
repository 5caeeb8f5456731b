package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

const siteConfigColumns = `id, site_name, main_color, secondary_color, text_color, logo_url,
	logo_width, logo_height, site_name_size, site_name_align, phone, company_email,
	company_address, whatsapp_link, instagram_link, facebook_link, banner_images,
	version, updated_at`

// SiteConfigStore persists the site configuration. The table is meant to hold
// a single row; writes are conditional on the version that was read so
// concurrent writers cannot create duplicates or overwrite each other.
type SiteConfigStore struct {
	db *sql.DB
}

func NewSiteConfigStore(db *sql.DB) *SiteConfigStore {
	return &SiteConfigStore{db: db}
}

// Latest returns the most recently updated row, or nil when the table is empty.
func (s *SiteConfigStore) Latest(ctx context.Context) (*domain.SiteConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+siteConfigColumns+` FROM site_config
		ORDER BY updated_at DESC, version DESC, id DESC LIMIT 1
	`)
	cfg, err := scanSiteConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site config: %w", err)
	}
	return cfg, nil
}

func (s *SiteConfigStore) GetByID(ctx context.Context, id string) (*domain.SiteConfig, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+siteConfigColumns+` FROM site_config WHERE id = ?`, id)
	cfg, err := scanSiteConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site config: %w", err)
	}
	return cfg, nil
}

// ListNewestFirst returns every stored row ordered by recency.
func (s *SiteConfigStore) ListNewestFirst(ctx context.Context) ([]*domain.SiteConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+siteConfigColumns+` FROM site_config
		ORDER BY updated_at DESC, version DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list site configs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	configs := []*domain.SiteConfig{}
	for rows.Next() {
		cfg, err := scanSiteConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site configs: %w", err)
	}

	return configs, nil
}

// Save writes cfg and returns the stored row with its new version.
//
// With an empty ID the row is inserted only if the table is empty. With an
// ID the row is updated only if its version still equals cfg.Version. In
// both cases a lost race yields ErrConfigConflict and nothing is written.
func (s *SiteConfigStore) Save(ctx context.Context, cfg *domain.SiteConfig) (*domain.SiteConfig, error) {
	banners, err := encodeURLs(cfg.BannerImages)
	if err != nil {
		return nil, err
	}
	updatedAt := cfg.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	updatedAt = updatedAt.UTC()

	id := cfg.ID
	var result sql.Result
	if id == "" {
		id = domain.NewID()
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO site_config (`+siteConfigColumns+`)
			SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?
			WHERE NOT EXISTS (SELECT 1 FROM site_config)
		`, id, cfg.SiteName, cfg.MainColor, cfg.SecondaryColor, cfg.TextColor, cfg.LogoURL,
			cfg.LogoWidth, cfg.LogoHeight, cfg.SiteNameSize, cfg.SiteNameAlign, cfg.Phone, cfg.CompanyEmail,
			cfg.CompanyAddress, cfg.WhatsappLink, cfg.InstagramLink, cfg.FacebookLink, banners, updatedAt)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE site_config SET site_name = ?, main_color = ?, secondary_color = ?, text_color = ?,
				logo_url = ?, logo_width = ?, logo_height = ?, site_name_size = ?, site_name_align = ?,
				phone = ?, company_email = ?, company_address = ?, whatsapp_link = ?, instagram_link = ?,
				facebook_link = ?, banner_images = ?, version = version + 1, updated_at = ?
			WHERE id = ? AND version = ?
		`, cfg.SiteName, cfg.MainColor, cfg.SecondaryColor, cfg.TextColor,
			cfg.LogoURL, cfg.LogoWidth, cfg.LogoHeight, cfg.SiteNameSize, cfg.SiteNameAlign,
			cfg.Phone, cfg.CompanyEmail, cfg.CompanyAddress, cfg.WhatsappLink, cfg.InstagramLink,
			cfg.FacebookLink, banners, updatedAt, id, cfg.Version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save site config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrConfigConflict
	}

	return s.GetByID(ctx, id)
}

// DeleteExcept removes every row other than keepID and reports how many were
// removed.
func (s *SiteConfigStore) DeleteExcept(ctx context.Context, keepID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM site_config WHERE id <> ?`, keepID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete site configs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func scanSiteConfig(row rowScanner) (*domain.SiteConfig, error) {
	cfg := &domain.SiteConfig{}
	var banners string
	err := row.Scan(&cfg.ID, &cfg.SiteName, &cfg.MainColor, &cfg.SecondaryColor, &cfg.TextColor, &cfg.LogoURL,
		&cfg.LogoWidth, &cfg.LogoHeight, &cfg.SiteNameSize, &cfg.SiteNameAlign, &cfg.Phone, &cfg.CompanyEmail,
		&cfg.CompanyAddress, &cfg.WhatsappLink, &cfg.InstagramLink, &cfg.FacebookLink, &banners,
		&cfg.Version, &cfg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cfg.BannerImages, err = decodeURLs(banners); err != nil {
		return nil, err
	}
	return cfg, nil
}
