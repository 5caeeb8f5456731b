package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

// siteConfigRepository is the subset of store.SiteConfigStore that
// ConfigService requires.
type siteConfigRepository interface {
	Latest(ctx context.Context) (*domain.SiteConfig, error)
	ListNewestFirst(ctx context.Context) ([]*domain.SiteConfig, error)
	Save(ctx context.Context, cfg *domain.SiteConfig) (*domain.SiteConfig, error)
	DeleteExcept(ctx context.Context, keepID string) (int64, error)
}

// ConfigService resolves the single logical site configuration even when
// legacy duplicate rows exist.
type ConfigService struct {
	store  siteConfigRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewConfigService(store siteConfigRepository, logger *slog.Logger) *ConfigService {
	return &ConfigService{store: store, logger: logger, now: time.Now}
}

// Read returns the most recently updated configuration, or the defaults when
// none is stored or the store cannot be read. It never fails.
func (s *ConfigService) Read(ctx context.Context) *domain.SiteConfig {
	cfg, err := s.store.Latest(ctx)
	if err != nil {
		s.logger.Warn("site config read failed, serving defaults", "error", err)
	}
	if cfg == nil {
		def := domain.DefaultSiteConfig()
		return &def
	}
	return cfg
}

// Write merges patch into the current configuration and saves it. Omitted
// fields keep their stored values and new banners are appended to the
// existing ones. A concurrent write is reported as store.ErrConfigConflict.
// When the read fails the write is attempted as an insert, which also
// conflicts if a row already exists.
func (s *ConfigService) Write(ctx context.Context, patch domain.SiteConfigPatch) (*domain.SiteConfig, error) {
	existing, err := s.store.Latest(ctx)
	if err != nil {
		s.logger.Warn("site config read before write failed, writing a new row", "error", err)
		existing = nil
	}

	base := domain.DefaultSiteConfig()
	if existing != nil {
		base = *existing
	}

	merged := patch.Apply(base)
	merged.BannerImages = domain.MergeBanners(base.BannerImages, patch.BannerImages)
	merged.UpdatedAt = s.now().UTC()
	if existing == nil {
		merged.ID = ""
		merged.Version = 0
	}

	saved, err := s.store.Save(ctx, &merged)
	if err != nil {
		s.logger.Error("site config write failed", "id", merged.ID, "version", merged.Version, "error", err)
		return nil, err
	}
	s.logger.Info("site config saved", "id", saved.ID, "version", saved.Version, "banners", len(saved.BannerImages))
	return saved, nil
}

// CleanupResult reports what Cleanup did. Kept is nil when nothing is stored.
type CleanupResult struct {
	Removed int64
	Kept    *domain.SiteConfig
}

// Cleanup deletes every configuration row except the most recent one.
func (s *ConfigService) Cleanup(ctx context.Context) (CleanupResult, error) {
	rows, err := s.store.ListNewestFirst(ctx)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("failed to list site configs: %w", err)
	}
	if len(rows) == 0 {
		return CleanupResult{}, nil
	}
	if len(rows) == 1 {
		return CleanupResult{Kept: rows[0]}, nil
	}

	n, err := s.store.DeleteExcept(ctx, rows[0].ID)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("failed to remove duplicate site configs: %w", err)
	}
	s.logger.Info("duplicate site configs removed", "removed", n, "kept_id", rows[0].ID)
	return CleanupResult{Removed: n, Kept: rows[0]}, nil
}

// All returns every stored configuration row, newest first.
func (s *ConfigService) All(ctx context.Context) ([]*domain.SiteConfig, error) {
	return s.store.ListNewestFirst(ctx)
}
