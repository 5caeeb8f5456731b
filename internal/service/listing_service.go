package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/upload"
)

// listingRepository is the subset of store.ListingStore that ListingService
// requires.
type listingRepository interface {
	Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context) ([]*domain.Listing, error)
	Update(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id string) error
}

// ListingInput carries the editable fields of a listing.
type ListingInput struct {
	Type        domain.ListingType
	Title       string
	Description string
	Price       string
	Location    string
	Bedrooms    domain.Count
	Bathrooms   domain.Count
	Garage      domain.Count
	Area        string
	Pool        bool
}

func (in ListingInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown listing type %q", ErrValidation, in.Type)
	}
	return nil
}

func (in ListingInput) listing(id string) *domain.Listing {
	return &domain.Listing{
		ID:          id,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       strings.TrimSpace(in.Price),
		Location:    strings.TrimSpace(in.Location),
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Garage:      in.Garage,
		Area:        strings.TrimSpace(in.Area),
		Pool:        in.Pool,
	}
}

// SaveResult is a saved listing plus the outcome of its photo uploads.
type SaveResult struct {
	Listing *domain.Listing
	Upload  upload.BatchResult
}

type ListingService struct {
	store    listingRepository
	uploader *upload.Uploader
	logger   *slog.Logger
}

func NewListingService(store listingRepository, uploader *upload.Uploader, logger *slog.Logger) *ListingService {
	return &ListingService{store: store, uploader: uploader, logger: logger}
}

func (s *ListingService) List(ctx context.Context) ([]*domain.Listing, error) {
	return s.store.List(ctx)
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	return l, nil
}

// Create stores the photos under a fresh listing ID and then inserts the row.
// Photos that fail to upload are reported, not fatal. If the insert fails
// the uploaded photos are removed again.
func (s *ListingService) Create(ctx context.Context, in ListingInput, files []upload.File) (*SaveResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	id := domain.NewID()
	res := s.uploader.Apply(ctx, upload.ListingNamespace(id), nil, nil, files)

	l := in.listing(id)
	l.ImageURLs = res.ImageURLs
	created, err := s.store.Create(ctx, l)
	if err != nil {
		s.discardUploads(ctx, id, res.Upload.URLs)
		return nil, err
	}

	s.logger.Info("listing created", "listing_id", id, "type", created.Type,
		"photos", res.Upload.Succeeded, "photos_total", res.Upload.Total)
	return &SaveResult{Listing: created, Upload: res.Upload}, nil
}

// Update replaces the listing's fields and reconciles its photos: keep lists
// the stored URLs to retain in display order, files are appended after them.
// Photos no longer referenced are deleted only after the row is saved.
func (s *ListingService) Update(ctx context.Context, id string, in ListingInput, keep []string, files []upload.File) (*SaveResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}

	res := s.uploader.Apply(ctx, upload.ListingNamespace(id), existing.ImageURLs, keep, files)

	l := in.listing(id)
	l.ImageURLs = res.ImageURLs
	if err := s.store.Update(ctx, l); err != nil {
		s.discardUploads(ctx, id, res.Upload.URLs)
		return nil, err
	}

	if len(res.Removed) > 0 {
		if err := s.uploader.DeleteURLs(ctx, res.Removed); err != nil {
			s.logger.Error("failed to delete removed photos", "listing_id", id, "count", len(res.Removed), "error", err)
		}
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Deleted by a concurrent request after the update landed.
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	s.logger.Info("listing updated", "listing_id", id, "photos", len(updated.ImageURLs),
		"removed", len(res.Removed), "added", res.Upload.Succeeded)
	return &SaveResult{Listing: updated, Upload: res.Upload}, nil
}

// Delete removes the listing's photos and then the row. Photo deletion
// failures are logged and do not block the row deletion.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}

	if err := s.uploader.DeleteListing(ctx, id, existing.ImageURLs); err != nil {
		s.logger.Error("failed to delete listing photos", "listing_id", id, "error", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("listing deleted", "listing_id", id)
	return nil
}

func (s *ListingService) discardUploads(ctx context.Context, id string, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := s.uploader.DeleteURLs(ctx, urls); err != nil {
		s.logger.Error("failed to discard uploaded photos", "listing_id", id, "error", err)
	}
}
