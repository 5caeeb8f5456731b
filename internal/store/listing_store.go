package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

const listingColumns = `id, type, title, description, price, location, bedrooms, bathrooms,
	garage, area, pool, image_urls, created_at, updated_at`

type ListingStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{db: db, now: time.Now}
}

// Create inserts l, assigning an ID when it has none, and returns the stored row.
func (s *ListingStore) Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	id := l.ID
	if id == "" {
		id = domain.NewID()
	}
	urls, err := encodeURLs(l.ImageURLs)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, string(l.Type), l.Title, l.Description, l.Price, l.Location,
		int(l.Bedrooms), int(l.Bathrooms), int(l.Garage), l.Area, l.Pool, urls, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ListingStore) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM items WHERE id = ?`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// List returns every listing, newest first.
func (s *ListingStore) List(ctx context.Context) ([]*domain.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listingColumns+` FROM items ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	listings := []*domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// Update overwrites every mutable field of the listing identified by l.ID.
// CreatedAt is never changed.
func (s *ListingStore) Update(ctx context.Context, l *domain.Listing) error {
	urls, err := encodeURLs(l.ImageURLs)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET type = ?, title = ?, description = ?, price = ?, location = ?,
			bedrooms = ?, bathrooms = ?, garage = ?, area = ?, pool = ?, image_urls = ?, updated_at = ?
		WHERE id = ?
	`, string(l.Type), l.Title, l.Description, l.Price, l.Location,
		int(l.Bedrooms), int(l.Bathrooms), int(l.Garage), l.Area, l.Pool, urls, s.now().UTC(), l.ID)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("listing %s: %w", l.ID, ErrNotFound)
	}

	return nil
}

func (s *ListingStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}

	return nil
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	l := &domain.Listing{}
	var typ, urls string
	var bedrooms, bathrooms, garage int
	err := row.Scan(&l.ID, &typ, &l.Title, &l.Description, &l.Price, &l.Location,
		&bedrooms, &bathrooms, &garage, &l.Area, &l.Pool, &urls, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Type = domain.ListingType(typ)
	l.Bedrooms = domain.Count(bedrooms)
	l.Bathrooms = domain.Count(bathrooms)
	l.Garage = domain.Count(garage)
	if l.ImageURLs, err = decodeURLs(urls); err != nil {
		return nil, err
	}
	return l, nil
}

func encodeURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to encode urls: %w", err)
	}
	return string(b), nil
}

func decodeURLs(raw string) ([]string, error) {
	urls := []string{}
	if raw == "" {
		return urls, nil
	}
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, fmt.Errorf("failed to decode urls: %w", err)
	}
	return urls, nil
}
