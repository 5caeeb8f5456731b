package store

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrConfigConflict is returned when a site config write lost a race:
	// another writer changed the row, or created the first row, since it
	// was read.
	ErrConfigConflict = errors.New("site config was modified concurrently")
)

type rowScanner interface {
	Scan(dest ...any) error
}
