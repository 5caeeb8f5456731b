package domain

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID returns a new lexicographically sortable identifier.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}
