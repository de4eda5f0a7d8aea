package models

import (
	"errors"
	"fmt"
)

// Search modes.
const (
	ModeKeyword     = "keyword"
	ModeApproximate = "approximate"
)

// ErrInvalidQuery is wrapped by every validation failure of a SearchQuery.
var ErrInvalidQuery = errors.New("invalid query")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// SearchQuery is a free-text search, optionally scoped by Within
// ("Psalms", "John 3", "Psalms 127:4-5").
type SearchQuery struct {
	Query       string `json:"query"`
	Within      string `json:"within,omitempty"`
	Translation string `json:"translation,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

// Validate ensures the search query has valid fields and sets defaults.
// An unset mode is left for the engine to fill from configuration.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	switch q.Mode {
	case "", ModeKeyword, ModeApproximate:
	default:
		return fmt.Errorf("%w: unknown search mode %q", ErrInvalidQuery, q.Mode)
	}
	return nil
}
