// Package storage defines the persistence interface for verses and index builds.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/internal/models"
)

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Storage defines verse and build persistence operations.
type Storage interface {
	// Verse operations
	ReplaceVerses(ctx context.Context, translation string, records []corpus.Record) error
	ListVerses(ctx context.Context, translation string) ([]corpus.Record, error)
	GetVerse(ctx context.Context, translation string, addr location.Address) (string, error)
	Translations(ctx context.Context) ([]string, error)

	// Build operations
	CreateBuild(ctx context.Context, build *models.Build) error
	LatestBuild(ctx context.Context, translation string) (*models.Build, error)

	// Stats
	CountVerses(ctx context.Context, translation string) (int64, error)

	Close() error
}
