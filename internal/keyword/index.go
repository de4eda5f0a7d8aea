// Package keyword provides the ranked full-text verse index.
package keyword

import (
	"context"

	"github.com/hyperjump/verso/internal/codec"
)

// Document is one indexed verse. Location is the verse's hierarchical path.
type Document struct {
	Translation string `json:"translation"`
	Location    string `json:"location"`
	Text        string `json:"text"`
}

// Query is a full-text query restricted to one translation and optionally to a
// path prefix. An empty Scope searches the whole translation.
type Query struct {
	Translation string
	Text        string
	Scope       codec.Path
	Limit       int
}

// Hit is a single keyword search hit, in relevance order.
type Hit struct {
	ID    string
	Path  codec.Path
	Text  string
	Score float64
}

// KeywordIndex defines keyword search operations.
type KeywordIndex interface {
	Index(ctx context.Context, translation string, docs []Document) error
	Search(ctx context.Context, q *Query) ([]*Hit, error)
	DeleteTranslation(ctx context.Context, translation string) error
	// Count returns the number of verses indexed for translation.
	Count(translation string) (uint64, error)
	// DocCount returns the total number of documents in the index.
	DocCount() (uint64, error)
	Close() error
}

// TermDictionary provides access to the term dictionary for spell checking.
type TermDictionary interface {
	GetAllTerms() ([]string, error)
	GetTermFrequency(term string) (int, error)
}

// DocID returns the index ID of the verse at path in translation.
func DocID(translation string, path codec.Path) string {
	return translation + ":" + string(path)
}
