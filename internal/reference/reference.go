// Package reference builds links to external reference sites for verses and chapters.
package reference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperjump/verso/internal/book"
)

// Provider builds the URL of a chapter (verse 0) or a single verse.
type Provider interface {
	Name() string
	URL(translation string, b book.Book, chapter, verse uint16) string
}

// New returns the provider registered under name.
func New(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "", "biblia":
		return Biblia{}, nil
	default:
		return nil, fmt.Errorf("unknown reference provider %q", name)
	}
}

// Biblia links to biblia.com.
type Biblia struct{}

func (Biblia) Name() string { return "biblia" }

func (Biblia) URL(translation string, b book.Book, chapter, verse uint16) string {
	u := "https://biblia.com/bible/" + strings.ToLower(translation) + "/" + Slug(b) + "/" + strconv.Itoa(int(chapter))
	if verse != 0 {
		u += "/" + strconv.Itoa(int(verse))
	}
	return u
}

// Slug is the book's display name lowercased with spaces removed ("1kings", "songofsongs").
func Slug(b book.Book) string {
	return strings.ToLower(strings.ReplaceAll(b.Name(), " ", ""))
}
