package corpus

import (
	"errors"
	"fmt"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/pkg/utils"
)

// ErrBookRequired is returned by Lookup when the query names no book.
var ErrBookRequired = errors.New("lookup requires a book")

// Entity is the level of the index at which a lookup failed.
type Entity int

const (
	EntityBook Entity = iota
	EntityChapter
	EntityVerse
)

func (e Entity) String() string {
	switch e {
	case EntityBook:
		return "book"
	case EntityChapter:
		return "chapter"
	default:
		return "verse"
	}
}

// NotFoundError reports a well-formed address that is absent from the index.
type NotFoundError struct {
	Entity   Entity
	Book     book.Book
	Location *location.Location
}

func (e *NotFoundError) Error() string {
	if e.Location == nil {
		return fmt.Sprintf("%s not found: %s", e.Entity, e.Book)
	}
	return fmt.Sprintf("%s not found: %s [%s]", e.Entity, e.Book, e.Location)
}

// FormatError reports a corpus line whose fixed-width header is malformed.
// The corpus is a build-time asset, so this aborts index construction.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func newFormatError(line int, text, reason string) *FormatError {
	return &FormatError{Line: line, Text: utils.Truncate(text, 20), Reason: reason}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("corpus line %d: %s: %q", e.Line, e.Reason, e.Text)
}
