package location

import (
	"errors"

	"github.com/hyperjump/verso/pkg/utils"
)

const (
	fieldTextLimit  = 10
	formatTextLimit = 30
)

var (
	errZeroVerse     = errors.New("verse must be at least 1")
	errZeroChapter   = errors.New("chapter must be at least 1")
	errInvertedRange = errors.New("range end precedes start")
)

// Field names the numeric field that failed to parse.
type Field int

const (
	// FieldChapter is the chapter number.
	FieldChapter Field = iota
	// FieldVerse is the verse number or verse range.
	FieldVerse
)

func (f Field) String() string {
	if f == FieldChapter {
		return "chapter"
	}
	return "verse"
}

// ParseError reports a malformed chapter or verse field. Text holds the offending
// fragment, truncated for display.
type ParseError struct {
	Field Field
	Text  string
	Err   error
}

func newParseError(field Field, text string, cause error) *ParseError {
	return &ParseError{Field: field, Text: utils.Truncate(text, fieldTextLimit), Err: cause}
}

func (e *ParseError) Error() string {
	return "unable to parse " + e.Field.String() + ": " + e.Text
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError reports a full reference missing its '.' or ':' separator.
type FormatError struct {
	Text string
}

func (e *FormatError) Error() string {
	return "bad reference format: " + e.Text
}
