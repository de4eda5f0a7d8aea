package cli

import (
	"errors"
	"fmt"

	"github.com/hyperjump/verso/internal/book"
)

// Describe formats err for the terminal, adding the nearest book name when
// err is a book that failed to parse.
func Describe(err error) string {
	var pe *book.ParseError
	if errors.As(err, &pe) {
		if b, ok := pe.Suggest(); ok {
			return fmt.Sprintf("%v (did you mean %s?)", err, b.Name())
		}
	}
	return err.Error()
}
