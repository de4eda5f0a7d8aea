// Package codec maps addresses to the hierarchical paths stored in the keyword
// index ("/19/23/1") and back.
//
// Paths stop at single-verse granularity. A verse range is encoded only down to
// its chapter, and callers narrow the results with Filter.
package codec

import (
	"strconv"
	"strings"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/location"
)

const sep = "/"

// Path is a hierarchical location path: "/{book}[/{chapter}[/{verse}]]".
// The empty path matches everything.
type Path string

// PathError reports a path that does not decode to a verse address.
type PathError struct {
	Path Path
}

func (e *PathError) Error() string {
	return "malformed location path: " + strconv.Quote(string(e.Path))
}

// Encode returns the path of a single verse.
func Encode(a location.Address) Path {
	return Path(sep + strconv.Itoa(int(a.Book)) +
		sep + strconv.Itoa(int(a.Chapter)) +
		sep + strconv.Itoa(int(a.Verse)))
}

// EncodePartial returns the longest path prefix shared by every verse in p.
func EncodePartial(p location.PartialAddress) Path {
	if p.Book == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sep)
	b.WriteString(strconv.Itoa(int(p.Book)))
	if p.Chapter == 0 {
		return Path(b.String())
	}
	b.WriteString(sep)
	b.WriteString(strconv.Itoa(int(p.Chapter)))
	if p.Verse != nil && !p.Verse.IsSpan() {
		b.WriteString(sep)
		b.WriteString(strconv.Itoa(int(p.Verse.Start)))
	}
	return Path(b.String())
}

// Depth returns the number of components in p: 0 (everything) to 3 (one verse).
func (p Path) Depth() int {
	if p == "" {
		return 0
	}
	return strings.Count(string(p), sep)
}

// Exact reports whether p names a single verse.
func (p Path) Exact() bool {
	return p.Depth() == 3
}

// Contains reports whether other lies at or below p.
func (p Path) Contains(other Path) bool {
	if p == "" || p == other {
		return true
	}
	return strings.HasPrefix(string(other), string(p)+sep)
}

// Decode parses a verse path produced by Encode.
func Decode(p Path) (location.Address, error) {
	rest, ok := strings.CutPrefix(string(p), sep)
	if !ok {
		return location.Address{}, &PathError{Path: p}
	}
	parts := strings.Split(rest, sep)
	if len(parts) != 3 {
		return location.Address{}, &PathError{Path: p}
	}
	var nums [3]uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil || n == 0 {
			return location.Address{}, &PathError{Path: p}
		}
		nums[i] = n
	}
	b, ok := book.Lookup(int(nums[0]))
	if !ok {
		return location.Address{}, &PathError{Path: p}
	}
	return location.Address{Book: b, Chapter: uint16(nums[1]), Verse: uint16(nums[2])}, nil
}

// Filter keeps the items whose address falls inside scope, preserving order.
// It is the post-query step for verse ranges the path could not express.
func Filter[T any](items []T, scope location.PartialAddress, addressOf func(T) location.Address) []T {
	if scope.Verse == nil || !scope.Verse.IsSpan() {
		return items
	}
	out := items[:0:0]
	for _, item := range items {
		if scope.Matches(addressOf(item)) {
			out = append(out, item)
		}
	}
	return out
}
