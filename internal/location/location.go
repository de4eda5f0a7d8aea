// Package location models chapter/verse locations and parses them from user text.
package location

import (
	"cmp"
	"fmt"
	"strconv"

	"github.com/hyperjump/verso/internal/book"
)

// VerseRange is a single verse (End == 0) or an inclusive span Start..End.
// Start is always at least 1 and End, when set, is at least Start.
type VerseRange struct {
	Start uint16 `json:"start"`
	End   uint16 `json:"end,omitempty"`
}

// Single returns the range holding exactly verse v.
func Single(v uint16) (VerseRange, error) {
	if v == 0 {
		return VerseRange{}, errZeroVerse
	}
	return VerseRange{Start: v}, nil
}

// Span returns the inclusive range start..end. An inverted span is rejected, not swapped.
func Span(start, end uint16) (VerseRange, error) {
	if start == 0 || end == 0 {
		return VerseRange{}, errZeroVerse
	}
	if end < start {
		return VerseRange{}, errInvertedRange
	}
	return VerseRange{Start: start, End: end}, nil
}

// IsSpan reports whether r was written as start-end.
func (r VerseRange) IsSpan() bool {
	return r.End != 0
}

// Contains reports whether verse v falls in the range. Verse 0 never matches.
func (r VerseRange) Contains(v uint16) bool {
	if v == 0 {
		return false
	}
	if r.End == 0 {
		return v == r.Start
	}
	return v >= r.Start && v <= r.End
}

func (r VerseRange) String() string {
	if r.End == 0 {
		return strconv.Itoa(int(r.Start))
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Location is a chapter with an optional verse constraint; the book is held elsewhere.
type Location struct {
	Chapter uint16      `json:"chapter"`
	Verse   *VerseRange `json:"verse,omitempty"`
}

func (l Location) String() string {
	if l.Verse == nil {
		return strconv.Itoa(int(l.Chapter))
	}
	return fmt.Sprintf("%d:%s", l.Chapter, l.Verse)
}

// Address is the exact location of one verse.
type Address struct {
	Book    book.Book `json:"book"`
	Chapter uint16    `json:"chapter"`
	Verse   uint16    `json:"verse"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s %d:%d", a.Book, a.Chapter, a.Verse)
}

// Partial returns the single-verse query selecting a.
func (a Address) Partial() PartialAddress {
	verse := VerseRange{Start: a.Verse}
	return PartialAddress{Book: a.Book, Chapter: a.Chapter, Verse: &verse}
}

// Compare orders addresses canonically by book, chapter, then verse.
func (a Address) Compare(b Address) int {
	if c := cmp.Compare(a.Book, b.Book); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Chapter, b.Chapter); c != 0 {
		return c
	}
	return cmp.Compare(a.Verse, b.Verse)
}

// PartialAddress is a query of varying specificity. A zero Book means any book
// and a zero Chapter means the whole book; Verse is nil for a whole chapter.
type PartialAddress struct {
	Book    book.Book   `json:"book,omitempty"`
	Chapter uint16      `json:"chapter,omitempty"`
	Verse   *VerseRange `json:"verse,omitempty"`
}

// At returns the partial address covering loc within b.
func At(b book.Book, loc Location) PartialAddress {
	return PartialAddress{Book: b, Chapter: loc.Chapter, Verse: loc.Verse}
}

// Matches reports whether addr falls inside p.
func (p PartialAddress) Matches(addr Address) bool {
	if p.Book != 0 && p.Book != addr.Book {
		return false
	}
	if p.Chapter != 0 && p.Chapter != addr.Chapter {
		return false
	}
	if p.Verse != nil && !p.Verse.Contains(addr.Verse) {
		return false
	}
	return true
}

func (p PartialAddress) String() string {
	switch {
	case p.Book == 0:
		return ""
	case p.Chapter == 0:
		return p.Book.String()
	case p.Verse == nil:
		return fmt.Sprintf("%s %d", p.Book, p.Chapter)
	default:
		return fmt.Sprintf("%s %d:%s", p.Book, p.Chapter, p.Verse)
	}
}
