// Package book enumerates the 66 canonical books and resolves free-form book names to them.
package book

import (
	"fmt"
	"strings"
)

// Book is a canonical book identity. Its value is the 1-based canonical ordinal;
// the zero value is not a valid book.
type Book uint8

// Canonical books in canonical order.
const (
	Genesis Book = iota + 1
	Exodus
	Leviticus
	Numbers
	Deuteronomy
	Joshua
	Judges
	Ruth
	Samuel1
	Samuel2
	Kings1
	Kings2
	Chronicles1
	Chronicles2
	Ezra
	Nehemiah
	Esther
	Job
	Psalms
	Proverbs
	Ecclesiastes
	SongOfSongs
	Isaiah
	Jeremiah
	Lamentations
	Ezekiel
	Daniel
	Hosea
	Joel
	Amos
	Obadiah
	Jonah
	Micah
	Nahum
	Habakkuk
	Zephaniah
	Haggai
	Zechariah
	Malachi
	Matthew
	Mark
	Luke
	John
	Acts
	Romans
	Corinthians1
	Corinthians2
	Galatians
	Ephesians
	Philippians
	Colossians
	Thessalonians1
	Thessalonians2
	Timothy1
	Timothy2
	Titus
	Philemon
	Hebrews
	James
	Peter1
	Peter2
	John1
	John2
	John3
	Jude
	Revelation
)

// Count is the number of canonical books.
const Count = 66

// displayNames is indexed by ordinal; index 0 is unused. Downstream URL builders
// key on these exact strings, so they must not change.
var displayNames = [Count + 1]string{
	"",
	"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy",
	"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel",
	"1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra",
	"Nehemiah", "Esther", "Job", "Psalms", "Proverbs",
	"Ecclesiastes", "Song of Songs", "Isaiah", "Jeremiah", "Lamentations",
	"Ezekiel", "Daniel", "Hosea", "Joel", "Amos",
	"Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk",
	"Zephaniah", "Haggai", "Zechariah", "Malachi", "Matthew",
	"Mark", "Luke", "John", "Acts", "Romans",
	"1 Corinthians", "2 Corinthians", "Galatians", "Ephesians", "Philippians",
	"Colossians", "1 Thessalonians", "2 Thessalonians", "1 Timothy", "2 Timothy",
	"Titus", "Philemon", "Hebrews", "James", "1 Peter",
	"2 Peter", "1 John", "2 John", "3 John", "Jude",
	"Revelation",
}

// FromOrdinal returns the book with ordinal n. It panics when n is 0 or greater than 66:
// ordinals only come from trusted data, so an invalid one is a programming error.
// Use Lookup for numbers that have not been validated.
func FromOrdinal(n uint8) Book {
	b, ok := Lookup(int(n))
	if !ok {
		panic(fmt.Sprintf("book: invalid ordinal %d", n))
	}
	return b
}

// Lookup returns the book with ordinal n and whether n is a valid ordinal.
func Lookup(n int) (Book, bool) {
	if n < 1 || n > Count {
		return 0, false
	}
	return Book(n), true
}

// All returns every book in canonical order.
func All() []Book {
	out := make([]Book, 0, Count)
	for n := 1; n <= Count; n++ {
		out = append(out, Book(n))
	}
	return out
}

// Valid reports whether b is one of the 66 canonical books.
func (b Book) Valid() bool {
	return b >= Genesis && b <= Revelation
}

// Ordinal returns the canonical 1-based ordinal.
func (b Book) Ordinal() uint8 {
	return uint8(b)
}

// Name returns the canonical display name, e.g. "1 Kings" or "Song of Songs".
func (b Book) Name() string {
	if !b.Valid() {
		return ""
	}
	return displayNames[b]
}

// String implements fmt.Stringer.
func (b Book) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Book(%d)", uint8(b))
	}
	return displayNames[b]
}

// MarshalText encodes the book as its display name.
func (b Book) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid book ordinal %d", uint8(b))
	}
	return []byte(displayNames[b]), nil
}

// UnmarshalText parses any recognized spelling of a book name.
func (b *Book) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// normalizeName uppercases s and collapses internal whitespace runs to single spaces.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
