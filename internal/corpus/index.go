// Package corpus parses the fixed-width verse corpus and indexes it by book, chapter and verse.
package corpus

import (
	"strconv"
	"strings"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/location"
)

// Corpus lines start with an 8-digit BBCCCVVV header followed by one separator byte.
const (
	headerLen = 8
	textStart = headerLen + 1
)

// Record is one verse of one translation.
type Record struct {
	Address location.Address
	Text    string
}

// Verse is a numbered verse within a chapter.
type Verse struct {
	Number uint16 `json:"verse"`
	Text   string `json:"text"`
}

// Chapter holds a chapter's verses in corpus order.
type Chapter struct {
	Number uint16  `json:"chapter"`
	Verses []Verse `json:"verses"`

	byVerse map[uint16]int
}

// BookIndex holds a book's chapters in corpus order.
type BookIndex struct {
	Book     book.Book
	Chapters []*Chapter

	byChapter map[uint16]*Chapter
}

// Index is the read-only book -> chapter -> verse -> text mapping. Iteration
// order at every level is corpus order; nothing is re-sorted. An Index is safe
// for concurrent readers once built.
type Index struct {
	books   []*BookIndex
	byBook  map[book.Book]*BookIndex
	records []Record
}

// Parse builds an index from corpus text. Blank lines are skipped; any malformed
// header aborts the build with a *FormatError naming the line.
func Parse(text string) (*Index, error) {
	idx := newIndex()
	lineNo := 0
	for len(text) > 0 {
		var line string
		line, text, _ = strings.Cut(text, "\n")
		lineNo++
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		rec, err := parseRecord(lineNo, line)
		if err != nil {
			return nil, err
		}
		idx.insert(rec)
	}
	return idx, nil
}

// FromRecords builds an index from records already in canonical order,
// e.g. verses read back from persistent storage.
func FromRecords(records []Record) *Index {
	idx := newIndex()
	for _, rec := range records {
		idx.insert(rec)
	}
	return idx
}

func newIndex() *Index {
	return &Index{byBook: make(map[book.Book]*BookIndex)}
}

func parseRecord(lineNo int, line string) (Record, error) {
	if len(line) < textStart {
		return Record{}, newFormatError(lineNo, line, "record shorter than header")
	}
	for i := 0; i < headerLen; i++ {
		if line[i] < '0' || line[i] > '9' {
			return Record{}, newFormatError(lineNo, line, "header is not 8 digits")
		}
	}
	if c := line[headerLen]; c >= '0' && c <= '9' {
		return Record{}, newFormatError(lineNo, line, "header is wider than 8 digits")
	}
	ordinal, _ := strconv.Atoi(line[0:2])
	chapter, _ := strconv.Atoi(line[2:5])
	verse, _ := strconv.Atoi(line[5:8])
	b, ok := book.Lookup(ordinal)
	if !ok {
		return Record{}, newFormatError(lineNo, line, "book ordinal out of range")
	}
	if chapter == 0 || verse == 0 {
		return Record{}, newFormatError(lineNo, line, "chapter and verse must be at least 1")
	}
	return Record{
		Address: location.Address{Book: b, Chapter: uint16(chapter), Verse: uint16(verse)},
		Text:    line[textStart:],
	}, nil
}

func (idx *Index) insert(rec Record) {
	addr := rec.Address
	bi, ok := idx.byBook[addr.Book]
	if !ok {
		bi = &BookIndex{Book: addr.Book, byChapter: make(map[uint16]*Chapter)}
		idx.byBook[addr.Book] = bi
		idx.books = append(idx.books, bi)
	}
	ch, ok := bi.byChapter[addr.Chapter]
	if !ok {
		ch = &Chapter{Number: addr.Chapter, byVerse: make(map[uint16]int)}
		bi.byChapter[addr.Chapter] = ch
		bi.Chapters = append(bi.Chapters, ch)
	}
	// A repeated address replaces the text in place, keeping its first position.
	if i, ok := ch.byVerse[addr.Verse]; ok {
		ch.Verses[i].Text = rec.Text
		for j := range idx.records {
			if idx.records[j].Address == addr {
				idx.records[j].Text = rec.Text
				break
			}
		}
		return
	}
	ch.byVerse[addr.Verse] = len(ch.Verses)
	ch.Verses = append(ch.Verses, Verse{Number: addr.Verse, Text: rec.Text})
	idx.records = append(idx.records, rec)
}

// Books returns the indexed books in corpus order.
func (idx *Index) Books() []book.Book {
	out := make([]book.Book, len(idx.books))
	for i, bi := range idx.books {
		out[i] = bi.Book
	}
	return out
}

// Len returns the number of indexed verses.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Records returns every verse in corpus order. The slice must not be modified.
func (idx *Index) Records() []Record {
	return idx.records
}

// Scope returns the verses matching p, in corpus order.
func (idx *Index) Scope(p location.PartialAddress) []Record {
	if p.Book == 0 {
		return idx.records
	}
	var out []Record
	for _, rec := range idx.records {
		if p.Matches(rec.Address) {
			out = append(out, rec)
		}
	}
	return out
}

// Book returns the chapters of b.
func (idx *Index) Book(b book.Book) (*BookIndex, error) {
	bi, ok := idx.byBook[b]
	if !ok {
		return nil, &NotFoundError{Entity: EntityBook, Book: b}
	}
	return bi, nil
}

// Chapter returns one chapter of b.
func (idx *Index) Chapter(b book.Book, chapter uint16) (*Chapter, error) {
	bi, err := idx.Book(b)
	if err != nil {
		return nil, err
	}
	ch, ok := bi.byChapter[chapter]
	if !ok {
		return nil, &NotFoundError{Entity: EntityChapter, Book: b, Location: &location.Location{Chapter: chapter}}
	}
	return ch, nil
}

// Text returns the text at addr.
func (idx *Index) Text(addr location.Address) (string, error) {
	ch, err := idx.Chapter(addr.Book, addr.Chapter)
	if err != nil {
		return "", err
	}
	i, ok := ch.byVerse[addr.Verse]
	if !ok {
		v := location.VerseRange{Start: addr.Verse}
		return "", &NotFoundError{Entity: EntityVerse, Book: addr.Book, Location: &location.Location{Chapter: addr.Chapter, Verse: &v}}
	}
	return ch.Verses[i].Text, nil
}
