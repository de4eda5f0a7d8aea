package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/location"
)

const sample = `01001001 In the beginning God created the heaven and the earth.
01001002 And the earth was without form, and void.
01002001 Thus the heavens and the earth were finished.
19023001 The LORD is my shepherd; I shall not want.
19023002 He maketh me to lie down in green pastures.
19023003 He restoreth my soul.
19024001 The earth is the LORD's, and the fulness thereof.
43003016 For God so loved the world.
`

func mustParse(t *testing.T, text string) *Index {
	t.Helper()
	idx, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return idx
}

func TestParse(t *testing.T) {
	idx := mustParse(t, sample)
	if idx.Len() != 8 {
		t.Fatalf("Len = %d, want 8", idx.Len())
	}
	books := idx.Books()
	want := []book.Book{book.Genesis, book.Psalms, book.John}
	if len(books) != len(want) {
		t.Fatalf("Books = %v, want %v", books, want)
	}
	for i := range want {
		if books[i] != want[i] {
			t.Errorf("Books[%d] = %v, want %v", i, books[i], want[i])
		}
	}
	text, err := idx.Text(location.Address{Book: book.Psalms, Chapter: 24, Verse: 1})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "The earth is the LORD's, and the fulness thereof." {
		t.Errorf("Text = %q", text)
	}
}

func TestParse_KeepsCorpusOrder(t *testing.T) {
	idx := mustParse(t, "19023002 second\n19023001 first\n")
	ch, err := idx.Chapter(book.Psalms, 23)
	if err != nil {
		t.Fatal(err)
	}
	if ch.Verses[0].Number != 2 || ch.Verses[1].Number != 1 {
		t.Errorf("verses reordered: %+v", ch.Verses)
	}
}

func TestParse_SkipsBlankAndCRLF(t *testing.T) {
	idx := mustParse(t, "\n01001001 In the beginning.\r\n\r\n")
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	if idx.Records()[0].Text != "In the beginning." {
		t.Errorf("text = %q", idx.Records()[0].Text)
	}
}

func TestParse_DuplicateReplacesText(t *testing.T) {
	idx := mustParse(t, "01001001 old\n01001002 next\n01001001 new\n")
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	if got := idx.Records()[0].Text; got != "new" {
		t.Errorf("text = %q, want new", got)
	}
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"short line", "0100100", 1},
		{"non-digit header", "01001a01 text", 1},
		{"wide header", "010010011 text", 1},
		{"book zero", "00001001 text", 1},
		{"book out of range", "67001001 text", 1},
		{"chapter zero", "01000001 text", 1},
		{"verse zero", "01001000 text", 1},
		{"second line", "01001001 ok\nbad", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse(%q) error = %v, want *FormatError", tt.text, err)
			}
			if fe.Line != tt.line {
				t.Errorf("Line = %d, want %d", fe.Line, tt.line)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	idx := mustParse(t, sample)
	span := location.VerseRange{Start: 2, End: 3}
	single := location.VerseRange{Start: 1}
	tests := []struct {
		name     string
		query    location.PartialAddress
		chapters int
		verses   []uint16
	}{
		{"whole book", location.PartialAddress{Book: book.Genesis}, 2, []uint16{1, 2, 1}},
		{"whole chapter", location.PartialAddress{Book: book.Psalms, Chapter: 23}, 1, []uint16{1, 2, 3}},
		{"single verse", location.PartialAddress{Book: book.Psalms, Chapter: 24, Verse: &single}, 1, []uint16{1}},
		{"span", location.PartialAddress{Book: book.Psalms, Chapter: 23, Verse: &span}, 1, []uint16{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := idx.Lookup(tt.query)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if len(p.Chapters) != tt.chapters {
				t.Fatalf("chapters = %d, want %d", len(p.Chapters), tt.chapters)
			}
			recs := p.Records()
			if len(recs) != len(tt.verses) {
				t.Fatalf("verses = %d, want %d", len(recs), len(tt.verses))
			}
			for i, v := range tt.verses {
				if recs[i].Address.Verse != v {
					t.Errorf("verse[%d] = %d, want %d", i, recs[i].Address.Verse, v)
				}
				if recs[i].Address.Book != tt.query.Book {
					t.Errorf("book[%d] = %v, want %v", i, recs[i].Address.Book, tt.query.Book)
				}
			}
		})
	}
}

func TestLookup_SpanDoesNotMutateIndex(t *testing.T) {
	idx := mustParse(t, sample)
	span := location.VerseRange{Start: 2, End: 2}
	if _, err := idx.Lookup(location.PartialAddress{Book: book.Psalms, Chapter: 23, Verse: &span}); err != nil {
		t.Fatal(err)
	}
	ch, _ := idx.Chapter(book.Psalms, 23)
	if len(ch.Verses) != 3 {
		t.Errorf("chapter has %d verses after lookup, want 3", len(ch.Verses))
	}
}

func TestLookup_NotFound(t *testing.T) {
	idx := mustParse(t, sample)
	missing := location.VerseRange{Start: 9}
	emptySpan := location.VerseRange{Start: 7, End: 9}
	tests := []struct {
		name   string
		query  location.PartialAddress
		entity Entity
		msg    string
	}{
		{"book", location.PartialAddress{Book: book.Exodus, Chapter: 1}, EntityBook, "book not found: Exodus"},
		{"chapter", location.PartialAddress{Book: book.Psalms, Chapter: 150}, EntityChapter, "chapter not found: Psalms [150]"},
		{"verse", location.PartialAddress{Book: book.Psalms, Chapter: 23, Verse: &missing}, EntityVerse, "verse not found: Psalms [23:9]"},
		{"empty span", location.PartialAddress{Book: book.Psalms, Chapter: 23, Verse: &emptySpan}, EntityVerse, "verse not found: Psalms [23:7-9]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idx.Lookup(tt.query)
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("error = %v, want *NotFoundError", err)
			}
			if nf.Entity != tt.entity {
				t.Errorf("Entity = %v, want %v", nf.Entity, tt.entity)
			}
			if nf.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", nf.Error(), tt.msg)
			}
		})
	}
}

func TestLookup_RequiresBook(t *testing.T) {
	idx := mustParse(t, sample)
	if _, err := idx.Lookup(location.PartialAddress{}); !errors.Is(err, ErrBookRequired) {
		t.Errorf("error = %v, want ErrBookRequired", err)
	}
}

func TestScope(t *testing.T) {
	idx := mustParse(t, sample)
	if got := len(idx.Scope(location.PartialAddress{})); got != idx.Len() {
		t.Errorf("unscoped = %d, want %d", got, idx.Len())
	}
	if got := len(idx.Scope(location.PartialAddress{Book: book.Psalms})); got != 4 {
		t.Errorf("Psalms = %d, want 4", got)
	}
	if got := len(idx.Scope(location.PartialAddress{Book: book.Psalms, Chapter: 24})); got != 1 {
		t.Errorf("Psalms 24 = %d, want 1", got)
	}
}

func TestFromRecords(t *testing.T) {
	src := mustParse(t, sample)
	idx := FromRecords(src.Records())
	if idx.Len() != src.Len() {
		t.Fatalf("Len = %d, want %d", idx.Len(), src.Len())
	}
	p, err := idx.Lookup(location.PartialAddress{Book: book.John, Chapter: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(p.Records()[0].Text, "For God") {
		t.Errorf("text = %q", p.Records()[0].Text)
	}
}
