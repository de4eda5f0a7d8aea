package location

import (
	"errors"
	"testing"

	"github.com/hyperjump/verso/internal/book"
)

func TestVerseRange_Contains(t *testing.T) {
	single := VerseRange{Start: 16}
	if !single.Contains(16) || single.Contains(15) || single.Contains(17) || single.Contains(0) {
		t.Errorf("single verse 16 membership is wrong")
	}

	span := VerseRange{Start: 4, End: 7}
	for v := uint16(0); v < 10; v++ {
		want := v >= 4 && v <= 7
		if got := span.Contains(v); got != want {
			t.Errorf("[4,7].Contains(%d) = %v, want %v", v, got, want)
		}
	}

	same := VerseRange{Start: 5, End: 5}
	if !same.Contains(5) || same.Contains(0) {
		t.Error("degenerate span should contain only its verse")
	}
}

func TestSpan(t *testing.T) {
	if _, err := Span(5, 4); !errors.Is(err, errInvertedRange) {
		t.Errorf("Span(5,4) error = %v", err)
	}
	if _, err := Span(0, 4); !errors.Is(err, errZeroVerse) {
		t.Errorf("Span(0,4) error = %v", err)
	}
	if _, err := Single(0); err == nil {
		t.Error("Single(0) should fail")
	}
	r, err := Span(4, 5)
	if err != nil || r.String() != "4-5" || !r.IsSpan() {
		t.Errorf("Span(4,5) = %v, %v", r, err)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		chapter uint16
		verse   *VerseRange
	}{
		{"3:16", 3, &VerseRange{Start: 16}},
		{"127:4-5", 127, &VerseRange{Start: 4, End: 5}},
		{"23", 23, nil},
		{" 23 ", 23, nil},
		{"1:1-1", 1, &VerseRange{Start: 1, End: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseLocation(tt.in)
			if err != nil {
				t.Fatalf("ParseLocation(%q): %v", tt.in, err)
			}
			if loc.Chapter != tt.chapter {
				t.Errorf("chapter = %d, want %d", loc.Chapter, tt.chapter)
			}
			switch {
			case tt.verse == nil && loc.Verse != nil:
				t.Errorf("verse = %v, want none", *loc.Verse)
			case tt.verse != nil && (loc.Verse == nil || *loc.Verse != *tt.verse):
				t.Errorf("verse = %v, want %v", loc.Verse, *tt.verse)
			}
		})
	}
}

func TestParseLocation_Errors(t *testing.T) {
	tests := []struct {
		in    string
		field Field
		text  string
	}{
		{"x:16", FieldChapter, "x"},
		{"0:1", FieldChapter, "0"},
		{"70000", FieldChapter, "70000"},
		{"3:abc", FieldVerse, "abc"},
		{"3:0", FieldVerse, "0"},
		{"3:5-4", FieldVerse, "5-4"},
		{"3:4-", FieldVerse, "4-"},
		{"3:-4", FieldVerse, "-4"},
		{"3:123456789012", FieldVerse, "1234567890..."},
		{"abcdefghijklmnop", FieldChapter, "abcdefghij..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseLocation(tt.in)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseLocation(%q) error = %v, want *ParseError", tt.in, err)
			}
			if perr.Field != tt.field {
				t.Errorf("Field = %v, want %v", perr.Field, tt.field)
			}
			if perr.Text != tt.text {
				t.Errorf("Text = %q, want %q", perr.Text, tt.text)
			}
		})
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := ParseLocation("3:x")
	if err == nil || err.Error() != "unable to parse verse: x" {
		t.Errorf("error = %v", err)
	}
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{"john.3:16", Address{Book: book.John, Chapter: 3, Verse: 16}},
		{"1 Kings.3:16", Address{Book: book.Kings1, Chapter: 3, Verse: 16}},
		{"Romans.3:23", Address{Book: book.Romans, Chapter: 3, Verse: 23}},
		{"psalms.23:1", Address{Book: book.Psalms, Chapter: 23, Verse: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReference(tt.in)
			if err != nil {
				t.Fatalf("ParseReference(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseReference(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseReference_Errors(t *testing.T) {
	var formatErr *FormatError
	if _, err := ParseReference("psalms.23"); !errors.As(err, &formatErr) {
		t.Errorf("missing ':' error = %v, want *FormatError", err)
	}
	if _, err := ParseReference("john 3:16"); !errors.As(err, &formatErr) {
		t.Errorf("missing '.' error = %v, want *FormatError", err)
	}

	var bookErr *book.ParseError
	if _, err := ParseReference(" 2 Opinions .3:16"); !errors.As(err, &bookErr) {
		t.Errorf("reserved book error = %v, want *book.ParseError", err)
	}
	if _, err := ParseReference("Austin.3:16"); !errors.As(err, &bookErr) {
		t.Errorf("unknown book error = %v, want *book.ParseError", err)
	}

	var perr *ParseError
	if _, err := ParseReference("john.x:16"); !errors.As(err, &perr) || perr.Field != FieldChapter {
		t.Errorf("bad chapter error = %v", err)
	}
	if _, err := ParseReference("john.3:1-2"); !errors.As(err, &perr) || perr.Field != FieldVerse {
		t.Errorf("range in full reference error = %v", err)
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Psalms", "Psalms"},
		{"Kings 1", "1 Kings"},
		{"John 3", "John 3"},
		{"1 John", "1 John"},
		{"Song of Songs", "Song of Songs"},
		{"1 John 3", "1 John 3"},
		{"John 3:16", "John 3:16"},
		{"psalms 127:4-5", "Psalms 127:4-5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if err != nil {
				t.Fatalf("ParseScope(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseScope(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}

	var bookErr *book.ParseError
	if _, err := ParseScope("Austin 3:16"); !errors.As(err, &bookErr) {
		t.Errorf("unknown book error = %v", err)
	}
	if _, err := ParseScope(" 2 Opinions 3"); !errors.As(err, &bookErr) {
		t.Errorf("reserved book error = %v", err)
	}
	if _, err := ParsePartial(" 2 opinions", "3"); !errors.As(err, &bookErr) {
		t.Errorf("reserved book in ParsePartial error = %v", err)
	}
	var perr *ParseError
	if _, err := ParseScope("John 3:x"); !errors.As(err, &perr) {
		t.Errorf("bad verse error = %v", err)
	}
}

func TestPartialAddress_Matches(t *testing.T) {
	addr := Address{Book: book.Psalms, Chapter: 127, Verse: 4}
	tests := []struct {
		name string
		p    PartialAddress
		want bool
	}{
		{"any", PartialAddress{}, true},
		{"book", PartialAddress{Book: book.Psalms}, true},
		{"other book", PartialAddress{Book: book.John}, false},
		{"chapter", PartialAddress{Book: book.Psalms, Chapter: 127}, true},
		{"other chapter", PartialAddress{Book: book.Psalms, Chapter: 126}, false},
		{"range", PartialAddress{Book: book.Psalms, Chapter: 127, Verse: &VerseRange{Start: 4, End: 5}}, true},
		{"outside range", PartialAddress{Book: book.Psalms, Chapter: 127, Verse: &VerseRange{Start: 5, End: 6}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Matches(addr); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddress_Compare(t *testing.T) {
	a := Address{Book: book.John, Chapter: 3, Verse: 16}
	if a.Compare(a) != 0 {
		t.Error("address should equal itself")
	}
	if a.Compare(Address{Book: book.John, Chapter: 3, Verse: 17}) >= 0 {
		t.Error("verse order")
	}
	if a.Compare(Address{Book: book.John, Chapter: 2, Verse: 30}) <= 0 {
		t.Error("chapter order")
	}
	if a.Compare(Address{Book: book.Genesis, Chapter: 50, Verse: 1}) <= 0 {
		t.Error("book order")
	}
	if a.String() != "John 3:16" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestAddress_Partial(t *testing.T) {
	a := Address{Book: book.John, Chapter: 3, Verse: 16}
	p := a.Partial()
	if !p.Matches(a) || p.Matches(Address{Book: book.John, Chapter: 3, Verse: 17}) {
		t.Errorf("Partial() = %+v selects the wrong verses", p)
	}
	if p.String() != "John 3:16" {
		t.Errorf("String() = %q", p.String())
	}
}
