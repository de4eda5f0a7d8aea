package book

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// variants lists the books that need a numeric qualifier, keyed by base name.
var variants = map[string][]Book{
	"Samuel":        {Samuel1, Samuel2},
	"Kings":         {Kings1, Kings2},
	"Chronicles":    {Chronicles1, Chronicles2},
	"Corinthians":   {Corinthians1, Corinthians2},
	"Thessalonians": {Thessalonians1, Thessalonians2},
	"Timothy":       {Timothy1, Timothy2},
	"Peter":         {Peter1, Peter2},
	"John":          {John1, John2, John3},
}

func isVariant(b Book) bool {
	for _, books := range variants {
		for _, v := range books {
			if v == b {
				return true
			}
		}
	}
	return false
}

func TestFirstTransition(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"1 Kings", 2, true},
		{"1Kings", 1, true},
		{"Kings1", 5, true},
		{"Kings 1", 6, true},
		{"Exodus", 0, false},
		{"Song of Songs", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := firstTransition(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("firstTransition(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParse_RoundTripsDisplayNames(t *testing.T) {
	for _, b := range All() {
		if isVariant(b) && b != John {
			continue
		}
		got, err := Parse(b.Name())
		if err != nil {
			t.Errorf("Parse(%q): %v", b.Name(), err)
			continue
		}
		if got != b {
			t.Errorf("Parse(%q) = %v, want %v", b.Name(), got, b)
		}
	}
}

func TestParse_NumberedVariants(t *testing.T) {
	for base, books := range variants {
		for i, want := range books {
			n := i + 1
			for _, in := range []string{
				fmt.Sprintf("%d %s", n, base),
				fmt.Sprintf("%d%s", n, base),
				fmt.Sprintf("%s%d", base, n),
				fmt.Sprintf("%s %d", base, n),
				fmt.Sprintf("  %d %s  ", n, strings.ToLower(base)),
			} {
				got, err := Parse(in)
				if err != nil {
					t.Errorf("Parse(%q): %v", in, err)
					continue
				}
				if got != want {
					t.Errorf("Parse(%q) = %v, want %v", in, got, want)
				}
			}
		}
	}
}

func TestParse_DisplayNamesOfVariantsRoundTrip(t *testing.T) {
	for _, books := range variants {
		for _, b := range books {
			got, err := Parse(b.Name())
			if err != nil || got != b {
				t.Errorf("Parse(%q) = %v, %v; want %v", b.Name(), got, err, b)
			}
		}
	}
}

func TestParse_SongOfSongs(t *testing.T) {
	for _, in := range []string{"Song of Songs", "songs", "SONG   OF songs", " Songs "} {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != SongOfSongs {
			t.Errorf("Parse(%q) = %v, want Song of Songs", in, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"unknown", "Opinions"},
		{"missing qualifier", "Kings"},
		{"qualifier out of range", "3 Kings"},
		{"john qualifier out of range", "4 John"},
		{"zero qualifier", "0 Samuel"},
		{"qualifier overflows u8", "300 Samuel"},
		{"stray qualifier", "Genesis 1"},
		{"number only", "1"},
		{"residue", "1a Kings"},
		{"punctuation", "Song-of-Songs"},
		{"reserved placeholder", "2 Opinions"},
		{"reserved placeholder padded", "  2   opinions "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.in, err)
			}
		})
	}
}

func TestParseError_TruncatesText(t *testing.T) {
	_, err := Parse("The Book of Unwritten Things")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("want *ParseError, got %v", err)
	}
	if perr.Text != "The Book of Unwritte..." {
		t.Errorf("Text = %q", perr.Text)
	}
	if got := perr.Error(); got != "could not parse 'The Book of Unwritte...' as book" {
		t.Errorf("Error() = %q", got)
	}
}

func TestFromOrdinal(t *testing.T) {
	if FromOrdinal(1) != Genesis || FromOrdinal(19) != Psalms || FromOrdinal(66) != Revelation {
		t.Error("unexpected ordinal mapping")
	}
	for _, n := range []uint8{0, 67, 255} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("FromOrdinal(%d) did not panic", n)
				}
			}()
			FromOrdinal(n)
		})
	}
}

func TestLookup(t *testing.T) {
	if b, ok := Lookup(43); !ok || b != John {
		t.Errorf("Lookup(43) = %v, %v", b, ok)
	}
	for _, n := range []int{-1, 0, 67} {
		if _, ok := Lookup(n); ok {
			t.Errorf("Lookup(%d) should fail", n)
		}
	}
}

func TestNames(t *testing.T) {
	if len(All()) != Count {
		t.Fatalf("All() returned %d books", len(All()))
	}
	if Kings1.Name() != "1 Kings" || SongOfSongs.String() != "Song of Songs" || John3.Name() != "3 John" {
		t.Error("unexpected display names")
	}
	if Book(0).Valid() || Book(0).Name() != "" || Book(0).String() != "Book(0)" {
		t.Error("zero book should be invalid")
	}
}

func TestText(t *testing.T) {
	text, err := Peter2.MarshalText()
	if err != nil || string(text) != "2 Peter" {
		t.Fatalf("MarshalText = %q, %v", text, err)
	}
	var b Book
	if err := b.UnmarshalText([]byte("peter 2")); err != nil || b != Peter2 {
		t.Fatalf("UnmarshalText = %v, %v", b, err)
	}
	if _, err := Book(0).MarshalText(); err == nil {
		t.Error("MarshalText of invalid book should fail")
	}
}

func TestParseError_SuggestUsesFullInput(t *testing.T) {
	in := "1          Thessalonianz"
	_, err := Parse(in)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse(%q) error = %v, want *ParseError", in, err)
	}
	if len(perr.Text) >= len(in) {
		t.Fatalf("Text = %q, want truncated", perr.Text)
	}
	if _, ok := Suggest(perr.Text); ok {
		t.Fatalf("truncated text %q unexpectedly has a suggestion", perr.Text)
	}
	got, ok := perr.Suggest()
	if !ok || got != Thessalonians1 {
		t.Errorf("Suggest() = (%v, %v), want (%v, true)", got, ok, Thessalonians1)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		in     string
		want   Book
		wantOK bool
	}{
		{"Gensis", Genesis, true},
		{"psalm", Psalms, true},
		{"Revelations", Revelation, true},
		{"xyzzy quux", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Suggest(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Suggest(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
