// Package e2e provides end-to-end tests over a generated corpus and multiple queries.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/location"
)

// QueryTestCase defines a query and the references that must come back, in order.
type QueryTestCase struct {
	Query       string
	Within      string
	Mode        string
	Limit       int
	Expected    []string
	Description string
}

// Corpus holds the generated corpus text and its query test cases.
type Corpus struct {
	Text         string
	TotalVerses  int
	TestCases    []QueryTestCase
	TotalQueries int
}

var (
	corpusBooks = []book.Book{book.Genesis, book.Psalms, book.John}
	fillerWords = []string{"mountain", "river", "bread", "house", "field", "gate", "city", "vine"}
)

const (
	chaptersPerBook  = 10
	versesPerChapter = 20
)

// special verses carry words found nowhere else so queries can assert exact references.
var special = map[location.Address]string{
	{Book: book.Genesis, Chapter: 3, Verse: 3}: "The serpent was more subtil than any beast of the field.",
	{Book: book.Psalms, Chapter: 5, Verse: 7}:  "Praise him among the cedar trees of Lebanon.",
	{Book: book.John, Chapter: 2, Verse: 3}:    "Thy word is a lamp unto my feet.",
	{Book: book.John, Chapter: 2, Verse: 9}:    "They lit the lamp at the gate.",
	{Book: book.John, Chapter: 7, Verse: 3}:    "No man lighteth a lamp to hide it.",
}

// BuildCorpus returns a corpus of three books, ten chapters each, twenty verses
// per chapter. Every ordinary verse mentions "people", so chapter-scoped queries
// for it have more candidates than a small limit.
func BuildCorpus() *Corpus {
	var sb strings.Builder
	n := 0
	for _, b := range corpusBooks {
		for c := uint16(1); c <= chaptersPerBook; c++ {
			for v := uint16(1); v <= versesPerChapter; v++ {
				addr := location.Address{Book: b, Chapter: c, Verse: v}
				text, ok := special[addr]
				if !ok {
					w1 := fillerWords[(int(b)+int(c)+int(v))%len(fillerWords)]
					w2 := fillerWords[(int(c)*int(v))%len(fillerWords)]
					text = fmt.Sprintf("And the %s spake unto the people of the %s.", w1, w2)
				}
				fmt.Fprintf(&sb, "%02d%03d%03d %s\n", b.Ordinal(), c, v, text)
				n++
			}
		}
	}
	cases := buildQueryTestCases()
	return &Corpus{
		Text:         sb.String(),
		TotalVerses:  n,
		TestCases:    cases,
		TotalQueries: len(cases),
	}
}

func buildQueryTestCases() []QueryTestCase {
	return []QueryTestCase{
		{Query: "cedar", Expected: []string{"Psalms 5:7"}, Description: "unique word anywhere"},
		{Query: "lamp", Expected: []string{"John 2:3", "John 2:9", "John 7:3"}, Description: "canonical order across chapters"},
		{Query: "lamp", Within: "John 2", Expected: []string{"John 2:3", "John 2:9"}, Description: "chapter scope"},
		{Query: "lamp", Within: "John 2:1-5", Expected: []string{"John 2:3"}, Description: "verse range scope"},
		{Query: "lamp", Within: "Genesis", Expected: []string{}, Description: "book without the word"},
		{Query: "people", Within: "Psalms 9:4-6", Limit: 10, Expected: []string{"Psalms 9:4", "Psalms 9:5", "Psalms 9:6"},
			Description: "range filter after a candidate pool larger than the limit"},
		{Query: "the serpant", Mode: "approximate", Limit: 1, Expected: []string{"Genesis 3:3"}, Description: "approximate match with one substitution"},
		{Query: "praise him", Mode: "approximate", Within: "Psalms 5", Limit: 1, Expected: []string{"Psalms 5:7"}, Description: "scoped approximate match"},
	}
}
