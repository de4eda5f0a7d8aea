// Package matcher ranks verses against a free-text query by fixed-width Hamming
// distance over word-aligned windows.
//
// It is a substitution-only match: a query longer than every word-aligned
// window of a verse never matches that verse, and no insertion or deletion is
// ever considered.
package matcher

import (
	"regexp"
	"slices"
	"strings"

	"github.com/hyperjump/verso/internal/corpus"
)

var wordStart = regexp.MustCompile(`\b\w`)

// Match is a verse and its best window distance from the query.
type Match struct {
	Distance int
	Record   corpus.Record
}

// Search scores every record and returns those with at least one qualifying
// window, ascending by distance with ties kept in input order, truncated to limit.
// A limit of 0 or less returns every match.
func Search(query string, records []corpus.Record, limit int) []Match {
	q := strings.ToUpper(query)
	if q == "" {
		return nil
	}
	var matches []Match
	for _, rec := range records {
		if d, ok := Score(q, strings.ToUpper(rec.Text)); ok {
			matches = append(matches, Match{Distance: d, Record: rec})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return a.Distance - b.Distance
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Score returns the minimum Hamming distance between query and any window of
// text that starts a word, has the query's length and shares its first byte.
// Both arguments must already be uppercased.
func Score(query, text string) (int, bool) {
	n := len(query)
	if n == 0 || n > len(text) {
		return 0, false
	}
	best, found := n+1, false
	for _, loc := range wordStart.FindAllStringIndex(text, -1) {
		start := loc[0]
		if start+n > len(text) {
			break
		}
		if text[start] != query[0] {
			continue
		}
		d := hamming(query, text[start:start+n])
		if d < best {
			best, found = d, true
			if d == 0 {
				break
			}
		}
	}
	return best, found
}

func hamming(a, b string) int {
	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}
