package search

import (
	"regexp"
	"strings"
)

// Highlight wraps each whole-word, case-insensitive occurrence of a query term
// in text with open and close.
func Highlight(text, query, open, close string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return text
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return text
	}
	return re.ReplaceAllString(text, open+"${1}"+close)
}
