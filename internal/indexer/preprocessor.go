package indexer

import (
	"strings"
	"unicode"
)

const byteOrderMark = "\uFEFF"

// Preprocess normalizes verse text for the keyword index (trim, collapse whitespace).
// Stored and displayed text is left as the corpus has it.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}

// stripBOM drops a leading UTF-8 byte order mark, which would otherwise break
// the first line's fixed-width header.
func stripBOM(text string) string {
	return strings.TrimPrefix(text, byteOrderMark)
}
