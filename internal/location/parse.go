package location

import (
	"strconv"
	"strings"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/pkg/utils"
)

// ParseLocation parses "3", "3:16" or "127:4-5". A missing ':' means the whole chapter.
func ParseLocation(text string) (Location, error) {
	text = strings.TrimSpace(text)
	chapterText, verseText, _ := strings.Cut(text, ":")
	chapter, err := parseChapter(chapterText)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Chapter: chapter}
	if verseText == "" {
		return loc, nil
	}
	verse, err := ParseVerse(verseText)
	if err != nil {
		return Location{}, err
	}
	loc.Verse = &verse
	return loc, nil
}

// ParseVerse parses a single verse "16" or an inclusive range "4-5".
func ParseVerse(text string) (VerseRange, error) {
	startText, endText, isSpan := strings.Cut(text, "-")
	start, err := parseVerseNumber(startText)
	if err != nil {
		return VerseRange{}, newParseError(FieldVerse, text, err)
	}
	if !isSpan {
		return VerseRange{Start: start}, nil
	}
	end, err := parseVerseNumber(endText)
	if err != nil {
		return VerseRange{}, newParseError(FieldVerse, text, err)
	}
	r, err := Span(start, end)
	if err != nil {
		return VerseRange{}, newParseError(FieldVerse, text, err)
	}
	return r, nil
}

// ParseReference parses the full grammar "<book>.<chapter>:<verse>", e.g. "john.3:16".
func ParseReference(text string) (Address, error) {
	bookText, rest, ok := strings.Cut(text, ".")
	if !ok {
		return Address{}, &FormatError{Text: utils.Truncate(text, formatTextLimit)}
	}
	chapterText, verseText, ok := strings.Cut(rest, ":")
	if !ok {
		return Address{}, &FormatError{Text: utils.Truncate(text, formatTextLimit)}
	}
	b, err := book.Parse(bookText)
	if err != nil {
		return Address{}, err
	}
	chapter, err := parseChapter(chapterText)
	if err != nil {
		return Address{}, err
	}
	verse, err := parseVerseNumber(verseText)
	if err != nil {
		return Address{}, newParseError(FieldVerse, verseText, err)
	}
	return Address{Book: b, Chapter: chapter, Verse: verse}, nil
}

// ParsePartial parses a book and an optional location given as separate arguments.
// An empty locationText selects the whole book.
func ParsePartial(bookText, locationText string) (PartialAddress, error) {
	b, err := book.Parse(bookText)
	if err != nil {
		return PartialAddress{}, err
	}
	if strings.TrimSpace(locationText) == "" {
		return PartialAddress{Book: b}, nil
	}
	loc, err := ParseLocation(locationText)
	if err != nil {
		return PartialAddress{}, err
	}
	return At(b, loc), nil
}

// ParseScope parses a single free-form string such as "Psalms", "John 3" or
// "Psalms 127:4-5". A trailing location is preferred, so "John 3" is chapter 3 of
// John; when the text before the last word is not a book, the whole string is
// parsed as a book name, so "Kings 1" still means 1 Kings.
func ParseScope(text string) (PartialAddress, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return PartialAddress{}, nil
	}
	var locErr error
	if idx := strings.LastIndexAny(text, " \t"); idx >= 0 {
		if b, err := book.Parse(text[:idx]); err == nil {
			loc, err := ParseLocation(text[idx+1:])
			if err == nil {
				return At(b, loc), nil
			}
			locErr = err
		}
	}
	b, err := book.Parse(text)
	if err != nil {
		if locErr != nil {
			return PartialAddress{}, locErr
		}
		return PartialAddress{}, err
	}
	return PartialAddress{Book: b}, nil
}

func parseChapter(text string) (uint16, error) {
	n, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		return 0, newParseError(FieldChapter, text, err)
	}
	if n == 0 {
		return 0, newParseError(FieldChapter, text, errZeroChapter)
	}
	return uint16(n), nil
}

func parseVerseNumber(text string) (uint16, error) {
	n, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errZeroVerse
	}
	return uint16(n), nil
}
