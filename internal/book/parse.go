package book

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hyperjump/verso/pkg/utils"
)

const errorTextLimit = 20

// reservedName is a placeholder book used in examples. It never names a real book.
const reservedName = "2 OPINIONS"

// ParseError reports book text that names no canonical book, or names one
// with a missing, stray or out-of-range numeric qualifier. Text is truncated
// for display.
type ParseError struct {
	Text  string
	input string
}

func newParseError(text string) *ParseError {
	return &ParseError{Text: utils.Truncate(text, errorTextLimit), input: text}
}

func (e *ParseError) Error() string {
	return "could not parse '" + e.Text + "' as book"
}

// Suggest returns the book closest to the text that failed to parse, matched
// against the full input rather than the truncated Text.
func (e *ParseError) Suggest() (Book, bool) {
	if e.input != "" {
		return Suggest(e.input)
	}
	return Suggest(e.Text)
}

// baseName maps an uppercased base name to its book(s). plain is the book named
// without a qualifier (0 when a qualifier is required); numbered[i] is the book
// for qualifier i+1.
type baseName struct {
	plain    Book
	numbered []Book
}

var baseNames = map[string]baseName{
	"GENESIS":       {plain: Genesis},
	"EXODUS":        {plain: Exodus},
	"LEVITICUS":     {plain: Leviticus},
	"NUMBERS":       {plain: Numbers},
	"DEUTERONOMY":   {plain: Deuteronomy},
	"JOSHUA":        {plain: Joshua},
	"JUDGES":        {plain: Judges},
	"RUTH":          {plain: Ruth},
	"SAMUEL":        {numbered: []Book{Samuel1, Samuel2}},
	"KINGS":         {numbered: []Book{Kings1, Kings2}},
	"CHRONICLES":    {numbered: []Book{Chronicles1, Chronicles2}},
	"EZRA":          {plain: Ezra},
	"NEHEMIAH":      {plain: Nehemiah},
	"ESTHER":        {plain: Esther},
	"JOB":           {plain: Job},
	"PSALMS":        {plain: Psalms},
	"PROVERBS":      {plain: Proverbs},
	"ECCLESIASTES":  {plain: Ecclesiastes},
	"SONGS":         {plain: SongOfSongs},
	"SONG OF SONGS": {plain: SongOfSongs},
	"ISAIAH":        {plain: Isaiah},
	"JEREMIAH":      {plain: Jeremiah},
	"LAMENTATIONS":  {plain: Lamentations},
	"EZEKIEL":       {plain: Ezekiel},
	"DANIEL":        {plain: Daniel},
	"HOSEA":         {plain: Hosea},
	"JOEL":          {plain: Joel},
	"AMOS":          {plain: Amos},
	"OBADIAH":       {plain: Obadiah},
	"JONAH":         {plain: Jonah},
	"MICAH":         {plain: Micah},
	"NAHUM":         {plain: Nahum},
	"HABAKKUK":      {plain: Habakkuk},
	"ZEPHANIAH":     {plain: Zephaniah},
	"HAGGAI":        {plain: Haggai},
	"ZECHARIAH":     {plain: Zechariah},
	"MALACHI":       {plain: Malachi},
	"MATTHEW":       {plain: Matthew},
	"MARK":          {plain: Mark},
	"LUKE":          {plain: Luke},
	"JOHN":          {plain: John, numbered: []Book{John1, John2, John3}},
	"ACTS":          {plain: Acts},
	"ROMANS":        {plain: Romans},
	"CORINTHIANS":   {numbered: []Book{Corinthians1, Corinthians2}},
	"GALATIANS":     {plain: Galatians},
	"EPHESIANS":     {plain: Ephesians},
	"PHILIPPIANS":   {plain: Philippians},
	"COLOSSIANS":    {plain: Colossians},
	"THESSALONIANS": {numbered: []Book{Thessalonians1, Thessalonians2}},
	"TIMOTHY":       {numbered: []Book{Timothy1, Timothy2}},
	"TITUS":         {plain: Titus},
	"PHILEMON":      {plain: Philemon},
	"HEBREWS":       {plain: Hebrews},
	"JAMES":         {plain: James},
	"PETER":         {numbered: []Book{Peter1, Peter2}},
	"JUDE":          {plain: Jude},
	"REVELATION":    {plain: Revelation},
}

// Parse resolves a book name such as "1 Kings", "1kings", "Kings 1", "song of songs"
// or "JOHN" to its canonical book. Case and surrounding whitespace are ignored.
func Parse(text string) (Book, error) {
	if normalizeName(text) == reservedName {
		return 0, newParseError(text)
	}
	name, qualifier, err := splitName(strings.TrimSpace(text))
	if err != nil {
		return 0, newParseError(text)
	}
	entry, ok := baseNames[normalizeName(name)]
	if !ok {
		return 0, newParseError(text)
	}
	if qualifier == 0 {
		if entry.plain == 0 {
			return 0, newParseError(text)
		}
		return entry.plain, nil
	}
	if int(qualifier) > len(entry.numbered) {
		return 0, newParseError(text)
	}
	return entry.numbered[qualifier-1], nil
}

// splitName separates s into its name and its numeric qualifier at the first
// alphabetic/numeric transition. A zero qualifier means none was given.
func splitName(s string) (name string, qualifier uint8, err error) {
	idx, ok := firstTransition(s)
	if !ok {
		return s, 0, nil
	}
	left := strings.TrimSpace(s[:idx])
	right := strings.TrimSpace(s[idx:])
	name, numeric := left, right
	if strings.ContainsAny(left, "0123456789") {
		name, numeric = right, left
	}
	n, err := strconv.ParseUint(numeric, 10, 8)
	if err != nil {
		return "", 0, err
	}
	if n == 0 {
		return "", 0, strconv.ErrRange
	}
	return name, uint8(n), nil
}

// firstTransition returns the byte offset of the first character whose alphabetic-ness
// differs from that of the first character, skipping whitespace.
func firstTransition(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	var leadingAlpha bool
	for i, r := range s {
		if i == 0 {
			leadingAlpha = unicode.IsLetter(r)
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}
		if unicode.IsLetter(r) != leadingAlpha {
			return i, true
		}
	}
	return 0, false
}

// Suggest returns the canonical book whose display name is closest to text, when
// it is within a small edit distance. Used for "did you mean" hints.
func Suggest(text string) (Book, bool) {
	const maxDistance = 3
	needle := normalizeName(text)
	if needle == "" {
		return 0, false
	}
	best, bestDist := Book(0), maxDistance+1
	for _, b := range All() {
		if d := utils.LevenshteinDistance(needle, normalizeName(b.Name())); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, best != 0
}
