package keyword

import (
	"slices"
	"strings"
	"sync"

	"github.com/hyperjump/verso/pkg/utils"
)

// Suggestion is a dictionary term close to a query term.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
	Score     float64
}

// SpellCheckResult is the outcome of checking every term of a query.
type SpellCheckResult struct {
	OriginalQuery   string
	CorrectedQuery  string
	MisspelledTerms []string
	HasCorrections  bool
}

// SpellChecker suggests corrections for query terms missing from the verse index.
type SpellChecker struct {
	dictionary     TermDictionary
	maxDistance    int
	minFreq        int
	maxSuggestions int

	mu      sync.RWMutex
	terms   []string
	termSet map[string]struct{}
	loaded  bool
}

// SpellCheckerOption is a functional option for configuring SpellChecker.
type SpellCheckerOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMinFrequency ignores dictionary terms found in fewer than f verses.
func WithMinFrequency(f int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if f >= 0 {
			s.minFreq = f
		}
	}
}

// WithMaxSuggestions sets the maximum number of suggestions returned per term.
func WithMaxSuggestions(n int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSpellChecker creates a SpellChecker over dict. The dictionary is read
// lazily on first use and again after Invalidate.
func NewSpellChecker(dict TermDictionary, opts ...SpellCheckerOption) *SpellChecker {
	s := &SpellChecker{
		dictionary:     dict,
		maxDistance:    2,
		minFreq:        1,
		maxSuggestions: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate drops the cached dictionary; call it after the index changes.
func (s *SpellChecker) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.terms = nil
	s.termSet = nil
	s.mu.Unlock()
}

func (s *SpellChecker) load() ([]string, map[string]struct{}, error) {
	s.mu.RLock()
	if s.loaded {
		terms, set := s.terms, s.termSet
		s.mu.RUnlock()
		return terms, set, nil
	}
	s.mu.RUnlock()

	terms, err := s.dictionary.GetAllTerms()
	if err != nil {
		return nil, nil, err
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}

	s.mu.Lock()
	s.terms, s.termSet, s.loaded = terms, set, true
	s.mu.Unlock()
	return terms, set, nil
}

// Check replaces every unknown term of query with its best suggestion.
// Terms with no suggestion are kept as typed.
func (s *SpellChecker) Check(query string) (*SpellCheckResult, error) {
	_, set, err := s.load()
	if err != nil {
		return nil, err
	}

	result := &SpellCheckResult{OriginalQuery: query}
	terms := strings.Fields(strings.ToLower(query))
	corrected := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := set[term]; ok {
			corrected = append(corrected, term)
			continue
		}
		suggestions, err := s.Suggest(term)
		if err != nil {
			return nil, err
		}
		if len(suggestions) == 0 {
			corrected = append(corrected, term)
			continue
		}
		result.HasCorrections = true
		result.MisspelledTerms = append(result.MisspelledTerms, term)
		corrected = append(corrected, suggestions[0].Term)
	}
	result.CorrectedQuery = strings.Join(corrected, " ")
	return result, nil
}

// Suggest returns dictionary terms within the maximum edit distance of term,
// best first: closer terms win, then more frequent ones.
func (s *SpellChecker) Suggest(term string) ([]Suggestion, error) {
	terms, _, err := s.load()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)

	var suggestions []Suggestion
	for _, dictTerm := range terms {
		if dictTerm == term {
			continue
		}
		lenDiff := len(dictTerm) - len(term)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > s.maxDistance {
			continue
		}
		distance := utils.LevenshteinDistance(term, dictTerm)
		if distance > s.maxDistance {
			continue
		}
		freq, err := s.dictionary.GetTermFrequency(dictTerm)
		if err != nil || freq < s.minFreq {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Term:      dictTerm,
			Distance:  distance,
			Frequency: freq,
			Score:     float64(freq) / float64(distance+1),
		})
	}

	slices.SortFunc(suggestions, func(a, b Suggestion) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Term, b.Term)
	})
	if len(suggestions) > s.maxSuggestions {
		suggestions = suggestions[:s.maxSuggestions]
	}
	return suggestions, nil
}

// IsMisspelled reports whether term is absent from the dictionary.
func (s *SpellChecker) IsMisspelled(term string) bool {
	_, set, err := s.load()
	if err != nil {
		return false
	}
	_, ok := set[strings.ToLower(term)]
	return !ok
}
