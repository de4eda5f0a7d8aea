// Package search provides the verse lookup and search engine.
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hyperjump/verso/internal/codec"
	"github.com/hyperjump/verso/internal/config"
	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/keyword"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/internal/matcher"
	"github.com/hyperjump/verso/internal/models"
	"github.com/hyperjump/verso/internal/reference"
	"github.com/hyperjump/verso/internal/storage"
)

var (
	// ErrUnknownTranslation is wrapped when a query names a translation that is
	// not configured or not loaded.
	ErrUnknownTranslation = errors.New("unknown translation")
	// ErrKeywordUnavailable is returned by keyword searches on an engine built
	// without a keyword index.
	ErrKeywordUnavailable = errors.New("keyword index not available")
)

// Engine answers lookups and searches over the loaded translations. Each
// translation's corpus index is immutable; SetCorpus swaps in a new one.
type Engine struct {
	mu      sync.RWMutex
	corpora map[string]*corpus.Index

	keywordIndex keyword.KeywordIndex
	spell        *keyword.SpellChecker
	refs         reference.Provider
	storage      storage.Storage
	diskPaths    []string
	config       *config.SearchConfig
	corpus       *config.CorpusConfig
	matches      *matchCache
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSpellChecker enables "did you mean" suggestions for empty keyword results.
func WithSpellChecker(sc *keyword.SpellChecker) EngineOption {
	return func(e *Engine) { e.spell = sc }
}

// WithReferences attaches external reference URLs to rendered verses.
func WithReferences(p reference.Provider) EngineOption {
	return func(e *Engine) { e.refs = p }
}

// WithStorage reports stored verse counts, last builds and disk usage of
// paths in Status.
func WithStorage(s storage.Storage, paths ...string) EngineOption {
	return func(e *Engine) {
		e.storage = s
		e.diskPaths = paths
	}
}

// NewEngine creates an engine. keywordIndex may be nil, in which case only
// lookups and approximate searches are served.
func NewEngine(keywordIndex keyword.KeywordIndex, cfg *config.SearchConfig, corpusCfg *config.CorpusConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		corpora:      make(map[string]*corpus.Index),
		keywordIndex: keywordIndex,
		config:       cfg,
		corpus:       corpusCfg,
		matches:      newMatchCache(cfg.CacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetCorpus installs or replaces the index of translation. Queries already
// running keep the index they started with.
func (e *Engine) SetCorpus(translation string, idx *corpus.Index) {
	e.mu.Lock()
	e.corpora[translation] = idx
	e.mu.Unlock()
	if e.spell != nil {
		e.spell.Invalidate()
	}
}

// Translations returns the loaded translation names, sorted.
func (e *Engine) Translations() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.corpora))
	for name := range e.corpora {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultTranslation returns the translation used when a query names none.
func (e *Engine) DefaultTranslation() string {
	return e.corpus.DefaultTranslation
}

// Corpus returns the index of translation; an empty name selects the default.
func (e *Engine) Corpus(translation string) (*corpus.Index, error) {
	if translation == "" {
		translation = e.corpus.DefaultTranslation
	}
	e.mu.RLock()
	idx, ok := e.corpora[translation]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTranslation, translation)
	}
	return idx, nil
}

// Lookup reads a book, chapter or verse selection directly from the corpus.
func (e *Engine) Lookup(translation string, p location.PartialAddress) (*corpus.Passage, error) {
	idx, err := e.Corpus(translation)
	if err != nil {
		return nil, err
	}
	return idx.Lookup(p)
}

// Resolve looks up a full "<book>.<chapter>:<verse>" reference.
func (e *Engine) Resolve(translation, text string) (*corpus.Passage, error) {
	addr, err := location.ParseReference(text)
	if err != nil {
		return nil, err
	}
	return e.Lookup(translation, addr.Partial())
}

// Search runs a free-text search within one translation, optionally scoped by
// query.Within.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query, e.config, e.corpus); err != nil {
		return nil, err
	}
	scope, err := location.ParseScope(query.Within)
	if err != nil {
		return nil, err
	}
	idx, err := e.Corpus(query.Translation)
	if err != nil {
		return nil, err
	}

	response := &models.SearchResponse{
		Query:       query.Query,
		Within:      query.Within,
		Translation: query.Translation,
		Mode:        query.Mode,
	}
	switch query.Mode {
	case models.ModeApproximate:
		e.searchApproximate(idx, query, scope, response)
	default:
		if err := e.searchKeyword(ctx, idx, query, scope, response); err != nil {
			return nil, err
		}
	}
	for i, r := range response.Results {
		r.Rank = i + 1
	}
	response.QueryTime = time.Since(startTime).Milliseconds()
	return response, nil
}

func (e *Engine) searchApproximate(idx *corpus.Index, query *models.SearchQuery, scope location.PartialAddress, response *models.SearchResponse) {
	key := cacheKey(query.Translation, query.Query, scope.String())
	matches, ok := e.matches.get(key, idx)
	if !ok {
		matches = matcher.Search(query.Query, idx.Scope(scope), 0)
		e.matches.set(key, idx, matches)
	}
	response.Total = len(matches)
	if len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}
	response.Results = make([]*models.SearchResult, len(matches))
	for i, m := range matches {
		response.Results[i] = &models.SearchResult{
			Verse:    e.ToVerse(query.Translation, m.Record),
			Distance: m.Distance,
		}
	}
}

type keywordHit struct {
	record corpus.Record
	score  float64
}

func (e *Engine) searchKeyword(ctx context.Context, idx *corpus.Index, query *models.SearchQuery, scope location.PartialAddress, response *models.SearchResponse) error {
	if e.keywordIndex == nil {
		return ErrKeywordUnavailable
	}
	size := query.Limit
	if scope.Verse != nil && scope.Verse.IsSpan() && e.config.TopKCandidates > size {
		// The path stops at the chapter, so over-fetch before the range filter.
		size = e.config.TopKCandidates
	}
	hits, err := e.keywordIndex.Search(ctx, &keyword.Query{
		Translation: query.Translation,
		Text:        query.Query,
		Scope:       codec.EncodePartial(scope),
		Limit:       size,
	})
	if err != nil {
		return fmt.Errorf("keyword search failed: %w", err)
	}

	found := make([]keywordHit, 0, len(hits))
	for _, h := range hits {
		addr, err := codec.Decode(h.Path)
		if err != nil {
			return err
		}
		text, err := idx.Text(addr)
		if err != nil {
			text = h.Text
		}
		found = append(found, keywordHit{record: corpus.Record{Address: addr, Text: text}, score: h.Score})
	}
	found = codec.Filter(found, scope, func(h keywordHit) location.Address { return h.record.Address })
	response.Total = len(found)
	if len(found) > query.Limit {
		found = found[:query.Limit]
	}
	slices.SortStableFunc(found, func(a, b keywordHit) int {
		return a.record.Address.Compare(b.record.Address)
	})

	response.Results = make([]*models.SearchResult, len(found))
	for i, h := range found {
		response.Results[i] = &models.SearchResult{
			Verse: e.ToVerse(query.Translation, h.record),
			Score: h.score,
		}
	}
	if len(found) == 0 && e.spell != nil {
		if check, err := e.spell.Check(query.Query); err == nil && check.HasCorrections {
			response.Suggestions = []string{check.CorrectedQuery}
		}
	}
	return nil
}

// ToVerse renders a record of translation for output, with its reference URL
// when a provider is configured.
func (e *Engine) ToVerse(translation string, rec corpus.Record) *models.Verse {
	if translation == "" {
		translation = e.corpus.DefaultTranslation
	}
	a := rec.Address
	v := &models.Verse{
		Translation: translation,
		Reference:   a.String(),
		Book:        a.Book.Name(),
		Chapter:     a.Chapter,
		Verse:       a.Verse,
		Text:        rec.Text,
	}
	if e.refs != nil {
		v.URL = e.refs.URL(translation, a.Book, a.Chapter, a.Verse)
	}
	return v
}

// Passage looks up p and renders it with reference URLs for output.
func (e *Engine) Passage(translation string, p location.PartialAddress) (*models.Passage, error) {
	if translation == "" {
		translation = e.corpus.DefaultTranslation
	}
	passage, err := e.Lookup(translation, p)
	if err != nil {
		return nil, err
	}
	records := passage.Records()
	out := &models.Passage{
		Translation: translation,
		Reference:   p.String(),
		Verses:      make([]*models.Verse, len(records)),
	}
	for i, rec := range records {
		out.Verses[i] = e.ToVerse(translation, rec)
	}
	return out, nil
}
