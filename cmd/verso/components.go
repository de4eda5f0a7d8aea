package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hyperjump/verso/internal/config"
	"github.com/hyperjump/verso/internal/indexer"
	"github.com/hyperjump/verso/internal/keyword"
	"github.com/hyperjump/verso/internal/reference"
	"github.com/hyperjump/verso/internal/search"
	"github.com/hyperjump/verso/internal/storage"
	"go.uber.org/zap"
)

// backend selects which stores a command needs.
type backend int

const (
	// backendLookup parses corpus files only; no keyword index, no storage.
	backendLookup backend = iota
	// backendMemory adds an in-memory keyword index built per run.
	backendMemory
	// backendPersistent uses the SQLite database and on-disk keyword index.
	backendPersistent
)

// Components holds initialized services.
type Components struct {
	Config       *config.Config
	Storage      storage.Storage
	KeywordIndex keyword.KeywordIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
	Loader       *translationLoader
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool, b backend) (*Components, error) {
	c := &Components{Config: cfg}
	var (
		engineOpts []search.EngineOption
		kw         *keyword.BleveIndex
		err        error
	)

	switch b {
	case backendPersistent:
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		c.Storage = store
		kw, err = keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
		}
		engineOpts = append(engineOpts, search.WithStorage(store, cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath))
	case backendMemory:
		kw, err = keyword.NewBleveIndex("")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
		}
	}
	if kw != nil {
		c.KeywordIndex = kw
		if cfg.Search.SpellCheckOrDefault() {
			engineOpts = append(engineOpts, search.WithSpellChecker(keyword.NewSpellChecker(kw)))
		}
	}
	refs, err := reference.New(cfg.Reference.Provider)
	if err != nil {
		c.Close()
		return nil, err
	}
	engineOpts = append(engineOpts, search.WithReferences(refs))

	// A nil *BleveIndex must not become a non-nil interface.
	var kwIndex keyword.KeywordIndex
	if kw != nil {
		kwIndex = kw
	}
	c.Engine = search.NewEngine(kwIndex, &cfg.Search, &cfg.Corpus, engineOpts...)

	idxOpts := []indexer.IndexerOption{}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	c.Indexer = indexer.NewIndexer(c.Storage, kwIndex, idxOpts...)
	c.Loader = &translationLoader{
		corpus:  &cfg.Corpus,
		indexer: c.Indexer,
		engine:  c.Engine,
		logger:  logger,
	}
	return c, nil
}

// translationLoader builds translations and swaps them into the engine. Builds
// are serialized so a watcher event and an API reload never interleave.
type translationLoader struct {
	mu      sync.Mutex
	corpus  *config.CorpusConfig
	indexer *indexer.Indexer
	engine  *search.Engine
	logger  *zap.Logger
}

// Load builds translation, reusing the last persisted build when its corpus
// file is unchanged and force is not set.
func (l *translationLoader) Load(ctx context.Context, translation string, force bool) (*indexer.Result, error) {
	path, ok := l.corpus.Translations[translation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", search.ErrUnknownTranslation, translation)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	res, err := l.indexer.IndexCorpus(ctx, translation, path, force)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", translation, err)
	}
	l.engine.SetCorpus(translation, res.Index)
	if l.logger != nil {
		l.logger.Info("translation loaded",
			zap.String("translation", translation),
			zap.Int("verses", res.Index.Len()),
			zap.Bool("skipped", res.Skipped))
	}
	return res, nil
}

// Reload rebuilds translation from its corpus file unconditionally.
func (l *translationLoader) Reload(ctx context.Context, translation string) error {
	_, err := l.Load(ctx, translation, true)
	return err
}

// LoadAll builds every configured translation. A translation whose corpus
// file cannot be read falls back to its stored verses when storage holds
// them; the remaining failures are returned together.
func (l *translationLoader) LoadAll(ctx context.Context, force bool) error {
	var errs []error
	for _, name := range l.corpus.Names() {
		_, err := l.Load(ctx, name, force)
		if err == nil {
			continue
		}
		idx, storedErr := l.indexer.LoadStored(ctx, name)
		if storedErr != nil {
			errs = append(errs, err)
			continue
		}
		if l.logger != nil {
			l.logger.Warn("corpus unavailable, serving stored verses",
				zap.String("translation", name), zap.Error(err))
		}
		l.engine.SetCorpus(name, idx)
	}
	return errors.Join(errs...)
}

// TranslationFor returns the configured translation whose corpus is path.
// Both sides are compared as absolute paths; the watcher reports absolute ones.
func (l *translationLoader) TranslationFor(path string) (string, bool) {
	path = absPath(path)
	for name, p := range l.corpus.Translations {
		if absPath(p) == path {
			return name, true
		}
	}
	return "", false
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
