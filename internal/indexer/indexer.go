// Package indexer builds translations from corpus files into the corpus index,
// SQLite storage and the keyword index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/verso/internal/codec"
	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/keyword"
	"github.com/hyperjump/verso/internal/models"
	"github.com/hyperjump/verso/internal/storage"
	"go.uber.org/zap"
)

// Indexer builds translations. storage may be nil for a process-local build
// that only feeds the keyword index.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	logger       *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (translation parsed, build skipped, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(store storage.Storage, keywordIndex keyword.KeywordIndex, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		storage:      store,
		keywordIndex: keywordIndex,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Result is the outcome of building one translation.
type Result struct {
	Translation string
	Index       *corpus.Index
	Build       *models.Build
	// Skipped is true when the corpus file was unchanged since the last build
	// and the index was loaded from storage instead of reparsed.
	Skipped bool
}

// ReadCorpus reads and parses a corpus file.
func ReadCorpus(path string) (*corpus.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	idx, err := corpus.Parse(stripBOM(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return idx, nil
}

// IndexCorpus builds translation from the corpus file at path. Unless force is
// set, a file with the same path, mtime and size as the last recorded build is
// not reparsed: its verses are loaded from storage and the keyword index is
// repopulated only if its verse count disagrees.
func (idx *Indexer) IndexCorpus(ctx context.Context, translation, path string, force bool) (*Result, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat corpus: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer building translation", zap.String("translation", translation), zap.String("path", absPath))
	}

	if !force {
		res, err := idx.reuseBuild(ctx, translation, absPath, info)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}

	index, err := ReadCorpus(absPath)
	if err != nil {
		return nil, err
	}
	records := index.Records()

	if idx.storage != nil {
		if err := idx.storage.ReplaceVerses(ctx, translation, records); err != nil {
			return nil, fmt.Errorf("failed to store verses: %w", err)
		}
	}
	if err := idx.reindexKeywords(ctx, translation, records); err != nil {
		return nil, err
	}

	build := &models.Build{
		Translation:   translation,
		SourcePath:    absPath,
		SourceModTime: info.ModTime(),
		SourceSize:    info.Size(),
		VerseCount:    len(records),
	}
	if idx.storage != nil {
		if err := idx.storage.CreateBuild(ctx, build); err != nil {
			return nil, fmt.Errorf("failed to record build: %w", err)
		}
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer translation built",
			zap.String("translation", translation),
			zap.Int("verses", len(records)),
			zap.String("build_id", build.ID))
	}
	return &Result{Translation: translation, Index: index, Build: build}, nil
}

// reuseBuild returns a Result built from storage when the last build matches
// the file, or nil when the translation must be rebuilt.
func (idx *Indexer) reuseBuild(ctx context.Context, translation, absPath string, info os.FileInfo) (*Result, error) {
	if idx.storage == nil {
		return nil, nil
	}
	build, err := idx.storage.LatestBuild(ctx, translation)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last build: %w", err)
	}
	if build.SourcePath != absPath ||
		!build.SourceModTime.Equal(info.ModTime()) ||
		build.SourceSize != info.Size() {
		return nil, nil
	}

	records, err := idx.storage.ListVerses(ctx, translation)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored verses: %w", err)
	}
	if len(records) != build.VerseCount {
		return nil, nil
	}
	if idx.keywordIndex != nil {
		n, err := idx.keywordIndex.Count(translation)
		if err != nil {
			return nil, fmt.Errorf("failed to count keyword index: %w", err)
		}
		// Repopulates the keyword index if it was removed or opened empty.
		if n != uint64(len(records)) {
			if err := idx.reindexKeywords(ctx, translation, records); err != nil {
				return nil, err
			}
		}
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer skipping unchanged corpus", zap.String("translation", translation), zap.String("build_id", build.ID))
	}
	return &Result{Translation: translation, Index: corpus.FromRecords(records), Build: build, Skipped: true}, nil
}

func (idx *Indexer) reindexKeywords(ctx context.Context, translation string, records []corpus.Record) error {
	if idx.keywordIndex == nil {
		return nil
	}
	if err := idx.keywordIndex.DeleteTranslation(ctx, translation); err != nil {
		return fmt.Errorf("failed to clear keyword index: %w", err)
	}
	docs := make([]keyword.Document, len(records))
	for i, rec := range records {
		docs[i] = keyword.Document{
			Location: string(codec.Encode(rec.Address)),
			Text:     Preprocess(rec.Text),
		}
	}
	if err := idx.keywordIndex.Index(ctx, translation, docs); err != nil {
		return fmt.Errorf("failed to index keywords: %w", err)
	}
	return nil
}

// LoadStored rebuilds a translation's index from storage alone, for when its
// corpus file is unavailable.
func (idx *Indexer) LoadStored(ctx context.Context, translation string) (*corpus.Index, error) {
	if idx.storage == nil {
		return nil, fmt.Errorf("no storage configured for %s", translation)
	}
	records, err := idx.storage.ListVerses(ctx, translation)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored verses: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("translation %s: %w", translation, storage.ErrNotFound)
	}
	return corpus.FromRecords(records), nil
}
