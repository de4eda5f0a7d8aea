package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/verso/internal/models"
	"github.com/hyperjump/verso/internal/storage"
)

// Status reports every configured translation: whether it is loaded and how
// many verses the corpus, keyword index and storage hold.
func (e *Engine) Status(ctx context.Context) (*models.Status, error) {
	st := &models.Status{DefaultTranslation: e.corpus.DefaultTranslation}
	for _, name := range e.corpus.Names() {
		ts := models.TranslationStatus{Name: name, Source: e.corpus.Translations[name]}
		if idx, err := e.Corpus(name); err == nil {
			ts.Loaded = true
			ts.Verses = idx.Len()
		}
		if e.keywordIndex != nil {
			n, err := e.keywordIndex.Count(name)
			if err != nil {
				return nil, fmt.Errorf("keyword count for %s: %w", name, err)
			}
			ts.Indexed = n
		}
		if e.storage != nil {
			n, err := e.storage.CountVerses(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("stored count for %s: %w", name, err)
			}
			ts.Stored = n
			build, err := e.storage.LatestBuild(ctx, name)
			switch {
			case err == nil:
				ts.LastBuild = build
			case !errors.Is(err, storage.ErrNotFound):
				return nil, fmt.Errorf("last build for %s: %w", name, err)
			}
		}
		st.Translations = append(st.Translations, ts)
	}
	if len(e.diskPaths) > 0 {
		n, err := storage.DiskUsageBytes(e.diskPaths...)
		if err != nil {
			return nil, fmt.Errorf("disk usage: %w", err)
		}
		st.DiskUsageBytes = n
	}
	return st, nil
}
