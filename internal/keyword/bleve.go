package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/verso/internal/codec"
)

const (
	fieldTranslation = "translation"
	fieldLocation    = "location"
	fieldText        = "text"

	batchSize = 1000
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer lowercases and tokenizes without stemming, so "begat"
	// only matches "begat".
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(fieldText, textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt(fieldTranslation, keywordFieldMapping)
	docMapping.AddFieldMappingsAt(fieldLocation, keywordFieldMapping)
	im.AddDocumentMapping("verse", docMapping)
	im.DefaultType = "verse"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path. An empty path builds an
// in-memory index that lives only as long as the process.
// If you change the index mapping in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := newMapping()
	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
		}
		return &BleveIndex{index: index}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index adds docs for translation in batches. A document already indexed at
// the same path is replaced.
func (b *BleveIndex) Index(ctx context.Context, translation string, docs []Document) error {
	batch := b.index.NewBatch()
	for i := range docs {
		doc := docs[i]
		doc.Translation = translation
		if err := batch.Index(DocID(translation, codec.Path(doc.Location)), doc); err != nil {
			return fmt.Errorf("failed to add %s to batch: %w", doc.Location, err)
		}
		if batch.Size() >= batchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.index.Batch(batch); err != nil {
				return fmt.Errorf("Bleve batch failed: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("Bleve batch failed: %w", err)
		}
	}
	return nil
}

// Search runs a match query on verse text, restricted to q.Translation and to
// verses at or below q.Scope, and returns up to q.Limit hits by relevance.
func (b *BleveIndex) Search(ctx context.Context, q *Query) ([]*Hit, error) {
	req := bleve.NewSearchRequest(buildQuery(q))
	req.Size = q.Limit
	req.Fields = []string{fieldLocation, fieldText}
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Hit, len(results.Hits))
	for i, hit := range results.Hits {
		loc, _ := hit.Fields[fieldLocation].(string)
		text, _ := hit.Fields[fieldText].(string)
		out[i] = &Hit{ID: hit.ID, Path: codec.Path(loc), Text: text, Score: hit.Score}
	}
	return out, nil
}

func buildQuery(q *Query) blevequery.Query {
	match := bleve.NewMatchQuery(q.Text)
	match.SetField(fieldText)
	parts := []blevequery.Query{match, translationQuery(q.Translation)}
	switch {
	case q.Scope == "":
	case q.Scope.Exact():
		tq := bleve.NewTermQuery(string(q.Scope))
		tq.SetField(fieldLocation)
		parts = append(parts, tq)
	default:
		// Trailing separator keeps "/1" from matching "/10/...".
		pq := bleve.NewPrefixQuery(string(q.Scope) + "/")
		pq.SetField(fieldLocation)
		parts = append(parts, pq)
	}
	return bleve.NewConjunctionQuery(parts...)
}

func translationQuery(translation string) blevequery.Query {
	tq := bleve.NewTermQuery(translation)
	tq.SetField(fieldTranslation)
	return tq
}

// DeleteTranslation removes every verse of translation.
func (b *BleveIndex) DeleteTranslation(ctx context.Context, translation string) error {
	for {
		req := bleve.NewSearchRequest(translationQuery(translation))
		req.Size = batchSize
		results, err := b.index.SearchInContext(ctx, req)
		if err != nil {
			return fmt.Errorf("Bleve search failed: %w", err)
		}
		if len(results.Hits) == 0 {
			return nil
		}
		batch := b.index.NewBatch()
		for _, hit := range results.Hits {
			batch.Delete(hit.ID)
		}
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("Bleve batch delete failed: %w", err)
		}
	}
}

// Count returns the number of verses indexed for translation.
func (b *BleveIndex) Count(translation string) (uint64, error) {
	req := bleve.NewSearchRequest(translationQuery(translation))
	req.Size = 0
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("Bleve count failed: %w", err)
	}
	return results.Total, nil
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// GetTermFrequency returns the number of verses containing term.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	q := bleve.NewTermQuery(term)
	q.SetField(fieldText)
	req := bleve.NewSearchRequest(q)
	req.Size = 0
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to search for term frequency: %w", err)
	}
	return int(results.Total), nil
}

// GetAllTerms returns all unique terms of the verse text field.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	dict, err := b.index.FieldDict(fieldText)
	if err != nil {
		return nil, fmt.Errorf("failed to read term dictionary: %w", err)
	}
	defer dict.Close()

	var terms []string
	for {
		entry, err := dict.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read term dictionary: %w", err)
		}
		if entry == nil {
			return terms, nil
		}
		terms = append(terms, entry.Term)
	}
}
