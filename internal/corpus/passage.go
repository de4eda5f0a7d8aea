package corpus

import (
	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/location"
)

// Passage is the result of a lookup: a whole book, a whole chapter, or the
// selected verses of one chapter.
type Passage struct {
	Book     book.Book
	Chapters []*Chapter
}

// Records flattens the passage into addressed verses, in order.
func (p *Passage) Records() []Record {
	var out []Record
	for _, ch := range p.Chapters {
		for _, v := range ch.Verses {
			out = append(out, Record{
				Address: location.Address{Book: p.Book, Chapter: ch.Number, Verse: v.Number},
				Text:    v.Text,
			})
		}
	}
	return out
}

// Lookup resolves a partial address. With no chapter it returns every chapter of
// the book; with no verse, the whole chapter; otherwise the matching verses.
func (idx *Index) Lookup(p location.PartialAddress) (*Passage, error) {
	if p.Book == 0 {
		return nil, ErrBookRequired
	}
	bi, err := idx.Book(p.Book)
	if err != nil {
		return nil, err
	}
	if p.Chapter == 0 {
		return &Passage{Book: p.Book, Chapters: bi.Chapters}, nil
	}
	ch, err := idx.Chapter(p.Book, p.Chapter)
	if err != nil {
		return nil, err
	}
	if p.Verse == nil {
		return &Passage{Book: p.Book, Chapters: []*Chapter{ch}}, nil
	}

	selected := &Chapter{Number: ch.Number}
	for _, v := range ch.Verses {
		if p.Verse.Contains(v.Number) {
			selected.Verses = append(selected.Verses, v)
		}
	}
	if len(selected.Verses) == 0 {
		return nil, &NotFoundError{
			Entity:   EntityVerse,
			Book:     p.Book,
			Location: &location.Location{Chapter: p.Chapter, Verse: p.Verse},
		}
	}
	return &Passage{Book: p.Book, Chapters: []*Chapter{selected}}, nil
}
