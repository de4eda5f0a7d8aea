package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/keyword"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/internal/storage"
	"go.uber.org/zap"
)

const kjv = "19023001 The LORD is my shepherd; I shall not want.\n" +
	"19023002 He maketh me to lie down in green pastures.\n" +
	"43003016 For God so loved the world.\n"

func testIndexer(t *testing.T, dir string) (*Indexer, *storage.SQLiteStorage, *keyword.BleveIndex) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	kwIndex, err := keyword.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kwIndex.Close() })
	return NewIndexer(store, kwIndex, WithLogger(zap.NewNop())), store, kwIndex
}

func writeCorpus(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestIndexCorpus_BuildsEverything(t *testing.T) {
	dir := t.TempDir()
	idx, store, kw := testIndexer(t, dir)
	ctx := context.Background()
	path := filepath.Join(dir, "kjv.dat")
	writeCorpus(t, path, kjv)

	res, err := idx.IndexCorpus(ctx, "kjv", path, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped {
		t.Error("first build should not be skipped")
	}
	if res.Index.Len() != 3 || res.Build.VerseCount != 3 {
		t.Errorf("verses: index %d, build %d; want 3", res.Index.Len(), res.Build.VerseCount)
	}
	if res.Build.ID == "" {
		t.Error("build ID should be assigned")
	}
	if n, _ := store.CountVerses(ctx, "kjv"); n != 3 {
		t.Errorf("stored verses = %d, want 3", n)
	}
	if n, _ := kw.Count("kjv"); n != 3 {
		t.Errorf("keyword docs = %d, want 3", n)
	}
	hits, err := kw.Search(ctx, &keyword.Query{Translation: "kjv", Text: "pastures", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Path != "/19/23/2" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestIndexCorpus_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	idx, _, kw := testIndexer(t, dir)
	ctx := context.Background()
	path := filepath.Join(dir, "kjv.dat")
	writeCorpus(t, path, kjv)

	first, err := idx.IndexCorpus(ctx, "kjv", path, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := idx.IndexCorpus(ctx, "kjv", path, false)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Skipped {
		t.Fatal("unchanged corpus should be skipped")
	}
	if second.Build.ID != first.Build.ID {
		t.Errorf("skipped build ID = %s, want %s", second.Build.ID, first.Build.ID)
	}
	text, err := second.Index.Text(location.Address{Book: book.John, Chapter: 3, Verse: 16})
	if err != nil || text != "For God so loved the world." {
		t.Errorf("Text = %q, %v", text, err)
	}

	// A cleared keyword index is repopulated on the skip path.
	if err := kw.DeleteTranslation(ctx, "kjv"); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.IndexCorpus(ctx, "kjv", path, false); err != nil {
		t.Fatal(err)
	}
	if n, _ := kw.Count("kjv"); n != 3 {
		t.Errorf("keyword docs after repopulate = %d, want 3", n)
	}

	forced, err := idx.IndexCorpus(ctx, "kjv", path, true)
	if err != nil {
		t.Fatal(err)
	}
	if forced.Skipped {
		t.Error("forced build should not be skipped")
	}
}

func TestIndexCorpus_RebuildsChanged(t *testing.T) {
	dir := t.TempDir()
	idx, store, _ := testIndexer(t, dir)
	ctx := context.Background()
	path := filepath.Join(dir, "kjv.dat")
	writeCorpus(t, path, kjv)
	if _, err := idx.IndexCorpus(ctx, "kjv", path, false); err != nil {
		t.Fatal(err)
	}

	writeCorpus(t, path, kjv+"43003017 For God sent not his Son into the world to condemn the world.\n")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	res, err := idx.IndexCorpus(ctx, "kjv", path, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped {
		t.Fatal("changed corpus should be rebuilt")
	}
	if n, _ := store.CountVerses(ctx, "kjv"); n != 4 {
		t.Errorf("stored verses = %d, want 4", n)
	}
}

func TestIndexCorpus_Errors(t *testing.T) {
	dir := t.TempDir()
	idx, _, _ := testIndexer(t, dir)
	ctx := context.Background()

	if _, err := idx.IndexCorpus(ctx, "kjv", filepath.Join(dir, "missing.dat"), false); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := idx.IndexCorpus(ctx, "kjv", dir, false); err == nil {
		t.Error("directory should fail")
	}

	bad := filepath.Join(dir, "bad.dat")
	writeCorpus(t, bad, "19023001 ok\n9902x001 broken\n")
	_, err := idx.IndexCorpus(ctx, "kjv", bad, false)
	var fe *corpus.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *corpus.FormatError", err)
	}
	if fe.Line != 2 {
		t.Errorf("Line = %d, want 2", fe.Line)
	}
}

func TestIndexCorpus_WithoutStorage(t *testing.T) {
	dir := t.TempDir()
	kw, err := keyword.NewBleveIndex("")
	if err != nil {
		t.Fatal(err)
	}
	defer kw.Close()
	idx := NewIndexer(nil, kw)
	path := filepath.Join(dir, "kjv.dat")
	writeCorpus(t, path, kjv)

	res, err := idx.IndexCorpus(context.Background(), "kjv", path, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Index.Len() != 3 {
		t.Errorf("Len = %d, want 3", res.Index.Len())
	}
	if _, err := idx.LoadStored(context.Background(), "kjv"); err == nil {
		t.Error("LoadStored without storage should fail")
	}
}

func TestLoadStored(t *testing.T) {
	dir := t.TempDir()
	idx, _, _ := testIndexer(t, dir)
	ctx := context.Background()
	path := filepath.Join(dir, "kjv.dat")
	writeCorpus(t, path, kjv)
	if _, err := idx.IndexCorpus(ctx, "kjv", path, false); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	index, err := idx.LoadStored(ctx, "kjv")
	if err != nil {
		t.Fatal(err)
	}
	if index.Len() != 3 {
		t.Errorf("Len = %d, want 3", index.Len())
	}
	if _, err := idx.LoadStored(ctx, "asv"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("LoadStored(asv) error = %v, want ErrNotFound", err)
	}
}

func TestReadCorpus_StripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.dat")
	writeCorpus(t, path, "\uFEFF"+kjv)
	index, err := ReadCorpus(path)
	if err != nil {
		t.Fatal(err)
	}
	if index.Len() != 3 {
		t.Errorf("Len = %d, want 3", index.Len())
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  The LORD  is\tmy shepherd ", "The LORD is my shepherd"},
		{"", ""},
		{"one", "one"},
	}
	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
