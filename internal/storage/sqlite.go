// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/verso/internal/book"
	"github.com/hyperjump/verso/internal/corpus"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS verses (
		translation TEXT NOT NULL,
		book INTEGER NOT NULL,
		chapter INTEGER NOT NULL,
		verse INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (translation, book, chapter, verse)
	);

	CREATE INDEX IF NOT EXISTS idx_verses_translation_seq ON verses(translation, seq);

	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		translation TEXT NOT NULL,
		source_path TEXT NOT NULL,
		source_mod_time INTEGER NOT NULL,
		source_size INTEGER NOT NULL,
		verse_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_builds_translation ON builds(translation, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceVerses deletes every stored verse of translation and inserts records
// in one transaction. seq keeps corpus order for ListVerses.
func (s *SQLiteStorage) ReplaceVerses(ctx context.Context, translation string, records []corpus.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM verses WHERE translation = ?`, translation); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verses (translation, book, chapter, verse, seq, text)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		a := rec.Address
		if _, err := stmt.ExecContext(ctx, translation, int(a.Book), a.Chapter, a.Verse, i, rec.Text); err != nil {
			return fmt.Errorf("failed to insert %s: %w", a, err)
		}
	}
	return tx.Commit()
}

// ListVerses returns every stored verse of translation in corpus order.
func (s *SQLiteStorage) ListVerses(ctx context.Context, translation string) ([]corpus.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT book, chapter, verse, text FROM verses
		 WHERE translation = ? ORDER BY seq`,
		translation,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []corpus.Record
	for rows.Next() {
		var ordinal int
		var rec corpus.Record
		if err := rows.Scan(&ordinal, &rec.Address.Chapter, &rec.Address.Verse, &rec.Text); err != nil {
			return nil, err
		}
		b, ok := book.Lookup(ordinal)
		if !ok {
			return nil, fmt.Errorf("stored verse has invalid book ordinal %d", ordinal)
		}
		rec.Address.Book = b
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetVerse returns the stored text at addr.
func (s *SQLiteStorage) GetVerse(ctx context.Context, translation string, addr location.Address) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM verses
		 WHERE translation = ? AND book = ? AND chapter = ? AND verse = ?`,
		translation, int(addr.Book), addr.Chapter, addr.Verse,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("verse %s in %s: %w", addr, translation, ErrNotFound)
	}
	return text, err
}

// Translations returns the names of translations with stored verses.
func (s *SQLiteStorage) Translations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT translation FROM verses ORDER BY translation`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateBuild records a build, assigning an ID and creation time when unset.
func (s *SQLiteStorage) CreateBuild(ctx context.Context, build *models.Build) error {
	if build.ID == "" {
		build.ID = uuid.New().String()
	}
	if build.CreatedAt.IsZero() {
		build.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, translation, source_path, source_mod_time, source_size, verse_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		build.ID, build.Translation, build.SourcePath, build.SourceModTime.UnixNano(),
		build.SourceSize, build.VerseCount, build.CreatedAt,
	)
	return err
}

// LatestBuild returns the most recent build of translation.
func (s *SQLiteStorage) LatestBuild(ctx context.Context, translation string) (*models.Build, error) {
	var b models.Build
	var modTime int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, translation, source_path, source_mod_time, source_size, verse_count, created_at
		 FROM builds WHERE translation = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		translation,
	).Scan(&b.ID, &b.Translation, &b.SourcePath, &modTime, &b.SourceSize, &b.VerseCount, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("build of %s: %w", translation, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	b.SourceModTime = time.Unix(0, modTime)
	return &b, nil
}

// CountVerses returns the number of stored verses of translation.
func (s *SQLiteStorage) CountVerses(ctx context.Context, translation string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verses WHERE translation = ?`, translation).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
