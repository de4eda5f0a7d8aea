// Package models defines the data structures exchanged by the engine, storage, CLI and HTTP API.
package models

import "time"

// Verse is one addressed verse as rendered to clients.
type Verse struct {
	Translation string `json:"translation"`
	Reference   string `json:"reference"`
	Book        string `json:"book"`
	Chapter     uint16 `json:"chapter"`
	Verse       uint16 `json:"verse"`
	Text        string `json:"text"`
	URL         string `json:"url,omitempty"`
}

// Build records one successful build of a translation's persistent index.
type Build struct {
	ID            string    `json:"id" db:"id"`
	Translation   string    `json:"translation" db:"translation"`
	SourcePath    string    `json:"source_path" db:"source_path"`
	SourceModTime time.Time `json:"source_mod_time" db:"source_mod_time"`
	SourceSize    int64     `json:"source_size" db:"source_size"`
	VerseCount    int       `json:"verse_count" db:"verse_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TranslationStatus describes one configured translation.
type TranslationStatus struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Loaded    bool   `json:"loaded"`
	Verses    int    `json:"verses"`
	Indexed   uint64 `json:"indexed"`
	Stored    int64  `json:"stored"`
	LastBuild *Build `json:"last_build,omitempty"`
}

// Status is the response of the status command and endpoint.
type Status struct {
	DefaultTranslation string              `json:"default_translation"`
	Translations       []TranslationStatus `json:"translations"`
	DiskUsageBytes     int64               `json:"disk_usage_bytes"`
}
