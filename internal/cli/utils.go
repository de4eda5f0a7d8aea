// Package cli renders passages and search results for the verso command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/verso/internal/models"
	"github.com/hyperjump/verso/internal/search"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text", "json" or "" (text).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// Options controls text rendering.
type Options struct {
	Format OutputFormat
	// Links prints each verse's reference URL under it.
	Links bool
	// Highlight marks whole-word matches of its terms in keyword results.
	Highlight bool
}

const (
	highlightOpen  = "\x1b[1m"
	highlightClose = "\x1b[0m"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WritePassage writes a looked-up passage. A single verse prints as the book
// name followed by "chapter:verse text"; longer passages print a
// "Book chapter:" header before each chapter's verses.
func WritePassage(w io.Writer, passage *models.Passage, opts Options) error {
	if opts.Format == OutputJSON {
		return writeJSON(w, passage)
	}
	if len(passage.Verses) == 1 {
		v := passage.Verses[0]
		fmt.Fprintf(w, "%s\n%d:%d %s\n", v.Book, v.Chapter, v.Verse, v.Text)
		writeLink(w, v, opts)
		return nil
	}
	var chapter uint16
	for i, v := range passage.Verses {
		if i == 0 || v.Chapter != chapter {
			if i > 0 {
				fmt.Fprintln(w)
			}
			chapter = v.Chapter
			fmt.Fprintf(w, "%s %d:\n\n", v.Book, v.Chapter)
		}
		fmt.Fprintf(w, "%d %s\n", v.Verse, v.Text)
		writeLink(w, v, opts)
	}
	fmt.Fprintln(w)
	return nil
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, opts Options) error {
	if opts.Format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "Found %d results in %dms (%s, %s)\n", response.Total, response.QueryTime, response.Mode, response.Translation)
	for _, r := range response.Results {
		text := r.Verse.Text
		if opts.Highlight && response.Mode == models.ModeKeyword {
			text = search.Highlight(text, response.Query, highlightOpen, highlightClose)
		}
		fmt.Fprintln(w)
		if response.Mode == models.ModeApproximate {
			fmt.Fprintf(w, "%s (distance %d)\n%s\n", r.Verse.Reference, r.Distance, text)
		} else {
			fmt.Fprintf(w, "%s\n%s\n", r.Verse.Reference, text)
		}
		writeLink(w, r.Verse, opts)
	}
	if len(response.Results) == 0 && len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "\nDid you mean: %s?\n", response.Suggestions[0])
	}
	return nil
}

func writeLink(w io.Writer, v *models.Verse, opts Options) {
	if opts.Links && v.URL != "" {
		fmt.Fprintf(w, "  %s\n", v.URL)
	}
}

// WriteStatus writes engine status as a short table or JSON.
func WriteStatus(w io.Writer, st *models.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Default translation: %s\n", st.DefaultTranslation)
	for _, t := range st.Translations {
		loaded := "not loaded"
		if t.Loaded {
			loaded = "loaded"
		}
		fmt.Fprintf(w, "\n%s (%s)\n", t.Name, loaded)
		fmt.Fprintf(w, "  source:  %s\n", t.Source)
		fmt.Fprintf(w, "  verses:  %d\n", t.Verses)
		fmt.Fprintf(w, "  indexed: %d\n", t.Indexed)
		fmt.Fprintf(w, "  stored:  %d\n", t.Stored)
		if t.LastBuild != nil {
			fmt.Fprintf(w, "  built:   %s (%d verses)\n", t.LastBuild.CreatedAt.Format("2006-01-02 15:04:05"), t.LastBuild.VerseCount)
		}
	}
	if st.DiskUsageBytes > 0 {
		fmt.Fprintf(w, "\nDisk usage: %d bytes\n", st.DiskUsageBytes)
	}
	return nil
}
