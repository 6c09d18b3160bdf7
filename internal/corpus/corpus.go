// Package corpus loads the essay collection: a meta.csv describing each
// essay (text_id, title, link) and a data directory of plain-text files
// named <text_id>.txt. Essays are immutable once loaded; downstream stages
// reference them without taking ownership.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Essay is one essay with its citation metadata and full content.
type Essay struct {
	// TextID is the corpus identifier from meta.csv.
	TextID string

	// Title is the essay title.
	Title string

	// URL is the canonical URL of the essay.
	URL string

	// Filename is the content file name (<text_id>.txt).
	Filename string

	// Content is the full essay text, leading/trailing whitespace trimmed.
	Content string
}

// Meta is one meta.csv row, without content.
type Meta struct {
	// TextID is the corpus identifier.
	TextID string
	// Title is the essay title.
	Title string
	// URL is the canonical essay URL.
	URL string
	// Filename is the derived content file name.
	Filename string
}

// LoadMeta reads essay metadata from a meta.csv file with header columns
// text_id, title, link. Rows are returned in file order.
func LoadMeta(path string) ([]Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open meta csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("corpus: read meta csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"text_id", "title", "link"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("corpus: meta csv missing column %q", required)
		}
	}

	var metas []Meta
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corpus: read meta csv row: %w", err)
		}

		textID := row[col["text_id"]]
		metas = append(metas, Meta{
			TextID:   textID,
			Title:    row[col["title"]],
			URL:      row[col["link"]],
			Filename: textID + ".txt",
		})
	}

	return metas, nil
}

// LoadEssays reads the content file for each metadata row from dataDir.
// Missing files are logged as warnings and skipped rather than failing the
// whole load, so a partial corpus still indexes.
func LoadEssays(dataDir string, metas []Meta, log *slog.Logger) ([]Essay, error) {
	if log == nil {
		log = slog.Default()
	}

	if _, err := os.Stat(dataDir); err != nil {
		return nil, fmt.Errorf("corpus: data directory %s: %w", dataDir, err)
	}

	essays := make([]Essay, 0, len(metas))
	for _, meta := range metas {
		path := filepath.Join(dataDir, meta.Filename)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("corpus: skipping essay",
				slog.String("file", path),
				slog.Any("error", err),
			)
			continue
		}

		essays = append(essays, Essay{
			TextID:   meta.TextID,
			Title:    meta.Title,
			URL:      meta.URL,
			Filename: meta.Filename,
			Content:  strings.TrimSpace(string(data)),
		})
	}

	return essays, nil
}
