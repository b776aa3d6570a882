// Package index builds and incrementally updates the vector collection
// from a directory of text documents.
package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDocuments is returned when a rebuild finds nothing to index.
// It fires before any write: an empty document set is a configuration
// problem, not an excuse to wipe the collection.
var ErrNoDocuments = errors.New("index: no documents found")

// Document is one raw input file. The filename (not the path) is the
// authoritative source identifier used for dedup and citation.
type Document struct {
	Text   string
	Source string
}

// LoadDir reads every .txt and .md file directly inside dir, in
// filename order. Content is stripped of surrounding whitespace; files
// that are empty after stripping are dropped.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("index: document directory: %w", err)
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("index: read %s: %w", name, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		docs = append(docs, Document{Text: text, Source: name})
	}
	return docs, nil
}
