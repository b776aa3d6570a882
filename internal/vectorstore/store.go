// Package vectorstore persists embedded document chunks in SQLite and
// answers nearest-neighbor queries over them.
//
// Similarity is cosine distance (see internal/mathutil): 0 means
// identical, 2 means opposite. The same metric applies at build time
// and query time, and distance thresholds elsewhere in the pipeline
// are calibrated against it.
package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when a batch add contains a record id
	// already present in the collection. The whole batch is rolled back.
	ErrDuplicateID = errors.New("vectorstore: duplicate record id")

	// ErrDimensionMismatch is returned when an embedding's length does
	// not match the collection's fixed dimension.
	ErrDimensionMismatch = errors.New("vectorstore: embedding dimension mismatch")

	// ErrCollectionNotFound is returned for operations on a collection
	// that has not been created.
	ErrCollectionNotFound = errors.New("vectorstore: collection not found")

	// ErrEmptyMetadata is returned when a record arrives without a
	// source filename. Metadata is validated at the store boundary.
	ErrEmptyMetadata = errors.New("vectorstore: record metadata missing source")
)

// Metadata identifies where a chunk came from.
type Metadata struct {
	Source  string // originating filename, used for dedup and citation
	ChunkID int    // 0-based order of the chunk within its source
}

// Record is one persisted chunk with its embedding. Records are
// immutable once written; they are removed only by a full collection
// rebuild.
type Record struct {
	ID        string
	Text      string
	Metadata  Metadata
	Embedding []float32
}

// SearchResult pairs a record with its distance to the query embedding.
type SearchResult struct {
	Record   Record
	Distance float32
}

func (r Record) validate() error {
	if r.ID == "" {
		return fmt.Errorf("vectorstore: record has empty id")
	}
	if r.Metadata.Source == "" {
		return fmt.Errorf("%w (id %s)", ErrEmptyMetadata, r.ID)
	}
	if len(r.Embedding) == 0 {
		return fmt.Errorf("%w: record %s has empty embedding", ErrDimensionMismatch, r.ID)
	}
	return nil
}
