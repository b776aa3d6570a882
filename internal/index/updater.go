package index

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"ragkb/internal/embedding"
	"ragkb/internal/vectorstore"
)

// Updater adds documents to an existing collection without rebuilding
// it. Dedup is by source filename only: a file whose name is already
// indexed is skipped wholesale, with no content diffing. Renaming a
// changed file (or rebuilding) is the way to refresh stale content.
type Updater struct {
	splitter   Splitter
	embedder   embedding.Embedder
	store      *vectorstore.Store
	collection string
}

// NewUpdater creates an updater for one collection.
func NewUpdater(sp Splitter, e embedding.Embedder, s *vectorstore.Store, collection string) *Updater {
	return &Updater{splitter: sp, embedder: e, store: s, collection: collection}
}

// UpdateReport summarizes one incremental update run.
type UpdateReport struct {
	NewFiles     int
	SkippedFiles int
	FailedFiles  int
	ChunksAdded  int
}

// Apply indexes every document whose source filename is not yet in the
// collection. Failures on one file are logged and skipped; the run
// continues with the rest. Record ids embed the filename, the chunk
// index and a random suffix so they stay unique across the whole
// collection lifetime, including earlier updates of same-named chunks.
func (u *Updater) Apply(ctx context.Context, docs []Document) (*UpdateReport, error) {
	existing, err := u.existingSources(ctx)
	if err != nil {
		return nil, err
	}

	report := &UpdateReport{}
	for _, doc := range docs {
		if existing[doc.Source] {
			log.Printf("index: %s already indexed, skipping", doc.Source)
			report.SkippedFiles++
			continue
		}
		added, err := u.applyOne(ctx, doc)
		if err != nil {
			log.Printf("index: updating from %s: %v", doc.Source, err)
			report.FailedFiles++
			continue
		}
		if added == 0 {
			log.Printf("index: %s produced no chunks, skipping", doc.Source)
			report.SkippedFiles++
			continue
		}
		existing[doc.Source] = true
		report.NewFiles++
		report.ChunksAdded += added
		log.Printf("index: added %d chunks from %s", added, doc.Source)
	}
	return report, nil
}

func (u *Updater) applyOne(ctx context.Context, doc Document) (int, error) {
	chunks := u.splitter.Split(doc.Text)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := u.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Record{
			ID:        fmt.Sprintf("%s_chunk_%d_%s", doc.Source, i, uuid.NewString()[:8]),
			Text:      chunk,
			Metadata:  vectorstore.Metadata{Source: doc.Source, ChunkID: i},
			Embedding: vectors[i],
		}
	}
	if err := u.store.Add(ctx, u.collection, records); err != nil {
		return 0, fmt.Errorf("add: %w", err)
	}
	return len(records), nil
}

func (u *Updater) existingSources(ctx context.Context) (map[string]bool, error) {
	records, err := u.store.GetAll(ctx, u.collection)
	if err != nil {
		return nil, fmt.Errorf("index: list existing sources: %w", err)
	}
	sources := make(map[string]bool, len(records))
	for _, r := range records {
		sources[r.Metadata.Source] = true
	}
	return sources, nil
}
