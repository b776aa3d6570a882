package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"ragkb/internal/embedding"
	"ragkb/internal/vectorstore"
)

// Splitter chunks one document's text. Satisfied by chunker.Recursive.
type Splitter interface {
	Split(text string) []string
	MaxSize() int
	Overlap() int
}

// Builder performs a full rebuild: chunk every document, embed all
// chunks in one batched call, replace the collection, add everything.
type Builder struct {
	splitter   Splitter
	embedder   embedding.Embedder
	store      *vectorstore.Store
	collection string
}

// NewBuilder creates a builder for one collection.
func NewBuilder(sp Splitter, e embedding.Embedder, s *vectorstore.Store, collection string) *Builder {
	return &Builder{splitter: sp, embedder: e, store: s, collection: collection}
}

// BuildReport summarizes a completed rebuild.
type BuildReport struct {
	Model        string        `json:"model"`
	EmbeddingDim int           `json:"embedding_dim"`
	ChunkSize    int           `json:"chunk_size"`
	ChunkOverlap int           `json:"chunk_overlap"`
	NumDocuments int           `json:"num_documents"`
	NumChunks    int           `json:"num_chunks"`
	Duration     time.Duration `json:"-"`
	TimeSeconds  float64       `json:"time_seconds"`
}

// Rebuild replaces the collection with the chunked, embedded documents.
// It fails fast with ErrNoDocuments before touching the store when the
// document set is empty. Record ids are chunk_<n> in chunk order; ids
// only need to be unique within one build since the collection is
// recreated from scratch.
func (b *Builder) Rebuild(ctx context.Context, docs []Document) (*BuildReport, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	start := time.Now()

	var records []vectorstore.Record
	var texts []string
	for _, doc := range docs {
		chunks := b.splitter.Split(doc.Text)
		if len(chunks) == 0 {
			log.Printf("index: document %s produced no chunks, skipping", doc.Source)
			continue
		}
		for i, chunk := range chunks {
			records = append(records, vectorstore.Record{
				ID:       fmt.Sprintf("chunk_%d", len(records)),
				Text:     chunk,
				Metadata: vectorstore.Metadata{Source: doc.Source, ChunkID: i},
			})
			texts = append(texts, chunk)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoDocuments
	}

	// One batched embedding call for the whole run; per-chunk calls
	// would dominate build latency.
	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("index: embed chunks: %w", err)
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("index: embedder returned %d vectors for %d chunks", len(vectors), len(records))
	}
	for i := range records {
		records[i].Embedding = vectors[i]
	}

	if err := b.store.CreateOrReplace(ctx, b.collection); err != nil {
		return nil, fmt.Errorf("index: replace collection: %w", err)
	}
	if err := b.store.Add(ctx, b.collection, records); err != nil {
		return nil, fmt.Errorf("index: add records: %w", err)
	}

	elapsed := time.Since(start)
	return &BuildReport{
		Model:        b.embedder.Name(),
		EmbeddingDim: b.embedder.Dimensions(),
		ChunkSize:    b.splitter.MaxSize(),
		ChunkOverlap: b.splitter.Overlap(),
		NumDocuments: len(docs),
		NumChunks:    len(records),
		Duration:     elapsed,
		TimeSeconds:  elapsed.Seconds(),
	}, nil
}

// WriteMeta writes the build report next to the index so later runs
// can see what produced it.
func (r *BuildReport) WriteMeta(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
