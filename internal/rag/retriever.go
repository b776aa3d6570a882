package rag

import (
	"context"
	"errors"
	"fmt"

	"ragkb/internal/embedding"
	"ragkb/internal/vectorstore"
)

// Retriever answers nearest-neighbor lookups for a question: it embeds
// the question text and queries the vector store.
type Retriever struct {
	embedder   embedding.Embedder
	store      *vectorstore.Store
	collection string
}

// NewRetriever creates a retriever over one collection.
func NewRetriever(e embedding.Embedder, s *vectorstore.Store, collection string) *Retriever {
	return &Retriever{embedder: e, store: s, collection: collection}
}

// Retrieve returns up to topK chunks ranked by ascending cosine
// distance to the question. An empty or missing collection yields an
// empty result, not an error: a query racing a rebuild degrades to
// "no evidence" instead of failing.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]vectorstore.SearchResult, error) {
	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("rag: embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("rag: embedder returned %d vectors for one question", len(vectors))
	}

	results, err := r.store.Query(ctx, r.collection, vectors[0], topK)
	if errors.Is(err, vectorstore.ErrCollectionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rag: query collection %s: %w", r.collection, err)
	}
	return results, nil
}
