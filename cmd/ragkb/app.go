package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ragkb/internal/config"
	"ragkb/internal/embedding"
	"ragkb/internal/generate"
	"ragkb/internal/rag"
	"ragkb/internal/vectorstore"
)

// openStore opens the vector store, creating its directory if needed.
func openStore(cfg *config.Config) (*vectorstore.Store, error) {
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	return vectorstore.Open(cfg.Storage.Path)
}

// newEmbedder builds the configured embedding provider.
func newEmbedder(cfg *config.Config) embedding.Embedder {
	if cfg.Embedding.Provider == "hash" {
		return embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	}
	return embedding.NewOllamaEmbedder(
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		cfg.Embedding.Dimensions,
		cfg.EmbeddingTimeout(),
	)
}

// newPolicy merges config overrides onto the built-in prompt policy.
func newPolicy(cfg *config.Config) rag.Policy {
	p := rag.DefaultPolicy()
	if v := cfg.Policy.SecurityInstruction; v != "" {
		p.SecurityInstruction = v
	}
	if v := cfg.Policy.NoEvidenceAnswer; v != "" {
		p.NoEvidenceAnswer = v
	}
	if v := cfg.Policy.RefusalAnswer; v != "" {
		p.RefusalAnswer = v
	}
	if v := cfg.Policy.BlockedAnswer; v != "" {
		p.BlockedAnswer = v
	}
	if len(cfg.Policy.ForbiddenTerms) > 0 {
		p.ForbiddenTerms = cfg.Policy.ForbiddenTerms
	}
	if len(cfg.Policy.RefusalMarkers) > 0 {
		p.RefusalMarkers = cfg.Policy.RefusalMarkers
	}
	return p
}

// newPipeline wires the full query path over an open store.
func newPipeline(cfg *config.Config, store *vectorstore.Store) *rag.Pipeline {
	retriever := rag.NewRetriever(newEmbedder(cfg), store, cfg.Storage.Collection)
	generator := generate.NewOllamaGenerator(
		cfg.Generation.BaseURL,
		cfg.Generation.Model,
		float64(cfg.Generation.Temperature),
		cfg.GenerationTimeout(),
	)
	return rag.NewPipeline(retriever, generator, newPolicy(cfg), cfg.Retrieval.TopK, cfg.Retrieval.Threshold)
}
