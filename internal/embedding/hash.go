package embedding

import (
	"context"
	"hash/fnv"
	"strings"

	"ragkb/internal/mathutil"
)

// Compile-time interface check.
var _ Embedder = (*HashEmbedder)(nil)

// HashEmbedder is an offline fallback embedder: each lowercased word is
// feature-hashed into a fixed number of buckets and the bucket counts
// are L2-normalized. No model call, fully deterministic. Retrieval
// quality is bag-of-words level; intended for smoke runs and tests, not
// production answering.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hash embedder with the given output
// dimensionality (default 256 when dims <= 0).
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &HashEmbedder{dims: dims}
}

func (h *HashEmbedder) Name() string    { return "hash" }
func (h *HashEmbedder) Dimensions() int { return h.dims }

// Embed hashes every text independently; never fails.
func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.embedOne(t)
	}
	return out, nil
}

func (h *HashEmbedder) embedOne(text string) []float32 {
	v := make([]float32, h.dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]«»")
		if word == "" {
			continue
		}
		hasher := fnv.New32a()
		hasher.Write([]byte(word))
		v[hasher.Sum32()%uint32(h.dims)]++
	}
	return mathutil.Normalize(v)
}
