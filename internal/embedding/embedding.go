// Package embedding converts text into fixed-length vectors via an
// external model. The pipeline depends only on the Embedder interface;
// concrete implementations decide how the call is satisfied.
package embedding

import "context"

// Embedder converts a batch of texts into vectors. Implementations
// must be deterministic for identical input and return one vector per
// input text, each of exactly Dimensions() length.
type Embedder interface {
	// Embed converts texts to vectors. Batched: index i of the result
	// corresponds to texts[i].
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed output vector length.
	Dimensions() int

	// Name identifies the model, for logging and build metadata.
	Name() string
}
