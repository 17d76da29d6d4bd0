// Package embeddings defines the embedding provider contract.
package embeddings

import (
	"context"
	"errors"
)

// ErrEmbedding is returned when embedding generation fails.
var ErrEmbedding = errors.New("embedding failed")

// Embedder maps text to a fixed-dimension vector. Implementations must be
// deterministic for identical input; the dimension is fixed per deployment
// and validated by the content store at write time.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
