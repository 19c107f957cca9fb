// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Deterministic for a fixed model version; no determinism is guaranteed
// across model upgrades, which is why stored chunks carry a model tag.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm) via a local inference server
//   - Voyage AI (voyage-2) via the cloud API
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size after normalisation.
	// Every vector written to the store has exactly this length.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the backend is reachable by making a lightweight
	// test request. Called once at startup so an unavailable backend
	// fails the run before any stage executes.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
