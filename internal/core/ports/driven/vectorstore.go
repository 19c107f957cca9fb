package driven

import (
	"context"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// VectorStore persists embedding chunks keyed by (source type, source id).
// Chunks are written in batches during embedding jobs and read in bulk at
// match and search time. There is no in-place update: re-embedding an
// entity deletes its chunks and writes new ones.
type VectorStore interface {
	// SaveChunks stores a batch of chunks in a single transaction.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListBySourceType returns all chunks for a source type, ordered by
	// insertion. Embeddings are fully loaded.
	ListBySourceType(ctx context.Context, sourceType domain.SourceType) ([]domain.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteBySource removes all chunks for one owning entity.
	DeleteBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) error

	// CountBySourceType returns the number of stored chunks for a source type.
	CountBySourceType(ctx context.Context, sourceType domain.SourceType) (int, error)
}
