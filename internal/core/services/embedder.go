package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
	"github.com/careerline-labs/pathmatch/internal/logger"
)

// Ensure EmbedderService implements the interface.
var _ driving.EmbedderService = (*EmbedderService)(nil)

// Chunking limits for program descriptions.
const (
	programDescriptionLimit = 2000
	defaultEmbedBatchSize   = 10
)

// EmbedderService chunks program descriptions and writes their
// embeddings into the vector store. Re-embedding a program replaces
// its chunks wholesale.
type EmbedderService struct {
	catalog  driven.CatalogStore
	vectors  driven.VectorStore
	embedder driven.EmbeddingService

	now func() time.Time
}

// NewEmbedderService creates a new embedder service.
func NewEmbedderService(
	catalog driven.CatalogStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
) *EmbedderService {
	return &EmbedderService{
		catalog:  catalog,
		vectors:  vectors,
		embedder: embedder,
		now:      time.Now,
	}
}

// EmbedPrograms rebuilds the program chunk set. Programs without a
// description are skipped and counted; an embedding failure aborts the
// whole job rather than leaving a partially re-embedded corpus.
func (s *EmbedderService) EmbedPrograms(ctx context.Context, opts driving.EmbedOptions) (*driving.EmbedStats, error) {
	if err := s.embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}

	programs, err := s.catalog.ListPrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	logger.Info("Found %d programs to process", len(programs))

	stats := &driving.EmbedStats{}
	var chunks []domain.Chunk
	for _, p := range programs {
		if p.Description == "" {
			stats.Skipped++
			continue
		}
		chunks = append(chunks, s.buildChunk(p))
		stats.ProgramsProcessed++
	}
	logger.Info("Generated %d chunks, embedding in batches of %d", len(chunks), batchSize)

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vecs, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", start/batchSize+1, err)
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("embed batch %d: got %d vectors for %d texts",
				start/batchSize+1, len(vecs), len(batch))
		}
		for i := range batch {
			batch[i].Embedding = vecs[i]
		}
		logger.Debug("Embedded batch %d/%d", start/batchSize+1, (len(chunks)+batchSize-1)/batchSize)
	}

	stats.ChunksCreated = len(chunks)

	if opts.DryRun {
		logger.Info("Dry run: not writing %d chunks", len(chunks))
		return stats, nil
	}

	// Replace rather than accumulate: stale chunks from a previous model
	// run must not survive next to fresh ones.
	for _, c := range chunks {
		if err := s.vectors.DeleteBySource(ctx, domain.SourceProgram, c.SourceID); err != nil {
			return nil, fmt.Errorf("delete chunks for program %s: %w", c.SourceID, err)
		}
	}
	if err := s.vectors.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}
	logger.Info("Stored %d chunks", len(chunks))

	return stats, nil
}

// buildChunk creates the description chunk for a program.
func (s *EmbedderService) buildChunk(p domain.Program) domain.Chunk {
	desc := []rune(p.Description)
	if len(desc) > programDescriptionLimit {
		desc = desc[:programDescriptionLimit]
	}

	return domain.Chunk{
		ID:         uuid.NewString(),
		SourceType: domain.SourceProgram,
		SourceID:   p.ID,
		Text:       fmt.Sprintf("Program: %s\n\n%s", p.Name, string(desc)),
		Metadata: map[string]any{
			"model":        s.embedder.ModelName(),
			"program_name": p.Name,
			"chunk_type":   "description",
		},
		CreatedAt: s.now().UTC(),
	}
}
