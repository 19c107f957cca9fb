package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerline-labs/pathmatch/internal/adapters/driven/storage/memory"
	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
)

type embedderFixture struct {
	catalog  *memory.CatalogStore
	vectors  *memory.VectorStore
	embedder *stubEmbedder
	svc      *EmbedderService
}

func newEmbedderFixture(t *testing.T) *embedderFixture {
	t.Helper()
	f := &embedderFixture{
		catalog:  memory.NewCatalogStore(),
		vectors:  memory.NewVectorStore(),
		embedder: newStubEmbedder(3),
	}
	f.embedder.fallback = []float32{0.1, 0.2, 0.3}
	f.svc = NewEmbedderService(f.catalog, f.vectors, f.embedder)
	return f
}

func (f *embedderFixture) seedProgram(t *testing.T, id, name, description string) {
	t.Helper()
	require.NoError(t, f.catalog.SaveProgram(context.Background(), domain.Program{
		ID: id, Name: name, PathwayID: "pw-1", Description: description,
	}))
}

func TestEmbedPrograms_CreatesOneChunkPerProgram(t *testing.T) {
	f := newEmbedderFixture(t)
	f.seedProgram(t, "prog-a", "Nursing", "Learn nursing.")
	f.seedProgram(t, "prog-b", "Welding", "Learn welding.")

	stats, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.ProgramsProcessed)
	assert.Equal(t, 2, stats.ChunksCreated)
	assert.Zero(t, stats.Skipped)

	chunks, err := f.vectors.ListBySourceType(context.Background(), domain.SourceProgram)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, c.Embedding)
		assert.Equal(t, "stub-model", c.ModelTag())
		assert.False(t, c.CreatedAt.IsZero())
	}
	assert.Equal(t, "Program: Nursing\n\nLearn nursing.", chunks[0].Text)
}

func TestEmbedPrograms_SkipsEmptyDescriptions(t *testing.T) {
	f := newEmbedderFixture(t)
	f.seedProgram(t, "prog-a", "Nursing", "Learn nursing.")
	f.seedProgram(t, "prog-b", "No Description", "")

	stats, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProgramsProcessed)
	assert.Equal(t, 1, stats.Skipped)

	chunks, err := f.vectors.ListBySourceType(context.Background(), domain.SourceProgram)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "prog-a", chunks[0].SourceID)
}

func TestEmbedPrograms_TruncatesLongDescriptions(t *testing.T) {
	f := newEmbedderFixture(t)
	f.seedProgram(t, "prog-a", "Long", strings.Repeat("x", 3000))

	_, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{})

	require.NoError(t, err)
	require.Len(t, f.embedder.calls, 1)
	// "Program: Long\n\n" prefix plus the capped description.
	assert.Len(t, []rune(f.embedder.calls[0]), len("Program: Long\n\n")+2000)
}

func TestEmbedPrograms_DryRunWritesNothing(t *testing.T) {
	f := newEmbedderFixture(t)
	f.seedProgram(t, "prog-a", "Nursing", "Learn nursing.")

	stats, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.ChunksCreated)

	count, err := f.vectors.CountBySourceType(context.Background(), domain.SourceProgram)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEmbedPrograms_ReplacesExistingChunks(t *testing.T) {
	f := newEmbedderFixture(t)
	f.seedProgram(t, "prog-a", "Nursing", "Learn nursing.")
	require.NoError(t, f.vectors.SaveChunks(context.Background(), []domain.Chunk{{
		ID:         "stale-chunk",
		SourceType: domain.SourceProgram,
		SourceID:   "prog-a",
		Embedding:  []float32{9, 9, 9},
		CreatedAt:  time.Now(),
	}}))

	_, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{})

	require.NoError(t, err)
	chunks, err := f.vectors.ListBySourceType(context.Background(), domain.SourceProgram)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.NotEqual(t, "stale-chunk", chunks[0].ID)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, chunks[0].Embedding)
}

func TestEmbedPrograms_BackendUnavailable(t *testing.T) {
	f := newEmbedderFixture(t)
	f.embedder.pingErr = errors.New("connection refused")

	_, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{})

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestEmbedPrograms_BatchSizeSplitsRequests(t *testing.T) {
	f := newEmbedderFixture(t)
	for _, id := range []string{"prog-a", "prog-b", "prog-c"} {
		f.seedProgram(t, id, id, "description for "+id)
	}

	stats, err := f.svc.EmbedPrograms(context.Background(), driving.EmbedOptions{BatchSize: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, stats.ChunksCreated)
	assert.Len(t, f.embedder.calls, 3)
}
