package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// seedProgramRow inserts the catalog rows a program depends on.
func seedProgramRow(t *testing.T, store *Store, programID string) {
	t.Helper()
	ctx := context.Background()
	catalog := store.CatalogStore()
	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Sector"}))
	require.NoError(t, catalog.SavePathway(ctx, domain.Pathway{ID: "pw-1", Name: "Pathway", SectorID: "sec-1"}))
	require.NoError(t, catalog.SaveProgram(ctx, domain.Program{ID: programID, Name: "Program", PathwayID: "pw-1"}))
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := setupTestStore(t)

	assert.NotEmpty(t, store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestCatalogStore_SectorRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	catalog := store.CatalogStore()

	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Health Science"}))

	got, err := catalog.GetSector(ctx, "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "Health Science", got.Name)
}

func TestCatalogStore_SectorUpsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	catalog := store.CatalogStore()

	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Old Name"}))
	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "New Name"}))

	got, err := catalog.GetSector(ctx, "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
}

func TestCatalogStore_GetSector_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.CatalogStore().GetSector(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_SaveSector_RequiresID(t *testing.T) {
	store := setupTestStore(t)

	err := store.CatalogStore().SaveSector(context.Background(), domain.Sector{Name: "No ID"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogStore_ListPathwaysOrdered(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	catalog := store.CatalogStore()

	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Sector"}))
	require.NoError(t, catalog.SavePathway(ctx, domain.Pathway{ID: "pw-b", Name: "B", SectorID: "sec-1"}))
	require.NoError(t, catalog.SavePathway(ctx, domain.Pathway{ID: "pw-a", Name: "A", SectorID: "sec-1"}))

	pathways, err := catalog.ListPathways(ctx)
	require.NoError(t, err)
	require.Len(t, pathways, 2)
	assert.Equal(t, "pw-a", pathways[0].ID)
	assert.Equal(t, "pw-b", pathways[1].ID)
}

func TestCatalogStore_ProgramRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	catalog := store.CatalogStore()

	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Sector"}))
	require.NoError(t, catalog.SavePathway(ctx, domain.Pathway{ID: "pw-1", Name: "Pathway", SectorID: "sec-1"}))
	require.NoError(t, catalog.SaveProgram(ctx, domain.Program{
		ID:              "prog-1",
		Name:            "BSN Nursing",
		PathwayID:       "pw-1",
		Description:     "A nursing degree",
		InstitutionName: "State University",
		DegreeType:      "Bachelor",
		DurationYears:   4,
		CostTotal:       40000,
	}))

	programs, err := catalog.ListPrograms(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "BSN Nursing", programs[0].Name)
	assert.Equal(t, "State University", programs[0].InstitutionName)
	assert.InDelta(t, 40000.0, programs[0].CostTotal, 1e-9)
}

func TestCatalogStore_GetProgramSummaries(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	catalog := store.CatalogStore()

	require.NoError(t, catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Sector"}))
	require.NoError(t, catalog.SavePathway(ctx, domain.Pathway{ID: "pw-1", Name: "Pathway", SectorID: "sec-1"}))
	require.NoError(t, catalog.SaveProgram(ctx, domain.Program{
		ID: "prog-full", Name: "Full", PathwayID: "pw-1",
		InstitutionName: "Uni", DegreeType: "BSc", DurationYears: 3, CostTotal: 30000,
	}))
	require.NoError(t, catalog.SaveProgram(ctx, domain.Program{
		ID: "prog-bare", Name: "Bare", PathwayID: "pw-1",
	}))

	summaries, err := catalog.GetProgramSummaries(ctx, []string{"prog-full", "prog-bare", "prog-missing"})
	require.NoError(t, err)
	require.Len(t, summaries, 2, "missing IDs are omitted")

	full := summaries["prog-full"]
	require.NotNil(t, full.Institution)
	assert.Equal(t, "Uni", *full.Institution)
	require.NotNil(t, full.DurationYears)
	assert.InDelta(t, 3.0, *full.DurationYears, 1e-9)

	bare := summaries["prog-bare"]
	assert.Nil(t, bare.Institution)
	assert.Nil(t, bare.DegreeType)
	assert.Nil(t, bare.DurationYears)
	assert.Nil(t, bare.CostTotal)
}

func TestCatalogStore_GetProgramSummaries_EmptyIDs(t *testing.T) {
	store := setupTestStore(t)

	summaries, err := store.CatalogStore().GetProgramSummaries(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestVectorStore_SaveAndListInInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	vectors := store.VectorStore()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, vectors.SaveChunks(ctx, []domain.Chunk{
		{
			ID: "chunk-b", SourceType: domain.SourceProgram, SourceID: "prog-1",
			Text: "second created first", Embedding: []float32{0.1, 0.2},
			Metadata: map[string]any{"model": "test-model"}, CreatedAt: now,
		},
		{
			ID: "chunk-a", SourceType: domain.SourceProgram, SourceID: "prog-2",
			Text: "first created second", Embedding: []float32{0.3, 0.4},
			CreatedAt: now,
		},
	}))

	chunks, err := vectors.ListBySourceType(ctx, domain.SourceProgram)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	// Insertion order, not lexical ID order.
	assert.Equal(t, "chunk-b", chunks[0].ID)
	assert.Equal(t, "chunk-a", chunks[1].ID)
	assert.Equal(t, []float32{0.1, 0.2}, chunks[0].Embedding)
	assert.Equal(t, "test-model", chunks[0].ModelTag())
}

func TestVectorStore_SaveChunks_RejectsInvalidSourceType(t *testing.T) {
	store := setupTestStore(t)

	err := store.VectorStore().SaveChunks(context.Background(), []domain.Chunk{{
		ID: "chunk-1", SourceType: "bogus", SourceID: "x", CreatedAt: time.Now(),
	}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_GetChunk(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.SaveChunks(ctx, []domain.Chunk{{
		ID: "chunk-1", SourceType: domain.SourceOccupation, SourceID: "29-1141.00",
		Text: "text", Embedding: []float32{1, 2, 3}, CreatedAt: time.Now().UTC(),
	}}))

	chunk, err := vectors.GetChunk(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOccupation, chunk.SourceType)
	assert.Equal(t, []float32{1, 2, 3}, chunk.Embedding)
}

func TestVectorStore_GetChunk_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.VectorStore().GetChunk(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_DeleteBySource(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", SourceType: domain.SourceProgram, SourceID: "prog-1", CreatedAt: time.Now()},
		{ID: "chunk-2", SourceType: domain.SourceProgram, SourceID: "prog-1", CreatedAt: time.Now()},
		{ID: "chunk-3", SourceType: domain.SourceProgram, SourceID: "prog-2", CreatedAt: time.Now()},
	}))

	require.NoError(t, vectors.DeleteBySource(ctx, domain.SourceProgram, "prog-1"))

	chunks, err := vectors.ListBySourceType(ctx, domain.SourceProgram)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "chunk-3", chunks[0].ID)
}

func TestVectorStore_CountBySourceType(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	vectors := store.VectorStore()

	require.NoError(t, vectors.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", SourceType: domain.SourceProgram, SourceID: "prog-1", CreatedAt: time.Now()},
		{ID: "chunk-2", SourceType: domain.SourceOccupation, SourceID: "29-1141.00", CreatedAt: time.Now()},
	}))

	count, err := vectors.CountBySourceType(ctx, domain.SourceProgram)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = vectors.CountBySourceType(ctx, domain.SourcePathway)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAssociationStore_ReplaceAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedProgramRow(t, store, "prog-1")
	associations := store.AssociationStore()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, associations.ReplaceAll(ctx, []domain.Association{
		{ProgramID: "prog-1", OccupationCode: "29-1141.00", Score: 0.8, CreatedAt: now},
	}))

	// Replacing swaps the whole set, not just the overlapping rows.
	require.NoError(t, associations.ReplaceAll(ctx, []domain.Association{
		{ProgramID: "prog-1", OccupationCode: "15-1252.00", Score: 0.6, CreatedAt: now},
	}))

	stored, err := associations.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "15-1252.00", stored[0].OccupationCode)
	assert.InDelta(t, 0.6, stored[0].Score, 1e-9)
}

func TestAssociationStore_ReplaceAllWithEmptySetClears(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedProgramRow(t, store, "prog-1")
	associations := store.AssociationStore()

	require.NoError(t, associations.ReplaceAll(ctx, []domain.Association{
		{ProgramID: "prog-1", OccupationCode: "29-1141.00", Score: 0.8, CreatedAt: time.Now()},
	}))
	require.NoError(t, associations.ReplaceAll(ctx, nil))

	count, err := associations.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAssociationStore_ListByOccupation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedProgramRow(t, store, "prog-1")
	require.NoError(t, store.CatalogStore().SaveProgram(ctx, domain.Program{
		ID: "prog-2", Name: "Other", PathwayID: "pw-1",
	}))
	associations := store.AssociationStore()

	now := time.Now().UTC()
	require.NoError(t, associations.ReplaceAll(ctx, []domain.Association{
		{ProgramID: "prog-1", OccupationCode: "29-1141.00", Score: 0.5, CreatedAt: now},
		{ProgramID: "prog-2", OccupationCode: "29-1141.00", Score: 0.9, CreatedAt: now},
		{ProgramID: "prog-1", OccupationCode: "15-1252.00", Score: 0.7, CreatedAt: now},
	}))

	got, err := associations.ListByOccupation(ctx, "29-1141.00")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "prog-2", got[0].ProgramID, "best score first")
	assert.Equal(t, "prog-1", got[1].ProgramID)
}

func TestFloat32BlobCodec_RoundTrip(t *testing.T) {
	original := []float32{0, 1, -1, 0.5, 3.14159, -2.71828}

	decoded := bytesToFloat32Slice(float32SliceToBytes(original))

	require.Len(t, decoded, len(original))
	for i := range original {
		assert.InDelta(t, original[i], decoded[i], 1e-7)
	}
}

func TestFloat32BlobCodec_Empty(t *testing.T) {
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
