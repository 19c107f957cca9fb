package cli

import (
	"context"
	"time"

	"github.com/careerline-labs/pathmatch/internal/adapters/driven/storage/memory"
	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
	"github.com/careerline-labs/pathmatch/internal/core/services"
)

// Ensure the stub satisfies the port.
var _ driven.EmbeddingService = (*stubEmbedder)(nil)

// stubEmbedder returns the same unit vector for every text so commands
// can run end-to-end without a backend.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int              { return 3 }
func (stubEmbedder) ModelName() string            { return "stub-model" }
func (stubEmbedder) Ping(_ context.Context) error { return nil }
func (stubEmbedder) Close() error                 { return nil }

// setupTestServices wires the commands to in-memory stores and a stub
// embedding backend, seeded with one matching program. Returns a cleanup
// that restores the previous services.
func setupTestServices() func() {
	prevMatcher := matcherService
	prevSearch := searchService
	prevEmbedder := embedderService
	prevIngest := ingestService

	catalog := memory.NewCatalogStore()
	vectors := memory.NewVectorStore()
	associations := memory.NewAssociationStore()
	embedder := stubEmbedder{}

	ctx := context.Background()
	_ = catalog.SaveSector(ctx, domain.Sector{ID: "sec-1", Name: "Health Science"})
	_ = catalog.SavePathway(ctx, domain.Pathway{ID: "pw-1", Name: "Therapeutic Services", SectorID: "sec-1"})
	_ = catalog.SaveOccupation(ctx, domain.Occupation{Code: "29-1141.00", Title: "Registered Nurses"})
	_ = catalog.SaveProgram(ctx, domain.Program{
		ID: "prog-1", Name: "BSN Nursing", PathwayID: "pw-1", Description: "A nursing degree",
	})
	_ = vectors.SaveChunks(ctx, []domain.Chunk{{
		ID:         "chunk-1",
		SourceType: domain.SourceProgram,
		SourceID:   "prog-1",
		Text:       "Program: BSN Nursing\n\nA nursing degree",
		Embedding:  []float32{1, 0, 0},
		Metadata:   map[string]any{"model": "stub-model"},
		CreatedAt:  time.Now(),
	}})

	matcherService = services.NewMatcherService(catalog, vectors, associations, embedder)
	searchService = services.NewSearchService(vectors, catalog, embedder)
	embedderService = services.NewEmbedderService(catalog, vectors, embedder)
	ingestService = services.NewIngestService(catalog)

	return func() {
		matcherService = prevMatcher
		searchService = prevSearch
		embedderService = prevEmbedder
		ingestService = prevIngest
	}
}
