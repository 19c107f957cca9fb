package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
	"github.com/careerline-labs/pathmatch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Preview and paging defaults for query-time search.
const (
	previewLength = 160
	defaultTopK   = 10
)

// SearchService ranks program chunks against ad hoc free-text queries.
// Unlike the batch pipeline there is no pathway pre-filter: the query
// is unstructured, so every chunk competes.
type SearchService struct {
	vectors  driven.VectorStore
	catalog  driven.CatalogStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(
	vectors driven.VectorStore,
	catalog driven.CatalogStore,
	embedder driven.EmbeddingService,
) *SearchService {
	return &SearchService{
		vectors:  vectors,
		catalog:  catalog,
		embedder: embedder,
	}
}

// Search embeds the query once, scores it against every stored program
// chunk, keeps the single best chunk per program and returns the topK
// programs hydrated with summary fields.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	logger.Debug("Search: query=%q, topK=%d", query, topK)

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.vectors.ListBySourceType(ctx, domain.SourceProgram)
	if err != nil {
		return nil, fmt.Errorf("list program chunks: %w", err)
	}
	logger.Debug("Scoring %d program chunks", len(chunks))

	// Best-scoring chunk per distinct program.
	best := make(map[string]domain.ScoredProgram)
	var order []string
	for _, c := range chunks {
		score := Cosine(queryVec, c.Embedding)
		prev, seen := best[c.SourceID]
		if !seen {
			order = append(order, c.SourceID)
		}
		if !seen || score > prev.Score {
			best[c.SourceID] = domain.ScoredProgram{
				ProgramID: c.SourceID,
				Score:     score,
				Preview:   makePreview(c.Text),
			}
		}
	}

	ranked := make([]domain.ScoredProgram, 0, len(best))
	for _, id := range order {
		ranked = append(ranked, best[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return s.hydrate(ctx, ranked)
}

// hydrate attaches program summary fields, preserving rank order.
// Programs deleted since embedding are skipped.
func (s *SearchService) hydrate(ctx context.Context, scored []domain.ScoredProgram) ([]domain.SearchResult, error) {
	if len(scored) == 0 {
		return []domain.SearchResult{}, nil
	}

	ids := make([]string, len(scored))
	for i, sp := range scored {
		ids[i] = sp.ProgramID
	}

	summaries, err := s.catalog.GetProgramSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get program summaries: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(scored))
	for _, sp := range scored {
		summary, ok := summaries[sp.ProgramID]
		if !ok {
			continue
		}
		results = append(results, domain.SearchResult{
			Program: summary,
			Score:   sp.Score,
			Preview: sp.Preview,
		})
	}
	return results, nil
}

// makePreview returns the first 160 characters of text with embedded
// newlines collapsed to spaces.
func makePreview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}
