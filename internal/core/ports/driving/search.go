package driving

import (
	"context"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// SearchService answers ad hoc free-text queries over program chunks.
type SearchService interface {
	// Search embeds the query, ranks every stored program chunk by
	// cosine similarity, keeps the best chunk per program and returns
	// the topK programs hydrated with summary fields.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}
