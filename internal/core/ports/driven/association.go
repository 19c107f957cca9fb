package driven

import (
	"context"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// AssociationStore persists occupation-program edges.
type AssociationStore interface {
	// ReplaceAll deletes every existing association and bulk-inserts the
	// given set in a single transaction. A failure on any row rolls back
	// the whole replacement, so readers never observe a partial set.
	ReplaceAll(ctx context.Context, associations []domain.Association) error

	// List returns all associations ordered by occupation code then
	// descending score.
	List(ctx context.Context) ([]domain.Association, error)

	// ListByOccupation returns associations for one occupation, ordered
	// by descending score.
	ListByOccupation(ctx context.Context, occupationCode string) ([]domain.Association, error)

	// Count returns the number of stored associations.
	Count(ctx context.Context) (int, error)
}
