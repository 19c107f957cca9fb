package driven

import (
	"context"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// CatalogStore provides access to the reference catalog: sectors,
// pathways, occupations and programs. The matching core only reads it;
// writes happen during ingestion.
type CatalogStore interface {
	// SaveSector stores or updates a sector.
	SaveSector(ctx context.Context, sector domain.Sector) error

	// SavePathway stores or updates a pathway.
	SavePathway(ctx context.Context, pathway domain.Pathway) error

	// SaveOccupation stores or updates an occupation.
	SaveOccupation(ctx context.Context, occupation domain.Occupation) error

	// SaveProgram stores or updates a program.
	SaveProgram(ctx context.Context, program domain.Program) error

	// GetSector retrieves a sector by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetSector(ctx context.Context, id string) (*domain.Sector, error)

	// ListPathways returns all pathways.
	ListPathways(ctx context.Context) ([]domain.Pathway, error)

	// ListOccupations returns all occupations.
	ListOccupations(ctx context.Context) ([]domain.Occupation, error)

	// ListPrograms returns all programs.
	ListPrograms(ctx context.Context) ([]domain.Program, error)

	// GetProgramSummaries returns summaries for the given program IDs.
	// Missing IDs are silently omitted.
	GetProgramSummaries(ctx context.Context, ids []string) (map[string]domain.ProgramSummary, error)
}
