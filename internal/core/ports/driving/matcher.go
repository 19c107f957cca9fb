// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// MatcherService runs the two-stage occupation-to-program matching
// pipeline and persists the resulting association edges.
type MatcherService interface {
	// Run executes the pipeline: stage 1 maps occupations to pathways,
	// stage 2 ranks programs within matched pathways, stage 3 replaces
	// the association table. With params.DryRun the full result is
	// computed and reported but storage is left untouched.
	Run(ctx context.Context, params domain.MatchParams) (*domain.MatchReport, error)
}
