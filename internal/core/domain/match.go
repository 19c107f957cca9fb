package domain

import "time"

// Default matching parameters. The pathway threshold is deliberately
// looser than the program threshold: stage 1 is a recall filter, stage 2
// does the precision work.
const (
	DefaultPathwayThreshold         = 0.25
	DefaultProgramThreshold         = 0.30
	DefaultTopKPathways             = 5
	DefaultMaxProgramsPerOccupation = 20
)

// MatchCandidate is one scored target during a matching stage.
type MatchCandidate struct {
	// Index is the target's position in the candidate slice. It breaks
	// score ties deterministically.
	Index int

	// TargetID is the matched entity's ID.
	TargetID string

	// Score is the cosine similarity to the source entity.
	Score float64
}

// Association is a persisted occupation-program edge produced by the
// matching pipeline.
type Association struct {
	ProgramID      string    `json:"program_id"`
	OccupationCode string    `json:"occupation_code"`
	Score          float64   `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

// MatchParams configures a pipeline run.
type MatchParams struct {
	// PathwayThreshold is the minimum stage-1 similarity, in [-1, 1].
	PathwayThreshold float64

	// ProgramThreshold is the minimum stage-2 similarity, in [-1, 1].
	ProgramThreshold float64

	// TopKPathways caps stage-1 candidates per occupation.
	TopKPathways int

	// MaxProgramsPerOccupation caps stage-2 associations per occupation.
	MaxProgramsPerOccupation int

	// DryRun computes everything but leaves the association table untouched.
	DryRun bool
}

// DefaultMatchParams returns the standard pipeline configuration.
func DefaultMatchParams() MatchParams {
	return MatchParams{
		PathwayThreshold:         DefaultPathwayThreshold,
		ProgramThreshold:         DefaultProgramThreshold,
		TopKPathways:             DefaultTopKPathways,
		MaxProgramsPerOccupation: DefaultMaxProgramsPerOccupation,
	}
}

// MatchReport summarises a pipeline run.
type MatchReport struct {
	DryRun                 bool `json:"dry_run"`
	PathwaysEmbedded       int  `json:"pathways_embedded"`
	OccupationsEmbedded    int  `json:"occupations_embedded"`
	OccupationsWithPathway int  `json:"occupations_with_pathway"`
	OccupationsWithProgram int  `json:"occupations_with_program"`
	Comparisons            int  `json:"comparisons"`
	Associations           int  `json:"associations"`
}
