package driving

import "context"

// EmbedStats summarises an embedding batch job.
type EmbedStats struct {
	ProgramsProcessed int
	ChunksCreated     int
	Skipped           int
}

// EmbedOptions configures an embedding batch job.
type EmbedOptions struct {
	// BatchSize is how many texts are embedded per backend call.
	BatchSize int

	// DryRun embeds nothing into storage; chunking and counts only.
	DryRun bool
}

// EmbedderService chunks program descriptions and stores their embeddings.
type EmbedderService interface {
	// EmbedPrograms rebuilds the program chunk set for every program
	// with a description. Existing chunks for a re-embedded program are
	// deleted before the new ones are written.
	EmbedPrograms(ctx context.Context, opts EmbedOptions) (*EmbedStats, error)
}
