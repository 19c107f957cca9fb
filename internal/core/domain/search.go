package domain

// ScoredProgram is a ranked query-time search hit before hydration.
type ScoredProgram struct {
	// ProgramID is the matched program.
	ProgramID string

	// Score is the best cosine similarity across the program's chunks.
	Score float64

	// Preview is the first 160 characters of the winning chunk's text
	// with newlines collapsed to spaces.
	Preview string
}

// SearchResult is a hydrated search hit returned to callers.
type SearchResult struct {
	Program ProgramSummary `json:"program"`
	Score   float64        `json:"score"`
	Preview string         `json:"preview"`
}
