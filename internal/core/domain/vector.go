package domain

import "time"

// SourceType identifies which catalog entity a chunk was derived from.
type SourceType string

// Chunk source types.
const (
	SourcePathway    SourceType = "pathway"
	SourceOccupation SourceType = "occupation"
	SourceProgram    SourceType = "program"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	switch t {
	case SourcePathway, SourceOccupation, SourceProgram:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// Chunk is a unit of embedded text owned by a catalog entity. Programs
// currently produce one description chunk each; the schema allows more
// per entity without change.
type Chunk struct {
	// ID is a unique identifier (UUID).
	ID string

	// SourceType identifies the owning entity kind.
	SourceType SourceType

	// SourceID is the owning entity's ID (program ID, O*NET code...).
	SourceID string

	// Text is the content that was embedded.
	Text string

	// Embedding is the vector produced by the embedding backend.
	Embedding []float32

	// Metadata carries provenance tags such as the embedding model.
	Metadata map[string]any

	// CreatedAt is when the chunk was written.
	CreatedAt time.Time
}

// ModelTag returns the embedding model recorded in the chunk metadata,
// or empty if none was recorded.
func (c Chunk) ModelTag() string {
	if c.Metadata == nil {
		return ""
	}
	if v, ok := c.Metadata["model"].(string); ok {
		return v
	}
	return ""
}
