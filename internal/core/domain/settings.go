package domain

// EmbeddingBackend identifies which embedding provider generates vectors.
type EmbeddingBackend string

// Available embedding backends.
const (
	// BackendLocal is a local inference server (Ollama).
	BackendLocal EmbeddingBackend = "local"

	// BackendVoyage is the Voyage AI cloud API.
	BackendVoyage EmbeddingBackend = "voyage"
)

// IsValid returns true if the backend is recognised.
func (b EmbeddingBackend) IsValid() bool {
	switch b {
	case BackendLocal, BackendVoyage:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this backend needs an API key.
func (b EmbeddingBackend) RequiresAPIKey() bool {
	return b == BackendVoyage
}

// String returns the string representation.
func (b EmbeddingBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b EmbeddingBackend) Description() string {
	switch b {
	case BackendLocal:
		return "Local (Ollama inference server)"
	case BackendVoyage:
		return "Voyage AI (cloud API)"
	default:
		return "Unknown"
	}
}
