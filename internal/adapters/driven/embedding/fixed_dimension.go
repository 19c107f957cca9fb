// Package embedding provides shared behaviour for embedding service adapters.
package embedding

import (
	"context"

	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
)

// Ensure FixedDimension implements the interface.
var _ driven.EmbeddingService = (*FixedDimension)(nil)

// DefaultDimensions is the storage dimensionality every vector is
// normalised to, chosen to match the widest backend in use. Narrower
// models are zero-padded, wider ones truncated, so vectors written by
// different model variants stay comparable.
const DefaultDimensions = 1024

// FixedDimension wraps an embedding service and pads or truncates every
// vector it produces to a fixed length. Normalisation happens at
// embedding time only; compare-time code must never re-normalise.
type FixedDimension struct {
	inner driven.EmbeddingService
	dim   int
}

// NewFixedDimension wraps inner so all vectors have exactly dim entries.
func NewFixedDimension(inner driven.EmbeddingService, dim int) *FixedDimension {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &FixedDimension{inner: inner, dim: dim}
}

// Embed generates a vector embedding for the given text.
func (f *FixedDimension) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := f.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return fit(vec, f.dim), nil
}

// EmbedBatch generates embeddings for multiple texts efficiently.
func (f *FixedDimension) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := f.inner.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i, v := range vecs {
		vecs[i] = fit(v, f.dim)
	}
	return vecs, nil
}

// Dimensions returns the normalised vector size.
func (f *FixedDimension) Dimensions() int {
	return f.dim
}

// ModelName returns the name of the underlying embedding model.
func (f *FixedDimension) ModelName() string {
	return f.inner.ModelName()
}

// Ping validates the underlying backend is reachable.
func (f *FixedDimension) Ping(ctx context.Context) error {
	return f.inner.Ping(ctx)
}

// Close releases resources.
func (f *FixedDimension) Close() error {
	return f.inner.Close()
}

// fit pads vec with zeros or truncates it to exactly dim entries.
func fit(vec []float32, dim int) []float32 {
	switch {
	case len(vec) == dim:
		return vec
	case len(vec) > dim:
		return vec[:dim]
	default:
		out := make([]float32, dim)
		copy(out, vec)
		return out
	}
}
