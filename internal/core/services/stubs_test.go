package services

import (
	"context"
	"fmt"

	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
)

// Ensure the stub satisfies the port.
var _ driven.EmbeddingService = (*stubEmbedder)(nil)

// stubEmbedder returns canned vectors keyed by exact input text, or a
// fallback vector when none is registered. It records every text it is
// asked to embed.
type stubEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	dims     int
	model    string
	pingErr  error
	calls    []string
}

func newStubEmbedder(dims int) *stubEmbedder {
	return &stubEmbedder{
		vectors: make(map[string][]float32),
		dims:    dims,
		model:   "stub-model",
	}
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls = append(s.calls, text)
	if v, ok := s.vectors[text]; ok {
		return append([]float32(nil), v...), nil
	}
	if s.fallback != nil {
		return append([]float32(nil), s.fallback...), nil
	}
	return nil, fmt.Errorf("no stub vector for %q", text)
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int {
	return s.dims
}

func (s *stubEmbedder) ModelName() string {
	return s.model
}

func (s *stubEmbedder) Ping(_ context.Context) error {
	return s.pingErr
}

func (s *stubEmbedder) Close() error {
	return nil
}
