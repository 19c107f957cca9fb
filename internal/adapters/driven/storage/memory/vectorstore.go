package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
	order  []string
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		chunks: make(map[string]domain.Chunk),
	}
}

// SaveChunks stores the given chunks, overwriting any with the same ID.
func (s *VectorStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return domain.ErrInvalidInput
		}
		if _, exists := s.chunks[chunk.ID]; !exists {
			s.order = append(s.order, chunk.ID)
		}
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// ListBySourceType returns all chunks of the given source type in insertion order.
func (s *VectorStore) ListBySourceType(_ context.Context, sourceType domain.SourceType) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Chunk
	for _, id := range s.order {
		chunk, ok := s.chunks[id]
		if !ok {
			continue
		}
		if chunk.SourceType == sourceType {
			out = append(out, chunk)
		}
	}
	return out, nil
}

// GetChunk retrieves a chunk by ID.
func (s *VectorStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// DeleteBySource removes all chunks for the given source.
func (s *VectorStore) DeleteBySource(_ context.Context, sourceType domain.SourceType, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, id := range s.order {
		chunk := s.chunks[id]
		if chunk.SourceType == sourceType && chunk.SourceID == sourceID {
			delete(s.chunks, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

// CountBySourceType returns the number of stored chunks for a source type.
func (s *VectorStore) CountBySourceType(_ context.Context, sourceType domain.SourceType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, chunk := range s.chunks {
		if chunk.SourceType == sourceType {
			count++
		}
	}
	return count, nil
}

// Ensure AssociationStore implements the interface.
var _ driven.AssociationStore = (*AssociationStore)(nil)

// AssociationStore is an in-memory implementation of driven.AssociationStore.
type AssociationStore struct {
	mu           sync.RWMutex
	associations []domain.Association
}

// NewAssociationStore creates a new in-memory association store.
func NewAssociationStore() *AssociationStore {
	return &AssociationStore{}
}

// ReplaceAll atomically replaces the full association set.
func (s *AssociationStore) ReplaceAll(_ context.Context, associations []domain.Association) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.associations = make([]domain.Association, len(associations))
	copy(s.associations, associations)
	return nil
}

// List returns all associations ordered by occupation then descending score.
func (s *AssociationStore) List(_ context.Context) ([]domain.Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Association, len(s.associations))
	copy(out, s.associations)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccupationCode != out[j].OccupationCode {
			return out[i].OccupationCode < out[j].OccupationCode
		}
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// ListByOccupation returns associations for one occupation, best score first.
func (s *AssociationStore) ListByOccupation(_ context.Context, occupationCode string) ([]domain.Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Association
	for _, a := range s.associations {
		if a.OccupationCode == occupationCode {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// Count returns the total number of stored associations.
func (s *AssociationStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.associations), nil
}
