package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu          sync.RWMutex
	sectors     map[string]domain.Sector
	pathways    map[string]domain.Pathway
	occupations map[string]domain.Occupation
	programs    map[string]domain.Program
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		sectors:     make(map[string]domain.Sector),
		pathways:    make(map[string]domain.Pathway),
		occupations: make(map[string]domain.Occupation),
		programs:    make(map[string]domain.Program),
	}
}

// SaveSector stores or updates a sector.
func (s *CatalogStore) SaveSector(_ context.Context, sector domain.Sector) error {
	if sector.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors[sector.ID] = sector
	return nil
}

// SavePathway stores or updates a pathway.
func (s *CatalogStore) SavePathway(_ context.Context, pathway domain.Pathway) error {
	if pathway.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pathways[pathway.ID] = pathway
	return nil
}

// SaveOccupation stores or updates an occupation.
func (s *CatalogStore) SaveOccupation(_ context.Context, occupation domain.Occupation) error {
	if occupation.Code == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupations[occupation.Code] = occupation
	return nil
}

// SaveProgram stores or updates a program.
func (s *CatalogStore) SaveProgram(_ context.Context, program domain.Program) error {
	if program.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[program.ID] = program
	return nil
}

// GetSector retrieves a sector by ID.
func (s *CatalogStore) GetSector(_ context.Context, id string) (*domain.Sector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sector, ok := s.sectors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sector, nil
}

// ListPathways returns all pathways ordered by ID.
func (s *CatalogStore) ListPathways(_ context.Context) ([]domain.Pathway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pathways := make([]domain.Pathway, 0, len(s.pathways))
	for _, p := range s.pathways {
		pathways = append(pathways, p)
	}
	sort.Slice(pathways, func(i, j int) bool { return pathways[i].ID < pathways[j].ID })
	return pathways, nil
}

// ListOccupations returns all occupations ordered by code.
func (s *CatalogStore) ListOccupations(_ context.Context) ([]domain.Occupation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occupations := make([]domain.Occupation, 0, len(s.occupations))
	for _, o := range s.occupations {
		occupations = append(occupations, o)
	}
	sort.Slice(occupations, func(i, j int) bool { return occupations[i].Code < occupations[j].Code })
	return occupations, nil
}

// ListPrograms returns all programs ordered by ID.
func (s *CatalogStore) ListPrograms(_ context.Context) ([]domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	programs := make([]domain.Program, 0, len(s.programs))
	for _, p := range s.programs {
		programs = append(programs, p)
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].ID < programs[j].ID })
	return programs, nil
}

// GetProgramSummaries returns summaries for the given program IDs.
func (s *CatalogStore) GetProgramSummaries(_ context.Context, ids []string) (map[string]domain.ProgramSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make(map[string]domain.ProgramSummary, len(ids))
	for _, id := range ids {
		p, ok := s.programs[id]
		if !ok {
			continue
		}
		summary := domain.ProgramSummary{ID: p.ID, Name: p.Name}
		if p.InstitutionName != "" {
			v := p.InstitutionName
			summary.Institution = &v
		}
		if p.DegreeType != "" {
			v := p.DegreeType
			summary.DegreeType = &v
		}
		if p.DurationYears != 0 {
			v := p.DurationYears
			summary.DurationYears = &v
		}
		if p.CostTotal != 0 {
			v := p.CostTotal
			summary.CostTotal = &v
		}
		summaries[id] = summary
	}
	return summaries, nil
}
