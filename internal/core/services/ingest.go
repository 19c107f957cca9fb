package services

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
	"github.com/careerline-labs/pathmatch/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// seedFile is the JSON layout of a catalog seed document.
type seedFile struct {
	Sectors []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Pathways []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Programs    []struct {
				ID              string  `json:"id"`
				Name            string  `json:"name"`
				Description     string  `json:"description"`
				InstitutionName string  `json:"institution_name"`
				DegreeType      string  `json:"degree_type"`
				DurationYears   float64 `json:"duration_years"`
				CostTotal       float64 `json:"cost_total"`
			} `json:"programs"`
		} `json:"pathways"`
	} `json:"sectors"`
	Occupations []struct {
		Code        string `json:"onet_code"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"occupations"`
}

// IngestService loads catalog seed data into the relational store.
type IngestService struct {
	catalog driven.CatalogStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(catalog driven.CatalogStore) *IngestService {
	return &IngestService{catalog: catalog}
}

// IngestCatalog parses a JSON seed document and upserts its contents.
// Entities are upserted top-down so foreign keys always resolve.
func (s *IngestService) IngestCatalog(ctx context.Context, r io.Reader) (*driving.IngestStats, error) {
	var seed seedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("%w: decode seed file: %v", domain.ErrInvalidInput, err)
	}

	stats := &driving.IngestStats{}

	for _, sec := range seed.Sectors {
		if sec.ID == "" || sec.Name == "" {
			return nil, fmt.Errorf("%w: sector requires id and name", domain.ErrInvalidInput)
		}
		if err := s.catalog.SaveSector(ctx, domain.Sector{ID: sec.ID, Name: sec.Name}); err != nil {
			return nil, fmt.Errorf("save sector %s: %w", sec.ID, err)
		}
		stats.Sectors++

		for _, pw := range sec.Pathways {
			if err := s.catalog.SavePathway(ctx, domain.Pathway{
				ID:          pw.ID,
				Name:        pw.Name,
				SectorID:    sec.ID,
				Description: pw.Description,
			}); err != nil {
				return nil, fmt.Errorf("save pathway %s: %w", pw.ID, err)
			}
			stats.Pathways++

			for _, pr := range pw.Programs {
				if err := s.catalog.SaveProgram(ctx, domain.Program{
					ID:              pr.ID,
					Name:            pr.Name,
					PathwayID:       pw.ID,
					Description:     pr.Description,
					InstitutionName: pr.InstitutionName,
					DegreeType:      pr.DegreeType,
					DurationYears:   pr.DurationYears,
					CostTotal:       pr.CostTotal,
				}); err != nil {
					return nil, fmt.Errorf("save program %s: %w", pr.ID, err)
				}
				stats.Programs++
			}
		}
	}

	for _, occ := range seed.Occupations {
		if occ.Code == "" {
			return nil, fmt.Errorf("%w: occupation requires onet_code", domain.ErrInvalidInput)
		}
		if err := s.catalog.SaveOccupation(ctx, domain.Occupation{
			Code:        occ.Code,
			Title:       occ.Title,
			Description: occ.Description,
		}); err != nil {
			return nil, fmt.Errorf("save occupation %s: %w", occ.Code, err)
		}
		stats.Occupations++
	}

	logger.Info("Ingested %d sectors, %d pathways, %d programs, %d occupations",
		stats.Sectors, stats.Pathways, stats.Programs, stats.Occupations)

	return stats, nil
}
