package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerline-labs/pathmatch/internal/adapters/driven/storage/memory"
	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

const validSeed = `{
  "sectors": [
    {
      "id": "sec-health",
      "name": "Health Science",
      "pathways": [
        {
          "id": "pw-care",
          "name": "Therapeutic Services",
          "description": "Direct patient care",
          "programs": [
            {
              "id": "prog-nursing",
              "name": "BSN Nursing",
              "description": "A nursing degree",
              "institution_name": "State University",
              "degree_type": "Bachelor",
              "duration_years": 4,
              "cost_total": 40000
            }
          ]
        }
      ]
    }
  ],
  "occupations": [
    {
      "onet_code": "29-1141.00",
      "title": "Registered Nurses",
      "description": "Provide patient care."
    }
  ]
}`

func TestIngestCatalog_LoadsSeed(t *testing.T) {
	catalog := memory.NewCatalogStore()
	svc := NewIngestService(catalog)

	stats, err := svc.IngestCatalog(context.Background(), strings.NewReader(validSeed))

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sectors)
	assert.Equal(t, 1, stats.Pathways)
	assert.Equal(t, 1, stats.Programs)
	assert.Equal(t, 1, stats.Occupations)

	ctx := context.Background()
	sector, err := catalog.GetSector(ctx, "sec-health")
	require.NoError(t, err)
	assert.Equal(t, "Health Science", sector.Name)

	pathways, err := catalog.ListPathways(ctx)
	require.NoError(t, err)
	require.Len(t, pathways, 1)
	assert.Equal(t, "sec-health", pathways[0].SectorID)

	programs, err := catalog.ListPrograms(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "pw-care", programs[0].PathwayID)
	assert.Equal(t, "State University", programs[0].InstitutionName)
	assert.InDelta(t, 40000.0, programs[0].CostTotal, 1e-9)

	occupations, err := catalog.ListOccupations(ctx)
	require.NoError(t, err)
	require.Len(t, occupations, 1)
	assert.Equal(t, "29-1141.00", occupations[0].Code)
}

func TestIngestCatalog_Upserts(t *testing.T) {
	catalog := memory.NewCatalogStore()
	svc := NewIngestService(catalog)
	ctx := context.Background()

	_, err := svc.IngestCatalog(ctx, strings.NewReader(validSeed))
	require.NoError(t, err)
	_, err = svc.IngestCatalog(ctx, strings.NewReader(validSeed))
	require.NoError(t, err)

	programs, err := catalog.ListPrograms(ctx)
	require.NoError(t, err)
	assert.Len(t, programs, 1, "re-ingesting must not duplicate entities")
}

func TestIngestCatalog_InvalidJSON(t *testing.T) {
	svc := NewIngestService(memory.NewCatalogStore())

	_, err := svc.IngestCatalog(context.Background(), strings.NewReader("{not json"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCatalog_SectorRequiresIDAndName(t *testing.T) {
	svc := NewIngestService(memory.NewCatalogStore())
	seed := `{"sectors": [{"id": "", "name": "Nameless"}]}`

	_, err := svc.IngestCatalog(context.Background(), strings.NewReader(seed))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCatalog_OccupationRequiresCode(t *testing.T) {
	svc := NewIngestService(memory.NewCatalogStore())
	seed := `{"occupations": [{"onet_code": "", "title": "Untitled"}]}`

	_, err := svc.IngestCatalog(context.Background(), strings.NewReader(seed))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCatalog_EmptySeed(t *testing.T) {
	svc := NewIngestService(memory.NewCatalogStore())

	stats, err := svc.IngestCatalog(context.Background(), strings.NewReader("{}"))

	require.NoError(t, err)
	assert.Zero(t, stats.Sectors)
	assert.Zero(t, stats.Occupations)
}
