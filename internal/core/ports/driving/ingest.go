package driving

import (
	"context"
	"io"
)

// IngestStats summarises a catalog ingestion run.
type IngestStats struct {
	Sectors     int
	Pathways    int
	Programs    int
	Occupations int
}

// IngestService loads catalog seed data into the relational store.
type IngestService interface {
	// IngestCatalog parses a JSON seed document and upserts its
	// sectors, pathways, programs and occupations.
	IngestCatalog(ctx context.Context, r io.Reader) (*IngestStats, error)
}
