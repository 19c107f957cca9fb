package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/careerline-labs/pathmatch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// catalog, vector and association store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pathmatch/data/pathmatch.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pathmatch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pathmatch.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CatalogStore returns a CatalogStore interface backed by this store.
func (s *Store) CatalogStore() driven.CatalogStore {
	return &catalogStore{store: s}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// AssociationStore returns an AssociationStore interface backed by this store.
func (s *Store) AssociationStore() driven.AssociationStore {
	return &associationStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Catalog Store ====================

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// SaveSector stores or updates a sector.
func (s *catalogStore) SaveSector(ctx context.Context, sector domain.Sector) error {
	if sector.ID == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sectors (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, sector.ID, sector.Name)
	if err != nil {
		return fmt.Errorf("saving sector: %w", err)
	}
	return nil
}

// SavePathway stores or updates a pathway.
func (s *catalogStore) SavePathway(ctx context.Context, pathway domain.Pathway) error {
	if pathway.ID == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO pathways (id, name, sector_id, description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sector_id = excluded.sector_id,
			description = excluded.description
	`, pathway.ID, pathway.Name, pathway.SectorID, pathway.Description)
	if err != nil {
		return fmt.Errorf("saving pathway: %w", err)
	}
	return nil
}

// SaveOccupation stores or updates an occupation.
func (s *catalogStore) SaveOccupation(ctx context.Context, occupation domain.Occupation) error {
	if occupation.Code == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO occupations (onet_code, title, description)
		VALUES (?, ?, ?)
		ON CONFLICT(onet_code) DO UPDATE SET
			title = excluded.title,
			description = excluded.description
	`, occupation.Code, occupation.Title, occupation.Description)
	if err != nil {
		return fmt.Errorf("saving occupation: %w", err)
	}
	return nil
}

// SaveProgram stores or updates a program.
func (s *catalogStore) SaveProgram(ctx context.Context, program domain.Program) error {
	if program.ID == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO programs
			(id, name, pathway_id, description, institution_name, degree_type, duration_years, cost_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			pathway_id = excluded.pathway_id,
			description = excluded.description,
			institution_name = excluded.institution_name,
			degree_type = excluded.degree_type,
			duration_years = excluded.duration_years,
			cost_total = excluded.cost_total
	`, program.ID, program.Name, program.PathwayID, program.Description,
		program.InstitutionName, program.DegreeType, program.DurationYears, program.CostTotal)
	if err != nil {
		return fmt.Errorf("saving program: %w", err)
	}
	return nil
}

// GetSector retrieves a sector by ID.
func (s *catalogStore) GetSector(ctx context.Context, id string) (*domain.Sector, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT id, name FROM sectors WHERE id = ?", id)

	var sector domain.Sector
	if err := row.Scan(&sector.ID, &sector.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sector: %w", err)
	}
	return &sector, nil
}

// ListPathways returns all pathways.
func (s *catalogStore) ListPathways(ctx context.Context) ([]domain.Pathway, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, sector_id, description FROM pathways ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pathways: %w", err)
	}
	defer rows.Close()

	var pathways []domain.Pathway //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Pathway
		if err := rows.Scan(&p.ID, &p.Name, &p.SectorID, &p.Description); err != nil {
			return nil, fmt.Errorf("scanning pathway: %w", err)
		}
		pathways = append(pathways, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pathways: %w", err)
	}
	return pathways, nil
}

// ListOccupations returns all occupations.
func (s *catalogStore) ListOccupations(ctx context.Context) ([]domain.Occupation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT onet_code, title, description FROM occupations ORDER BY onet_code
	`)
	if err != nil {
		return nil, fmt.Errorf("querying occupations: %w", err)
	}
	defer rows.Close()

	var occupations []domain.Occupation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var o domain.Occupation
		if err := rows.Scan(&o.Code, &o.Title, &o.Description); err != nil {
			return nil, fmt.Errorf("scanning occupation: %w", err)
		}
		occupations = append(occupations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating occupations: %w", err)
	}
	return occupations, nil
}

// ListPrograms returns all programs.
func (s *catalogStore) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, pathway_id, description, institution_name, degree_type, duration_years, cost_total
		FROM programs ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var programs []domain.Program //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.PathwayID, &p.Description,
			&p.InstitutionName, &p.DegreeType, &p.DurationYears, &p.CostTotal); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		programs = append(programs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	return programs, nil
}

// GetProgramSummaries returns summaries for the given program IDs.
func (s *catalogStore) GetProgramSummaries(ctx context.Context, ids []string) (map[string]domain.ProgramSummary, error) {
	summaries := make(map[string]domain.ProgramSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, name, institution_name, degree_type, duration_years, cost_total
		FROM programs WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("querying program summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			summary       domain.ProgramSummary
			institution   string
			degreeType    string
			durationYears float64
			costTotal     float64
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &institution, &degreeType,
			&durationYears, &costTotal); err != nil {
			return nil, fmt.Errorf("scanning program summary: %w", err)
		}
		if institution != "" {
			summary.Institution = &institution
		}
		if degreeType != "" {
			summary.DegreeType = &degreeType
		}
		if durationYears != 0 {
			summary.DurationYears = &durationYears
		}
		if costTotal != 0 {
			summary.CostTotal = &costTotal
		}
		summaries[summary.ID] = summary
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating program summaries: %w", err)
	}
	return summaries, nil
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// SaveChunks stores a batch of chunks in a single transaction.
func (s *vectorStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vector_chunks (id, source_type, source_id, text, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_type = excluded.source_type,
			source_id = excluded.source_id,
			text = excluded.text,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if !chunk.SourceType.IsValid() {
			return fmt.Errorf("%w: source type %q", domain.ErrInvalidInput, chunk.SourceType)
		}

		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, string(chunk.SourceType), chunk.SourceID,
			chunk.Text, embeddingBlob, string(metadataJSON), chunk.CreatedAt); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListBySourceType returns all chunks for a source type in insertion order.
func (s *vectorStore) ListBySourceType(ctx context.Context, sourceType domain.SourceType) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_type, source_id, text, embedding, metadata, created_at
		FROM vector_chunks WHERE source_type = ?
		ORDER BY rowid
	`, string(sourceType))
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *vectorStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_type, source_id, text, embedding, metadata, created_at
		FROM vector_chunks WHERE id = ?
	`, id)

	return scanChunkRow(row)
}

// DeleteBySource removes all chunks for one owning entity.
func (s *vectorStore) DeleteBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM vector_chunks WHERE source_type = ? AND source_id = ?",
		string(sourceType), sourceID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// CountBySourceType returns the number of stored chunks for a source type.
func (s *vectorStore) CountBySourceType(ctx context.Context, sourceType domain.SourceType) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vector_chunks WHERE source_type = ?",
		string(sourceType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ==================== Association Store ====================

// associationStore implements driven.AssociationStore.
type associationStore struct {
	store *Store
}

var _ driven.AssociationStore = (*associationStore)(nil)

// ReplaceAll deletes every existing association and bulk-inserts the new
// set inside one transaction. Any row failure rolls back the whole
// replacement.
func (s *associationStore) ReplaceAll(ctx context.Context, associations []domain.Association) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM associations"); err != nil {
		return fmt.Errorf("clearing associations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO associations (program_id, occupation_onet_code, score, created_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range associations {
		if _, err := stmt.ExecContext(ctx, a.ProgramID, a.OccupationCode, a.Score, a.CreatedAt); err != nil {
			return fmt.Errorf("inserting association (%s, %s): %w", a.ProgramID, a.OccupationCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// List returns all associations ordered by occupation then descending score.
func (s *associationStore) List(ctx context.Context) ([]domain.Association, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT program_id, occupation_onet_code, score, created_at
		FROM associations
		ORDER BY occupation_onet_code, score DESC, program_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying associations: %w", err)
	}
	defer rows.Close()

	return scanAssociations(rows)
}

// ListByOccupation returns associations for one occupation, best first.
func (s *associationStore) ListByOccupation(ctx context.Context, occupationCode string) ([]domain.Association, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT program_id, occupation_onet_code, score, created_at
		FROM associations WHERE occupation_onet_code = ?
		ORDER BY score DESC, program_id
	`, occupationCode)
	if err != nil {
		return nil, fmt.Errorf("querying associations by occupation: %w", err)
	}
	defer rows.Close()

	return scanAssociations(rows)
}

// Count returns the number of stored associations.
func (s *associationStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM associations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting associations: %w", err)
	}
	return count, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var sourceType string
	var embeddingBlob []byte
	var metadataJSON string

	if err := rows.Scan(&chunk.ID, &sourceType, &chunk.SourceID, &chunk.Text,
		&embeddingBlob, &metadataJSON, &chunk.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.SourceType = domain.SourceType(sourceType)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

// scanChunkRow scans a chunk from *sql.Row.
func scanChunkRow(row *sql.Row) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var sourceType string
	var embeddingBlob []byte
	var metadataJSON string

	if err := row.Scan(&chunk.ID, &sourceType, &chunk.SourceID, &chunk.Text,
		&embeddingBlob, &metadataJSON, &chunk.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.SourceType = domain.SourceType(sourceType)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

// scanAssociations scans multiple association rows.
func scanAssociations(rows *sql.Rows) ([]domain.Association, error) {
	var associations []domain.Association //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.Association
		if err := rows.Scan(&a.ProgramID, &a.OccupationCode, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning association: %w", err)
		}
		associations = append(associations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating associations: %w", err)
	}
	return associations, nil
}
