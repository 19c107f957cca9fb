package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
	"github.com/careerline-labs/pathmatch/internal/logger"
)

// Ensure MatcherService implements the interface.
var _ driving.MatcherService = (*MatcherService)(nil)

// occupationDescriptionLimit bounds the description text fed into the
// occupation embedding. Very long O*NET descriptions dilute the signal
// and inflate embedding cost.
const occupationDescriptionLimit = 500

// MatcherService runs the two-stage occupation-to-program matching
// pipeline: occupations are mapped to pathways by embedding similarity,
// then ranked against programs restricted to those pathways, and the
// resulting edges replace the association table.
type MatcherService struct {
	catalog      driven.CatalogStore
	vectors      driven.VectorStore
	associations driven.AssociationStore
	embedder     driven.EmbeddingService

	// now is swappable for tests.
	now func() time.Time
}

// NewMatcherService creates a new matcher service.
func NewMatcherService(
	catalog driven.CatalogStore,
	vectors driven.VectorStore,
	associations driven.AssociationStore,
	embedder driven.EmbeddingService,
) *MatcherService {
	return &MatcherService{
		catalog:      catalog,
		vectors:      vectors,
		associations: associations,
		embedder:     embedder,
		now:          time.Now,
	}
}

// pathwayMatches maps an occupation code to its stage-1 pathway candidates.
type pathwayMatches map[string][]domain.MatchCandidate

// Run executes the pipeline. Any error aborts the whole run: stage 3 is
// never reached with incomplete stage 1/2 data, and a failed insert
// rolls back the entire replacement.
func (m *MatcherService) Run(ctx context.Context, params domain.MatchParams) (*domain.MatchReport, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	// Hard failure when the backend is down. Degraded output would be
	// worse than no output: scores across models are not comparable.
	if err := m.embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	report := &domain.MatchReport{DryRun: params.DryRun}

	logger.Section("Stage 1: Occupation → Pathway")

	pathways, pathwayVecs, err := m.embedPathways(ctx)
	if err != nil {
		return nil, fmt.Errorf("embed pathways: %w", err)
	}
	report.PathwaysEmbedded = len(pathways)

	occupations, occupationVecs, err := m.embedOccupations(ctx)
	if err != nil {
		return nil, fmt.Errorf("embed occupations: %w", err)
	}
	report.OccupationsEmbedded = len(occupations)

	occToPathways := m.mapOccupationsToPathways(occupations, occupationVecs, pathways, pathwayVecs, params)
	report.OccupationsWithPathway = len(occToPathways)
	logger.Info("Occupations with pathway matches: %d/%d", len(occToPathways), len(occupations))

	logger.Section("Stage 2: Occupation → Program")

	associations, comparisons, err := m.mapOccupationsToPrograms(
		ctx, occupations, occupationVecs, occToPathways, params,
	)
	if err != nil {
		return nil, fmt.Errorf("map occupations to programs: %w", err)
	}
	report.Comparisons = comparisons
	report.Associations = len(associations)

	matched := make(map[string]struct{})
	for _, a := range associations {
		matched[a.OccupationCode] = struct{}{}
	}
	report.OccupationsWithProgram = len(matched)
	logger.Info("Occupations with program matches: %d", len(matched))
	logger.Info("Total comparisons: %d, associations: %d", comparisons, len(associations))

	logger.Section("Stage 3: Persist Associations")

	if params.DryRun {
		logger.Info("Dry run: leaving association table untouched")
		return report, nil
	}

	if err := m.associations.ReplaceAll(ctx, associations); err != nil {
		return nil, fmt.Errorf("replace associations: %w", err)
	}
	logger.Info("Replaced association table with %d edges", len(associations))

	return report, nil
}

// embedPathways builds one embedding per pathway from its name, sector
// name and optional description.
func (m *MatcherService) embedPathways(ctx context.Context) ([]domain.Pathway, [][]float32, error) {
	pathways, err := m.catalog.ListPathways(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list pathways: %w", err)
	}

	texts := make([]string, len(pathways))
	for i, p := range pathways {
		sectorName := "Unknown"
		sector, err := m.catalog.GetSector(ctx, p.SectorID)
		if err == nil && sector != nil {
			sectorName = sector.Name
		}
		texts[i] = pathwayEmbeddingText(p, sectorName)
	}

	logger.Debug("Embedding %d pathways", len(pathways))
	vecs, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	return pathways, vecs, nil
}

// embedOccupations builds one embedding per occupation from its title
// and truncated description.
func (m *MatcherService) embedOccupations(ctx context.Context) ([]domain.Occupation, [][]float32, error) {
	occupations, err := m.catalog.ListOccupations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list occupations: %w", err)
	}

	texts := make([]string, len(occupations))
	for i, o := range occupations {
		texts[i] = occupationEmbeddingText(o)
	}

	logger.Debug("Embedding %d occupations", len(occupations))
	vecs, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	return occupations, vecs, nil
}

// mapOccupationsToPathways computes the full occupation x pathway
// similarity matrix and keeps, per occupation, up to TopKPathways
// candidates at or above PathwayThreshold. An occupation with no
// qualifying pathway is dropped; that is a legitimate empty result,
// not an error.
func (m *MatcherService) mapOccupationsToPathways(
	occupations []domain.Occupation,
	occupationVecs [][]float32,
	pathways []domain.Pathway,
	pathwayVecs [][]float32,
	params domain.MatchParams,
) pathwayMatches {
	sim := CosineSimilarityMatrix(occupationVecs, pathwayVecs)
	logger.Debug("Similarity matrix: %d x %d", len(occupationVecs), len(pathwayVecs))

	matches := make(pathwayMatches)
	for i, occ := range occupations {
		var kept []domain.MatchCandidate
		for _, cand := range TopK(sim[i], params.TopKPathways) {
			if cand.Score < params.PathwayThreshold {
				continue
			}
			cand.TargetID = pathways[cand.Index].ID
			kept = append(kept, cand)
		}
		if len(kept) > 0 {
			matches[occ.Code] = kept
		}
	}
	return matches
}

// mapOccupationsToPrograms ranks each retained occupation against the
// programs belonging to its matched pathways. Pathway membership is a
// hard filter: a program outside the matched set is never considered,
// whatever its raw similarity.
func (m *MatcherService) mapOccupationsToPrograms(
	ctx context.Context,
	occupations []domain.Occupation,
	occupationVecs [][]float32,
	occToPathways pathwayMatches,
	params domain.MatchParams,
) ([]domain.Association, int, error) {
	programVecs, programOrder, err := m.loadProgramEmbeddings(ctx)
	if err != nil {
		return nil, 0, err
	}
	logger.Debug("Loaded %d program embeddings", len(programVecs))

	programs, err := m.catalog.ListPrograms(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}
	programToPathway := make(map[string]string, len(programs))
	for _, p := range programs {
		programToPathway[p.ID] = p.PathwayID
	}

	now := m.now().UTC()
	var associations []domain.Association
	comparisons := 0

	for i, occ := range occupations {
		candidates, ok := occToPathways[occ.Code]
		if !ok {
			continue
		}

		matchedPathways := make(map[string]struct{}, len(candidates))
		for _, c := range candidates {
			matchedPathways[c.TargetID] = struct{}{}
		}

		var scored []domain.MatchCandidate
		for idx, programID := range programOrder {
			if _, ok := matchedPathways[programToPathway[programID]]; !ok {
				continue
			}
			comparisons++
			score := Cosine(occupationVecs[i], programVecs[programID])
			if score >= params.ProgramThreshold {
				scored = append(scored, domain.MatchCandidate{Index: idx, TargetID: programID, Score: score})
			}
		}

		sort.SliceStable(scored, func(a, b int) bool {
			if scored[a].Score != scored[b].Score {
				return scored[a].Score > scored[b].Score
			}
			return scored[a].Index < scored[b].Index
		})
		if len(scored) > params.MaxProgramsPerOccupation {
			scored = scored[:params.MaxProgramsPerOccupation]
		}

		for _, s := range scored {
			associations = append(associations, domain.Association{
				ProgramID:      s.TargetID,
				OccupationCode: occ.Code,
				Score:          s.Score,
				CreatedAt:      now,
			})
		}

		if (i+1)%100 == 0 {
			logger.Debug("Processed %d/%d occupations", i+1, len(occupations))
		}
	}

	return associations, comparisons, nil
}

// loadProgramEmbeddings reads stored program chunks and verifies they
// are compatible with the active backend. The occupation embeddings
// produced in this run and the program embeddings produced by an
// earlier job must come from the same model and dimensionality policy
// for the scores to mean anything.
func (m *MatcherService) loadProgramEmbeddings(ctx context.Context) (map[string][]float32, []string, error) {
	chunks, err := m.vectors.ListBySourceType(ctx, domain.SourceProgram)
	if err != nil {
		return nil, nil, fmt.Errorf("list program chunks: %w", err)
	}

	vecs := make(map[string][]float32, len(chunks))
	var order []string
	for _, c := range chunks {
		if len(c.Embedding) != m.embedder.Dimensions() {
			return nil, nil, fmt.Errorf("%w: chunk %s has %d dimensions, backend produces %d",
				domain.ErrEmbeddingMismatch, c.ID, len(c.Embedding), m.embedder.Dimensions())
		}
		if tag := c.ModelTag(); tag != "" && tag != m.embedder.ModelName() {
			return nil, nil, fmt.Errorf("%w: chunk %s embedded with %q, backend uses %q",
				domain.ErrEmbeddingMismatch, c.ID, tag, m.embedder.ModelName())
		}
		// First chunk per program wins; chunks arrive in insertion order.
		if _, ok := vecs[c.SourceID]; ok {
			continue
		}
		vecs[c.SourceID] = c.Embedding
		order = append(order, c.SourceID)
	}
	return vecs, order, nil
}

// validateParams rejects configurations that can only produce nonsense.
func validateParams(params domain.MatchParams) error {
	if params.TopKPathways <= 0 {
		return fmt.Errorf("%w: top-k pathways must be positive", domain.ErrInvalidInput)
	}
	if params.MaxProgramsPerOccupation <= 0 {
		return fmt.Errorf("%w: max programs per occupation must be positive", domain.ErrInvalidInput)
	}
	if params.PathwayThreshold < -1 || params.PathwayThreshold > 1 {
		return fmt.Errorf("%w: pathway threshold must be in [-1, 1]", domain.ErrInvalidInput)
	}
	if params.ProgramThreshold < -1 || params.ProgramThreshold > 1 {
		return fmt.Errorf("%w: program threshold must be in [-1, 1]", domain.ErrInvalidInput)
	}
	return nil
}

// pathwayEmbeddingText builds the embedding input for a pathway.
func pathwayEmbeddingText(p domain.Pathway, sectorName string) string {
	text := fmt.Sprintf("Pathway: %s\nSector: %s", p.Name, sectorName)
	if p.Description != "" {
		text += fmt.Sprintf("\nDescription: %s", p.Description)
	}
	return text
}

// occupationEmbeddingText builds the embedding input for an occupation.
func occupationEmbeddingText(o domain.Occupation) string {
	text := fmt.Sprintf("Occupation: %s", o.Title)
	if o.Description != "" {
		desc := []rune(o.Description)
		if len(desc) > occupationDescriptionLimit {
			desc = desc[:occupationDescriptionLimit]
		}
		text += fmt.Sprintf("\nDescription: %s", string(desc))
	}
	return text
}
