// Package cli implements the pathmatch command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerline-labs/pathmatch/internal/adapters/driven/embedding"
	"github.com/careerline-labs/pathmatch/internal/adapters/driven/embedding/ollama"
	"github.com/careerline-labs/pathmatch/internal/adapters/driven/embedding/voyage"
	"github.com/careerline-labs/pathmatch/internal/adapters/driven/storage/sqlite"
	"github.com/careerline-labs/pathmatch/internal/config"
	"github.com/careerline-labs/pathmatch/internal/core/domain"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driven"
	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
	"github.com/careerline-labs/pathmatch/internal/core/services"
	"github.com/careerline-labs/pathmatch/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	cfgPath string
	verbose bool
)

// Services are wired once in initServices. Tests replace them directly.
var (
	cfg             *config.Config
	matcherService  driving.MatcherService
	searchService   driving.SearchService
	embedderService driving.EmbedderService
	ingestService   driving.IngestService
)

var rootCmd = &cobra.Command{
	Use:   "pathmatch",
	Short: "Occupation-to-program matching engine",
	Long: `pathmatch links O*NET occupations to education programs through
career pathways. Occupations, pathways and program descriptions are
embedded with the configured backend and matched by cosine similarity;
the resulting associations back the program search API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.pathmatch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// initServices wires stores, embedding backend and core services.
// It is a no-op when services are already present (tests inject them).
func initServices() error {
	if matcherService != nil && searchService != nil && embedderService != nil && ingestService != nil {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	embedder, err := newEmbeddingService(cfg)
	if err != nil {
		return err
	}

	catalog := store.CatalogStore()
	vectors := store.VectorStore()
	associations := store.AssociationStore()

	matcherService = services.NewMatcherService(catalog, vectors, associations, embedder)
	searchService = services.NewSearchService(vectors, catalog, embedder)
	embedderService = services.NewEmbedderService(catalog, vectors, embedder)
	ingestService = services.NewIngestService(catalog)

	return nil
}

// newEmbeddingService builds the configured backend wrapped in the
// fixed-dimension normaliser, so every stored vector has the same width
// regardless of the model's native output.
func newEmbeddingService(cfg *config.Config) (driven.EmbeddingService, error) {
	var inner driven.EmbeddingService

	switch domain.EmbeddingBackend(cfg.Embedding.Backend) {
	case domain.BackendLocal:
		inner = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case domain.BackendVoyage:
		svc, err := voyage.NewEmbeddingService(voyage.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("configure voyage backend: %w", err)
		}
		inner = svc
	default:
		return nil, fmt.Errorf("%w: unknown embedding backend %q", domain.ErrInvalidConfig, cfg.Embedding.Backend)
	}

	return embedding.NewFixedDimension(inner, embedding.DefaultDimensions), nil
}
