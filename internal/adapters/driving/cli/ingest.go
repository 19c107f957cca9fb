package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [seed-file]",
	Short: "Load a catalog seed file",
	Long: `Loads sectors, pathways, programs and occupations from a JSON
seed document. Existing entities with the same IDs are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	stats, err := ingestService.IngestCatalog(context.Background(), f)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Sectors:     %d\n", stats.Sectors)
	cmd.Printf("Pathways:    %d\n", stats.Pathways)
	cmd.Printf("Programs:    %d\n", stats.Programs)
	cmd.Printf("Occupations: %d\n", stats.Occupations)

	return nil
}
