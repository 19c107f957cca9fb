package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerline-labs/pathmatch/internal/core/ports/driving"
)

var (
	embedDryRun    bool
	embedBatchSize int
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed program descriptions into the vector store",
	Long: `Generates embeddings for every program description and stores
them as chunks. Existing chunks for re-embedded programs are replaced,
so the vector store never mixes output from different model runs.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().BoolVar(&embedDryRun, "dry-run", false, "embed without writing chunks")
	embedCmd.Flags().IntVar(&embedBatchSize, "batch-size", 10, "texts per embedding request")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	if embedderService == nil {
		return errors.New("embedder service not configured")
	}

	cmd.Println("Embedding program descriptions...")

	stats, err := embedderService.EmbedPrograms(context.Background(), driving.EmbedOptions{
		BatchSize: embedBatchSize,
		DryRun:    embedDryRun,
	})
	if err != nil {
		return fmt.Errorf("embed failed: %w", err)
	}

	cmd.Printf("Programs processed: %d\n", stats.ProgramsProcessed)
	cmd.Printf("Chunks created:     %d\n", stats.ChunksCreated)
	cmd.Printf("Skipped (no text):  %d\n", stats.Skipped)
	if embedDryRun {
		cmd.Println("\nDry run: no chunks were written.")
	}

	return nil
}
