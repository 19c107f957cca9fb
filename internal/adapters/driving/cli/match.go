package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

var (
	matchDryRun           bool
	matchPathwayThreshold float64
	matchProgramThreshold float64
	matchMaxPrograms      int
	matchTopKPathways     int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run the occupation-to-program matching pipeline",
	Long: `Runs the full two-stage matching pipeline.
Stage 1 maps each occupation to its closest career pathways.
Stage 2 ranks programs within those pathways against the occupation.
Stage 3 replaces the stored associations with the new set.`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchDryRun, "dry-run", false, "compute matches without persisting them")
	matchCmd.Flags().Float64Var(&matchPathwayThreshold, "pathway-threshold", domain.DefaultPathwayThreshold,
		"minimum occupation-pathway similarity")
	matchCmd.Flags().Float64Var(&matchProgramThreshold, "program-threshold", domain.DefaultProgramThreshold,
		"minimum occupation-program similarity")
	matchCmd.Flags().IntVar(&matchMaxPrograms, "max-programs", domain.DefaultMaxProgramsPerOccupation,
		"maximum programs kept per occupation")
	matchCmd.Flags().IntVar(&matchTopKPathways, "top-k-pathways", domain.DefaultTopKPathways,
		"maximum pathway candidates kept per occupation")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if matcherService == nil {
		return errors.New("matcher service not configured")
	}

	params := domain.MatchParams{
		PathwayThreshold:         matchPathwayThreshold,
		ProgramThreshold:         matchProgramThreshold,
		TopKPathways:             matchTopKPathways,
		MaxProgramsPerOccupation: matchMaxPrograms,
		DryRun:                   matchDryRun,
	}

	if matchDryRun {
		cmd.Println("Running matching pipeline (dry run)...")
	} else {
		cmd.Println("Running matching pipeline...")
	}

	report, err := matcherService.Run(context.Background(), params)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Pathways embedded:      %d\n", report.PathwaysEmbedded)
	cmd.Printf("Occupations embedded:   %d\n", report.OccupationsEmbedded)
	cmd.Printf("With pathway match:     %d\n", report.OccupationsWithPathway)
	cmd.Printf("With program match:     %d\n", report.OccupationsWithProgram)
	cmd.Printf("Comparisons:            %d\n", report.Comparisons)
	cmd.Printf("Associations:           %d\n", report.Associations)
	if report.DryRun {
		cmd.Println("\nDry run: no associations were persisted.")
	}

	return nil
}
