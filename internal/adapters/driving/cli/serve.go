package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careerline-labs/pathmatch/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Starts the HTTP server exposing program search. The server runs
until interrupted and drains in-flight requests on shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	addr := serveAddr
	if addr == "" && cfg != nil {
		addr = cfg.Server.Addr
	}
	if addr == "" {
		addr = ":8080"
	}

	log := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	server := httpapi.NewServer(addr, searchService, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Serving on %s (ctrl-c to stop)\n", addr)
	return server.ListenAndServe(ctx)
}
