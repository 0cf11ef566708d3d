package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sentigraph/backend/internal/graph"
	"sentigraph/backend/pkg/config"
	"sentigraph/backend/pkg/logger"
)

// app carries what PersistentPreRunE loads for every command
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sentigraph",
		Short: "Sentiment knowledge graph service",
		Long: `sentigraph maintains a graph of users, posts, platforms and named entities
built from annotated social-media posts, and serves it over HTTP.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			a.log = logger.Get()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg, a.log)
		},
	}

	rootCmd.AddCommand(
		newServeCmd(a),
		newSchemaCmd(a),
		newResetCmd(a),
		newIngestCmd(a),
	)
	return rootCmd
}

// warnEphemeral notes that a one-shot command against the memory backend leaves nothing behind
func (a *app) warnEphemeral() {
	if a.cfg.ResolvedBackend() == config.BackendMemory {
		a.log.Warn("Using the in-memory graph backend; changes are discarded when the command exits")
	}
}

// closeManager releases the graph store; a failure is logged, never dropped
func closeManager(ctx context.Context, m *graph.Manager, log *zap.Logger) {
	if err := m.Close(ctx); err != nil {
		log.Error("Failed to close graph store", zap.Error(err))
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
