package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sentigraph/backend/internal/api"
	"sentigraph/backend/internal/graph"
	"sentigraph/backend/pkg/config"
	"sentigraph/backend/pkg/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg, a.log)
		},
	}
}

// runServe serves until ctx is cancelled or a termination signal arrives.
// An unreachable graph does not stop the server; graph routes answer 503 until it recovers.
func runServe(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info("Starting HTTP API server...")

	var (
		recorder       graph.Recorder
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		m := metrics.New()
		recorder = m
		metricsHandler = m.Handler()
	}

	manager := graph.NewManager(cfg, recorder)
	if err := manager.Start(ctx); err != nil {
		log.Warn("Serving without graph store", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(cfg, manager, metricsHandler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server started",
			zap.String("port", cfg.Port),
			zap.String("backend", cfg.ResolvedBackend()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownAfter)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
		closeManager(shutdownCtx, manager, log)
		return nil
	})

	err := g.Wait()
	log.Info("Server exited")
	return err
}
