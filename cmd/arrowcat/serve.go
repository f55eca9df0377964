package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arrowtools/arrowcat/internal/engine"
	"github.com/arrowtools/arrowcat/internal/export"
	"github.com/arrowtools/arrowcat/internal/portal"
)

// serveCmd creates the "serve" subcommand: the HTTP portal.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	cmd.Flags().StringVarP(&portalAddr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVar(&storeType, "store", "", "snapshot store: none, file or mongodb")
	return cmd
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(&cfg.Logging)

	metrics := newMetrics(cfg, logger)
	eng, err := engine.New(cfg, metrics, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close()

	store, err := export.NewStore(&cfg.Storage, cfg.Export.OutputDir, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	srv, err := portal.NewServer(cfg, eng, store, metrics, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
		if store != nil {
			store.Close(shutdownCtx)
		}
	}

	return nil
}
