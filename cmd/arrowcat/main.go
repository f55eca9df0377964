package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/observability"
)

var (
	cfgFile    string
	verbose    bool
	outputDir  string
	loadSpecs  bool
	storeType  string
	portalAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arrowcat",
		Short: "Arrow.it exhaust catalog extractor",
		Long: `arrowcat extracts the exhaust product catalog for a vehicle from
arrow.it, normalizes it, infers fitment dependencies between silencers,
mid-pipes and collectors, and renders Shopware-ready CSV plus a JSON
snapshot.

Retrieval falls back across four strategies: the vendor API, static
HTML, a headless-browser rendered DOM, and plain-text salvage of a
saved page dump. Prices, stock and images are left for manual
completion.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(salvageCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arrowcat %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Vendor:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Vendor.BaseURL)
			fmt.Printf("  API Path:          %s\n", cfg.Vendor.APIPath)
			fmt.Printf("  Brand:             %s\n", cfg.Vendor.Brand)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Nav Timeout:       %s\n", cfg.Browser.NavTimeout)
			fmt.Printf("  Scrape Modal:      %v\n", cfg.Browser.ScrapeModal)
			fmt.Printf("\nEnrich:\n")
			fmt.Printf("  Politeness Delay:  %s\n", cfg.Enrich.Delay)
			fmt.Printf("\nExport:\n")
			fmt.Printf("  Output Dir:        %s\n", cfg.Export.OutputDir)
			fmt.Printf("  Delimiter:         %q\n", cfg.Export.Delimiter)
			fmt.Printf("  Supplier:          %s\n", cfg.Export.Supplier)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("\nPortal:\n")
			fmt.Printf("  Addr:              %s\n", cfg.Portal.Addr)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			return nil
		},
	}
}

// setupLogger creates a structured logger from the logging config. The
// --verbose flag overrides the configured level.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// loadConfig loads config and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	if storeType != "" {
		cfg.Storage.Type = storeType
	}
	if portalAddr != "" {
		cfg.Portal.Addr = portalAddr
	}
	return cfg, nil
}

// newMetrics creates metrics when enabled, nil otherwise.
func newMetrics(cfg *config.Config, logger *slog.Logger) *observability.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewMetrics(logger)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM. Partial
// results survive the cancellation: an interrupt during enrichment still
// exports what was already processed.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, finishing with partial results...", "signal", sig)
		cancel()
	}()

	return ctx, cancel
}
