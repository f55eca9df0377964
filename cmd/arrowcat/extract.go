package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/engine"
	"github.com/arrowtools/arrowcat/internal/export"
	"github.com/arrowtools/arrowcat/internal/types"
	"github.com/arrowtools/arrowcat/internal/vehicle"
)

// extractCmd creates the "extract" subcommand: full pipeline, CSV + JSON out.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Extract a vehicle catalog and write Shopware CSV + JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args[0], true)
		},
	}
	cmd.Flags().BoolVar(&loadSpecs, "specs", true, "fetch per-item technical specifications")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVar(&storeType, "store", "", "snapshot store: none, file or mongodb")
	return cmd
}

// scanCmd creates the "scan" subcommand: extract and print, no files written.
func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url]",
		Short: "Extract a vehicle catalog and print the summary without writing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args[0], false)
		},
	}
	cmd.Flags().BoolVar(&loadSpecs, "specs", true, "fetch per-item technical specifications")
	return cmd
}

// salvageCmd creates the "salvage" subcommand: recover from a saved page dump.
func salvageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salvage [dumpfile]",
		Short: "Recover a catalog from a saved plain-text page dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSalvage(args[0])
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	return cmd
}

func runExtract(rawURL string, writeFiles bool) error {
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

	ctx, cancel := signalContext(logger)
	defer cancel()

	start := time.Now()
	result, err := eng.Run(ctx, rawURL, engine.Options{LoadSpecs: loadSpecs})
	if err != nil {
		return err
	}

	printSummary(result, time.Since(start))

	if !writeFiles {
		return nil
	}
	return writeExports(ctx, cfg, result, rawURL, logger)
}

func runSalvage(dumpPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(&cfg.Logging)

	if _, err := os.Stat(dumpPath); err != nil {
		return fmt.Errorf("dump file: %w", err)
	}

	metrics := newMetrics(cfg, logger)
	eng, err := engine.New(cfg, metrics, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close()

	ctx, cancel := signalContext(logger)
	defer cancel()

	start := time.Now()
	result, err := eng.Run(ctx, "", engine.Options{DumpPath: dumpPath})
	if err != nil {
		return err
	}

	printSummary(result, time.Since(start))
	return writeExports(ctx, cfg, result, "", logger)
}

// writeExports renders the CSV and JSON snapshot and, when configured,
// persists the snapshot to the store.
func writeExports(ctx context.Context, cfg *config.Config, result *engine.Result, sourceURL string, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	slug := vehicle.Slug(result.VehicleInfo.Model)
	base := fmt.Sprintf("arrow_vehicle_%d_%s", result.VehicleInfo.ID, slug)

	csvPath := filepath.Join(cfg.Export.OutputDir, base+".csv")
	exporter := export.NewCSVExporter(&cfg.Export, logger)
	if err := exporter.WriteFile(csvPath, result.VehicleInfo, result.Products); err != nil {
		return err
	}
	fmt.Printf("📄 CSV written:      %s\n", csvPath)

	snap := export.NewSnapshot(result.VehicleInfo, sourceURL, result.Strategy, result.Products)
	jsonPath := filepath.Join(cfg.Export.OutputDir, base+".json")
	if err := snap.WriteJSONFile(jsonPath); err != nil {
		return err
	}
	fmt.Printf("📄 Snapshot written: %s\n", jsonPath)

	store, err := export.NewStore(&cfg.Storage, cfg.Export.OutputDir, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if store != nil {
		defer store.Close(ctx)
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			logger.Warn("snapshot store failed", "store", store.Name(), "error", err)
		}
	}

	return nil
}

// printSummary prints the per-category run summary.
func printSummary(result *engine.Result, elapsed time.Duration) {
	info := result.VehicleInfo

	fmt.Printf("\n✅ Extraction complete (%s, via %s)\n", elapsed.Round(time.Millisecond), result.Strategy)
	if result.Partial {
		fmt.Printf("⚠️  Interrupted: specifications are partial\n")
	}
	fmt.Printf("   Vehicle:  %s", info.Model)
	if info.Years != "" {
		fmt.Printf(" (%s)", info.Years)
	}
	fmt.Printf("\n   Products: %d\n\n", len(result.Products))

	byCategory := map[string][]*types.Product{}
	for _, p := range result.Products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		fmt.Printf("   %s (%d)\n", c, len(byCategory[c]))
		for _, p := range byCategory[c] {
			fmt.Printf("     %-12s %s", p.SKU, p.Name)
			if p.Certification != "" {
				fmt.Printf("  [%s]", p.Certification)
			}
			fmt.Println()
			if len(p.Requires) > 0 {
				fmt.Printf("                  requires: %v\n", p.Requires)
			}
		}
	}
}
