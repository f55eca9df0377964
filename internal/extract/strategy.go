// Package extract retrieves the raw product list for a vehicle through an
// ordered chain of fallback strategies: the structured vendor API, static
// HTML, a dynamically rendered DOM, and finally plain-text salvage of a
// pre-captured page dump.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arrowtools/arrowcat/internal/observability"
	"github.com/arrowtools/arrowcat/internal/types"
)

// Strategy names, recorded on every product as SourceStrategy.
const (
	StrategyAPI     = "api"
	StrategyStatic  = "static"
	StrategyDynamic = "dynamic"
	StrategySalvage = "salvage"
)

// Target identifies what a strategy should extract from.
type Target struct {
	// URL is the vehicle's assembled-product page.
	URL string

	// VehicleID is the id resolved from the URL.
	VehicleID int

	// DumpPath points at a pre-captured text/markdown dump of the page,
	// used only by the salvage strategy.
	DumpPath string
}

// Strategy produces raw product records from one source shape.
type Strategy interface {
	// Name returns the strategy tag.
	Name() string

	// Fetch retrieves the product list and vehicle info for a target.
	// An empty product list is not an error; it just means the next
	// strategy in the chain should be tried.
	Fetch(ctx context.Context, t Target) ([]*types.Product, types.VehicleInfo, error)
}

// ChainResult is what the fallback chain hands back to the caller.
type ChainResult struct {
	Products    []*types.Product
	VehicleInfo types.VehicleInfo

	// Strategy is the one that produced the records.
	Strategy Strategy
}

// RunChain tries each strategy in order until one yields products. A
// failing strategy is logged and skipped, never raised; only full
// exhaustion escalates as ErrNotFound.
func RunChain(ctx context.Context, strategies []Strategy, t Target, metrics *observability.Metrics, logger *slog.Logger) (*ChainResult, error) {
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if metrics != nil {
			metrics.StrategyAttempts.Add(1)
		}
		products, info, err := s.Fetch(ctx, t)
		if err != nil {
			if metrics != nil {
				metrics.StrategyFailures.Add(1)
			}
			logger.Warn("strategy failed, falling back",
				"strategy", s.Name(),
				"error", err,
			)
			continue
		}
		if len(products) == 0 {
			logger.Info("strategy yielded no products, falling back", "strategy", s.Name())
			continue
		}

		logger.Info("products extracted",
			"strategy", s.Name(),
			"count", len(products),
		)
		if metrics != nil {
			metrics.ProductsExtracted.Add(int64(len(products)))
		}
		return &ChainResult{Products: products, VehicleInfo: info, Strategy: s}, nil
	}

	return nil, fmt.Errorf("%w: no strategy yielded products", types.ErrNotFound)
}
