// Package enrich fetches per-item specification detail and merges it into
// already-listed products, under a fixed politeness delay.
package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/arrowtools/arrowcat/internal/observability"
	"github.com/arrowtools/arrowcat/internal/types"
)

// DetailSource fetches the specification payload for one product. The API
// and static strategies implement it; the salvage strategy has nothing to
// fetch from and the dynamic strategy fills specifications in-page.
type DetailSource interface {
	Details(ctx context.Context, p *types.Product) (map[string]string, error)
}

// Enricher walks the product list in order and resolves detail references
// one at a time. There is deliberately no concurrency here: the
// inter-request delay is a rate-limiting policy towards the vendor, and
// parallel detail fetches would defeat it.
type Enricher struct {
	source  DetailSource
	delay   time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates an enricher over the given detail source. metrics may be nil.
func New(source DetailSource, delay time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Enricher {
	return &Enricher{
		source:  source,
		delay:   delay,
		metrics: metrics,
		logger:  logger.With("component", "enricher"),
	}
}

// Enrich populates Specifications for every product carrying a detail
// reference. A failed fetch is logged and skipped; it never aborts the
// remaining items. On cancellation the loop stops and returns the context
// error so the caller can still export what was already enriched.
func (e *Enricher) Enrich(ctx context.Context, products []*types.Product) error {
	if e.source == nil {
		return nil
	}

	total := len(products)
	fetched := 0

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("enrichment interrupted, keeping partial results",
				"processed", i, "total", total)
			return err
		}

		// The in-page modal result is authoritative when present.
		if len(p.Specifications) > 0 {
			continue
		}
		if !p.HasDetailRef() {
			continue
		}

		if fetched > 0 {
			if err := sleepCtx(ctx, e.delay); err != nil {
				e.logger.Warn("enrichment interrupted, keeping partial results",
					"processed", i, "total", total)
				return err
			}
		}

		specs, err := e.source.Details(ctx, p)
		fetched++
		if err != nil {
			e.logger.Warn("specification fetch failed, skipping item",
				"sku", p.SKU, "error", err)
			if e.metrics != nil {
				e.metrics.EnrichmentMisses.Add(1)
			}
			continue
		}
		if len(specs) > 0 {
			p.Specifications = specs
			if e.metrics != nil {
				e.metrics.EnrichmentHits.Add(1)
			}
		}

		e.logger.Debug("item enriched", "sku", p.SKU, "index", i+1, "total", total, "specs", len(specs))
	}

	return nil
}

// sleepCtx waits for the politeness delay unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
