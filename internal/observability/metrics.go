package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the extraction pipeline.
type Metrics struct {
	// Run metrics
	RunsTotal  atomic.Int64
	RunsFailed atomic.Int64

	// Strategy metrics
	StrategyAttempts atomic.Int64
	StrategyFailures atomic.Int64

	// Product metrics
	ProductsExtracted atomic.Int64

	// Enrichment metrics
	EnrichmentHits   atomic.Int64
	EnrichmentMisses atomic.Int64

	// Export metrics
	ExportsWritten atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"arrowcat_runs_total", "Total extraction runs", m.RunsTotal.Load()},
		{"arrowcat_runs_failed_total", "Total failed extraction runs", m.RunsFailed.Load()},
		{"arrowcat_strategy_attempts_total", "Total strategy fetch attempts", m.StrategyAttempts.Load()},
		{"arrowcat_strategy_failures_total", "Total strategy fetch failures", m.StrategyFailures.Load()},
		{"arrowcat_products_extracted_total", "Total products extracted", m.ProductsExtracted.Load()},
		{"arrowcat_enrichment_hits_total", "Total items enriched with specifications", m.EnrichmentHits.Load()},
		{"arrowcat_enrichment_misses_total", "Total failed specification fetches", m.EnrichmentMisses.Load()},
		{"arrowcat_exports_written_total", "Total export files written", m.ExportsWritten.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all counters as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"runs_total":         m.RunsTotal.Load(),
		"runs_failed":        m.RunsFailed.Load(),
		"strategy_attempts":  m.StrategyAttempts.Load(),
		"strategy_failures":  m.StrategyFailures.Load(),
		"products_extracted": m.ProductsExtracted.Load(),
		"enrichment_hits":    m.EnrichmentHits.Load(),
		"enrichment_misses":  m.EnrichmentMisses.Load(),
		"exports_written":    m.ExportsWritten.Load(),
	}
}
