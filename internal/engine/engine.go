// Package engine runs the extraction pipeline as one linear pass:
// resolve vehicle, extract through the strategy fallback chain, enrich,
// classify, infer dependencies.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/arrowtools/arrowcat/internal/classify"
	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/depend"
	"github.com/arrowtools/arrowcat/internal/enrich"
	"github.com/arrowtools/arrowcat/internal/extract"
	"github.com/arrowtools/arrowcat/internal/fetch"
	"github.com/arrowtools/arrowcat/internal/observability"
	"github.com/arrowtools/arrowcat/internal/types"
	"github.com/arrowtools/arrowcat/internal/vehicle"
)

// Options select per-run behavior.
type Options struct {
	// LoadSpecs enables per-item specification enrichment.
	LoadSpecs bool

	// DumpPath points at a pre-captured page dump for text salvage.
	// When set together with an empty URL, salvage is the only strategy.
	DumpPath string
}

// Result is the outcome of one extraction run.
type Result struct {
	VehicleInfo types.VehicleInfo
	Products    []*types.Product

	// Strategy names the extraction variant that produced the records.
	Strategy string

	// Partial marks a run whose enrichment was interrupted; the products
	// up to the interruption point are still fully usable.
	Partial bool
}

// Engine owns every collaborator of a run explicitly; there is no shared
// process-wide session or classifier state.
type Engine struct {
	cfg      *config.Config
	client   *fetch.Client
	resolver *vehicle.Resolver
	deps     *depend.Resolver
	metrics  *observability.Metrics
	logger   *slog.Logger

	// The browser is expensive, so it launches at most once and only if
	// the dynamic strategy is actually reached.
	browserOnce sync.Once
	browser     *fetch.Browser
	browserErr  error
}

// New constructs an engine from config. metrics may be nil.
func New(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*Engine, error) {
	client, err := fetch.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	resolver, err := vehicle.NewResolver(cfg.Vendor.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:      cfg,
		client:   client,
		resolver: resolver,
		deps:     depend.NewResolver(logger),
		metrics:  metrics,
		logger:   logger.With("component", "engine"),
	}, nil
}

// Run extracts, enriches, classifies and links the catalog for one
// vehicle URL.
func (e *Engine) Run(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	if e.metrics != nil {
		e.metrics.RunsTotal.Add(1)
	}

	res, err := e.run(ctx, rawURL, opts)
	if err != nil && e.metrics != nil {
		e.metrics.RunsFailed.Add(1)
	}
	return res, err
}

func (e *Engine) run(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	target := extract.Target{URL: rawURL, DumpPath: opts.DumpPath}

	if rawURL != "" {
		id, err := e.resolver.ResolveID(rawURL)
		if err != nil {
			return nil, err
		}
		target.VehicleID = id
		e.logger.Info("vehicle resolved", "vehicle_id", id, "url", rawURL)
	} else if opts.DumpPath == "" {
		return nil, types.ErrInvalidSource
	}

	chain := e.buildChain(target)
	result, err := extract.RunChain(ctx, chain, target, e.metrics, e.logger)
	if err != nil {
		return nil, err
	}

	partial := false
	if opts.LoadSpecs {
		source, _ := result.Strategy.(enrich.DetailSource)
		enricher := enrich.New(source, e.cfg.Enrich.Delay, e.metrics, e.logger)
		if err := enricher.Enrich(ctx, result.Products); err != nil {
			// An interrupt mid-enrichment still exports what was
			// already processed.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				partial = true
			} else {
				return nil, err
			}
		}
	}

	for _, p := range result.Products {
		classify.Apply(p)
	}

	e.deps.Apply(result.Products)

	return &Result{
		VehicleInfo: result.VehicleInfo,
		Products:    result.Products,
		Strategy:    result.Strategy.Name(),
		Partial:     partial,
	}, nil
}

// buildChain assembles the ordered fallback chain for a target: the
// structured API first, then static HTML, then the rendered DOM, with
// text salvage last and only when a dump exists.
func (e *Engine) buildChain(t extract.Target) []extract.Strategy {
	var chain []extract.Strategy

	if t.URL != "" {
		chain = append(chain,
			extract.NewAPIStrategy(e.client, e.cfg, e.logger),
			extract.NewStaticStrategy(e.client, e.cfg, e.logger),
			extract.NewDynamicStrategy(e.getBrowser, e.cfg, e.logger),
		)
	}
	if t.DumpPath != "" {
		chain = append(chain, extract.NewSalvageStrategy(e.logger))
	}

	return chain
}

// getBrowser launches the headless browser on first use.
func (e *Engine) getBrowser() (*fetch.Browser, error) {
	e.browserOnce.Do(func() {
		e.browser, e.browserErr = fetch.NewBrowser(e.cfg, e.logger)
	})
	return e.browser, e.browserErr
}

// Close releases the HTTP client and, if launched, the browser.
func (e *Engine) Close() error {
	err := e.client.Close()
	if e.browser != nil {
		if berr := e.browser.Close(); err == nil {
			err = berr
		}
	}
	return err
}
