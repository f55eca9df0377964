// Package depend infers "requires"/"optional" relationships between the
// products of one extraction run.
package depend

import (
	"log/slog"
	"strings"

	"github.com/arrowtools/arrowcat/internal/types"
)

// Links holds the sku references attached to one product.
type Links struct {
	Requires []string
	Optional []string
}

// Resolver computes fitment dependencies from category/name grouping,
// with a static sku table as fallback for known systems whose names give
// the grouping nothing to work with.
type Resolver struct {
	fallback map[string]Links
	logger   *slog.Logger
}

// NewResolver creates a dependency resolver with the built-in fallback
// table.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		fallback: knownSystems,
		logger:   logger.With("component", "depend_resolver"),
	}
}

// Apply sets Requires and Optional on every product in place. Only
// silencers ever receive dependencies: a silencer requires the mid-pipes
// of its own family (x-kone or thunder, by name), and every collector is
// optional for every silencer. Iteration follows input order, so the
// result is deterministic for a given list.
func (r *Resolver) Apply(products []*types.Product) {
	byCategory := make(map[string][]*types.Product)
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	linked := 0
	for _, p := range products {
		p.Requires = []string{}
		p.Optional = []string{}

		if p.Category != types.CategorySilencers {
			continue
		}

		name := strings.ToLower(p.Name)
		family := ""
		switch {
		case strings.Contains(name, "x-kone"):
			family = "x-kone"
		case strings.Contains(name, "thunder"):
			family = "thunder"
		}

		if family != "" {
			for _, mp := range byCategory[types.CategoryMidPipes] {
				if strings.Contains(strings.ToLower(mp.Name), family) {
					p.Requires = append(p.Requires, mp.SKU)
				}
			}
		}

		for _, c := range byCategory[types.CategoryCollectors] {
			p.Optional = append(p.Optional, c.SKU)
		}

		// Name-based grouping came up empty; fall back to the static
		// table for skus it knows about.
		if len(p.Requires) == 0 {
			if known, ok := r.fallback[p.SKU]; ok {
				p.Requires = append(p.Requires, known.Requires...)
				if len(p.Optional) == 0 {
					p.Optional = append(p.Optional, known.Optional...)
				}
			}
		}

		if len(p.Requires) > 0 || len(p.Optional) > 0 {
			linked++
		}
	}

	r.logger.Debug("dependencies resolved", "products", len(products), "linked", linked)
}
