package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/arrowtools/arrowcat/internal/classify"
	"github.com/arrowtools/arrowcat/internal/types"
)

// skuPattern matches vendor article codes on their own line, e.g.
// 72528AK or 72177PD.
var skuPattern = regexp.MustCompile(`^(72\d{3,}[A-Z]{1,3})$`)

// Vehicle info patterns for page dumps. The dump format mirrors the
// vendor's heading text, so these are as brittle as the dump itself.
var (
	modelPattern = regexp.MustCompile(`(?i)HONDA\s+(.+?)\s+\d{4}`)
	typePattern  = regexp.MustCompile(`Vehicle type:\s*\*?\*?([A-Z0-9]+)\*?\*?`)
	yearsPattern = regexp.MustCompile(`(\d{4})/(\d{4})`)
)

// categoryHeaders maps dump header lines onto canonical categories.
var categoryHeaders = map[string]string{
	"SILENCERS":  types.CategorySilencers,
	"MID-PIPES":  types.CategoryMidPipes,
	"COLLECTORS": types.CategoryCollectors,
}

// SalvageStrategy recovers the catalog from a previously saved
// text/markdown dump of the page when no live retrieval is possible. It
// is order-sensitive: a recognized article code line is followed by the
// product name line, under the most recent category header.
type SalvageStrategy struct {
	logger *slog.Logger
}

// NewSalvageStrategy creates the text salvage strategy.
func NewSalvageStrategy(logger *slog.Logger) *SalvageStrategy {
	return &SalvageStrategy{logger: logger.With("component", "salvage_strategy")}
}

func (s *SalvageStrategy) Name() string { return StrategySalvage }

// Fetch reads and parses the dump file named by the target.
func (s *SalvageStrategy) Fetch(ctx context.Context, t Target) ([]*types.Product, types.VehicleInfo, error) {
	if t.DumpPath == "" {
		return nil, types.VehicleInfo{}, nil
	}

	content, err := os.ReadFile(t.DumpPath)
	if err != nil {
		return nil, types.VehicleInfo{}, fmt.Errorf("read page dump: %w", err)
	}

	info := s.parseVehicleInfo(string(content))
	info.ID = t.VehicleID

	products := s.parseProducts(string(content))
	return products, info, nil
}

func (s *SalvageStrategy) parseVehicleInfo(content string) types.VehicleInfo {
	var info types.VehicleInfo

	if m := modelPattern.FindStringSubmatch(content); m != nil {
		info.Model = "Honda " + strings.TrimSpace(m[1])
	}
	if m := typePattern.FindStringSubmatch(content); m != nil {
		info.VehicleType = strings.TrimSpace(m[1])
	}
	if m := yearsPattern.FindStringSubmatch(content); m != nil {
		info.Years = m[1] + "-" + m[2]
	}

	return info
}

func (s *SalvageStrategy) parseProducts(content string) []*types.Product {
	var products []*types.Product

	currentCategory := ""
	lines := strings.Split(content, "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		upper := strings.ToUpper(line)
		for header, category := range categoryHeaders {
			if strings.Contains(upper, header) {
				currentCategory = category
				break
			}
		}

		m := skuPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		// The line right after a code is the product name. Reflowed
		// dumps break this assumption, which is the known limitation of
		// this strategy.
		name := ""
		if i+1 < len(lines) {
			name = strings.TrimSpace(lines[i+1])
		}

		category := currentCategory
		if category == "" {
			category = types.CategoryUnknown
		}

		products = append(products, &types.Product{
			SKU:            m[1],
			Name:           name,
			Category:       category,
			Certification:  classify.CertificationFromName(name),
			CompatibleWith: classify.Compatibility(name),
			Material:       classify.Material(name),
			SourceStrategy: StrategySalvage,
			Specifications: map[string]string{},
		})
	}

	return products
}
