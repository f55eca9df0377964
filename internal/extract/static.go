package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/fetch"
	"github.com/arrowtools/arrowcat/internal/types"
)

// StaticStrategy parses the server-rendered assembled-product page.
type StaticStrategy struct {
	client  *fetch.Client
	baseURL string
	logger  *slog.Logger
}

// NewStaticStrategy creates the static HTML extraction strategy.
func NewStaticStrategy(client *fetch.Client, cfg *config.Config, logger *slog.Logger) *StaticStrategy {
	return &StaticStrategy{
		client:  client,
		baseURL: strings.TrimRight(cfg.Vendor.BaseURL, "/"),
		logger:  logger.With("component", "static_strategy"),
	}
}

func (s *StaticStrategy) Name() string { return StrategyStatic }

// Fetch downloads the page and walks its list-item blocks. Zero products
// usually means the list is rendered client-side and the dynamic strategy
// should take over.
func (s *StaticStrategy) Fetch(ctx context.Context, t Target) ([]*types.Product, types.VehicleInfo, error) {
	resp, err := s.client.Get(ctx, t.URL)
	if err != nil {
		return nil, types.VehicleInfo{}, err
	}

	doc, err := resp.Document()
	if err != nil {
		return nil, types.VehicleInfo{}, &types.ParseError{URL: t.URL, What: "listing page", Err: err}
	}

	info := parseVehicleInfo(doc)
	info.ID = t.VehicleID

	products := parseListing(doc, StrategyStatic)
	return products, info, nil
}

// Details follows the specification link recovered from the listing
// markup. The endpoint may answer with JSON or with an HTML fragment
// holding a two-column feature table.
func (s *StaticStrategy) Details(ctx context.Context, p *types.Product) (map[string]string, error) {
	if p.DetailURL == "" {
		return nil, nil
	}

	detailURL := p.DetailURL
	if strings.HasPrefix(detailURL, "/") {
		detailURL = s.baseURL + detailURL
	}

	resp, err := s.client.Get(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	if resp.LooksLikeJSON() {
		var records []map[string]any
		if err := resp.JSON(&records); err == nil && len(records) > 0 {
			return stringifySpecs(records[0]), nil
		}
		var record map[string]any
		if err := resp.JSON(&record); err != nil {
			return nil, &types.ParseError{URL: detailURL, What: "specification payload", Err: err}
		}
		return stringifySpecs(record), nil
	}

	node, err := resp.Node()
	if err != nil {
		return nil, &types.ParseError{URL: detailURL, What: "specification table", Err: err}
	}
	return parseSpecTable(node), nil
}

// parseVehicleInfo recovers model and vehicle type from page headings.
func parseVehicleInfo(doc *goquery.Document) types.VehicleInfo {
	var info types.VehicleInfo

	info.Model = strings.TrimSpace(doc.Find("h1").First().Text())

	doc.Find("h5").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if strings.Contains(text, "Vehicle type:") {
			info.VehicleType = strings.TrimSpace(strings.Replace(text, "Vehicle type:", "", 1))
			return false
		}
		return true
	})

	return info
}

// parseListing walks the repeated list-item blocks inside category
// sections. The dynamic strategy feeds the rendered DOM through the same
// code, so both paths see identical structure.
func parseListing(doc *goquery.Document, source string) []*types.Product {
	var products []*types.Product

	doc.Find("div.list-products").Each(func(_ int, section *goquery.Selection) {
		category := types.CategoryUnknown
		if header := section.PrevFiltered("h3, h4, div"); header.Length() > 0 {
			if text := strings.TrimSpace(header.First().Text()); text != "" {
				category = normalizeCategory(text)
			}
		}

		section.Find("div.list-item").Each(func(_ int, item *goquery.Selection) {
			sku := strings.TrimSpace(item.Find(".code").First().Text())
			if sku == "" {
				return
			}

			p := &types.Product{
				SKU:            sku,
				Name:           strings.TrimSpace(item.Find(".name").First().Text()),
				Category:       category,
				SourceStrategy: source,
			}

			// Certification is carried as a CSS class tag on the item.
			if cert := item.Find("span.homologation, span.racing").First(); cert.Length() > 0 {
				if cert.HasClass("racing") {
					p.Certification = types.CertRacing
				} else {
					p.Certification = types.CertECE
				}
			}

			if btn := item.Find("a.specification").First(); btn.Length() > 0 {
				if u, ok := btn.Attr("data-url"); ok && u != "" {
					p.DetailURL = u
				} else if u, ok := btn.Attr("href"); ok && u != "" && u != "#" {
					p.DetailURL = u
				}
			}

			products = append(products, p)
		})
	})

	return products
}

// parseSpecTable scrapes feature/value pairs out of two-column table rows.
func parseSpecTable(node *html.Node) map[string]string {
	specs := make(map[string]string)

	for _, row := range htmlquery.Find(node, "//tr") {
		cells := htmlquery.Find(row, "./td")
		if len(cells) != 2 {
			continue
		}
		feature := strings.TrimSpace(htmlquery.InnerText(cells[0]))
		value := strings.TrimSpace(htmlquery.InnerText(cells[1]))
		if feature != "" && value != "" {
			specs[feature] = value
		}
	}

	return specs
}
