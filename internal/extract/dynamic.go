package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/fetch"
	"github.com/arrowtools/arrowcat/internal/types"
)

// DynamicStrategy renders the page in a headless browser for vehicles
// whose product list only exists after script execution. It reuses the
// static listing parser on the rendered DOM and can additionally open the
// per-item specification modal, which removes the need for a separate
// detail fetch for those items.
type DynamicStrategy struct {
	// browser is a lazy provider so no Chromium process is launched
	// unless the chain actually reaches this strategy.
	browser     func() (*fetch.Browser, error)
	scrapeModal bool
	navTimeout  time.Duration
	logger      *slog.Logger
}

// NewDynamicStrategy creates the dynamic DOM extraction strategy.
func NewDynamicStrategy(browser func() (*fetch.Browser, error), cfg *config.Config, logger *slog.Logger) *DynamicStrategy {
	return &DynamicStrategy{
		browser:     browser,
		scrapeModal: cfg.Browser.ScrapeModal,
		navTimeout:  cfg.Browser.NavTimeout,
		logger:      logger.With("component", "dynamic_strategy"),
	}
}

func (s *DynamicStrategy) Name() string { return StrategyDynamic }

// Fetch loads the page, waits for the rendered product container, and
// scrapes the same structural elements as the static strategy.
func (s *DynamicStrategy) Fetch(ctx context.Context, t Target) ([]*types.Product, types.VehicleInfo, error) {
	browser, err := s.browser()
	if err != nil {
		return nil, types.VehicleInfo{}, err
	}

	page, err := browser.Open(ctx, t.URL)
	if err != nil {
		return nil, types.VehicleInfo{}, err
	}
	defer page.Close()

	// The product list lives inside this container once rendering is done.
	if _, err := page.Timeout(s.navTimeout).Element("#ElencoProdotti"); err != nil {
		return nil, types.VehicleInfo{}, &types.FetchError{URL: t.URL, Err: err}
	}

	rendered, err := page.HTML()
	if err != nil {
		return nil, types.VehicleInfo{}, &types.FetchError{URL: t.URL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, types.VehicleInfo{}, &types.ParseError{URL: t.URL, What: "rendered page", Err: err}
	}

	info := parseVehicleInfo(doc)
	info.ID = t.VehicleID

	products := parseListing(doc, StrategyDynamic)

	if s.scrapeModal && len(products) > 0 {
		s.scrapeModals(ctx, page, products)
	}

	return products, info, nil
}

// scrapeModals opens each item's specification modal in-page and reads
// its two-column table straight into Specifications. Any failure skips
// the item; the enricher can still pick it up over HTTP.
func (s *DynamicStrategy) scrapeModals(ctx context.Context, page *rod.Page, products []*types.Product) {
	bySKU := make(map[string]*types.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	items, err := page.Elements("div.list-item")
	if err != nil {
		s.logger.Warn("no list items in rendered DOM for modal scraping", "error", err)
		return
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return
		}

		codeEl, err := item.Element(".code")
		if err != nil {
			continue
		}
		sku, err := codeEl.Text()
		if err != nil {
			continue
		}
		p, ok := bySKU[strings.TrimSpace(sku)]
		if !ok {
			continue
		}

		btn, err := item.Element("a.specification")
		if err != nil {
			continue
		}
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			s.logger.Warn("specification modal did not open", "sku", p.SKU, "error", err)
			continue
		}

		specs := s.readModal(page)
		if len(specs) > 0 {
			p.Specifications = specs
		}

		s.closeModal(page)
	}
}

// readModal waits for the modal dialog and parses its feature table.
func (s *DynamicStrategy) readModal(page *rod.Page) map[string]string {
	modal, err := page.Timeout(5 * time.Second).Element(".modal, [class*='popup']")
	if err != nil {
		return nil
	}

	fragment, err := modal.HTML()
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	specs := make(map[string]string)
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}
		feature := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if feature != "" && value != "" {
			specs[feature] = value
		}
	})
	return specs
}

func (s *DynamicStrategy) closeModal(page *rod.Page) {
	closeBtn, err := page.Timeout(2 * time.Second).Element(".modal .close, button[aria-label='Close']")
	if err != nil {
		return
	}
	if err := closeBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.logger.Debug("modal close failed", "error", err)
	}
}
