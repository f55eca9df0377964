package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/types"
)

// Browser drives a headless Chromium instance via Rod for pages that only
// render their product list client-side. The pipeline is strictly
// sequential, so a single page is reused for the whole run.
type Browser struct {
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewBrowser launches a headless Chromium and connects to it.
func NewBrowser(cfg *config.Config, logger *slog.Logger) (*Browser, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if cfg.Browser.WindowSize != "" {
		l = l.Set("window-size", cfg.Browser.WindowSize)
	}

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	b := &Browser{
		browser: browser,
		cfg:     &cfg.Browser,
		logger:  logger.With("component", "browser"),
	}

	b.logger.Info("browser ready", "stealth", cfg.Browser.Stealth)
	return b, nil
}

// Open navigates to a URL and waits for client-side rendering to settle.
// The caller owns the returned page and must Close it.
func (b *Browser) Open(ctx context.Context, rawURL string) (*rod.Page, error) {
	var page *rod.Page
	var err error

	if b.cfg.Stealth {
		page, err = stealth.Page(b.browser)
	} else {
		page, err = b.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("open page: %w", err)}
	}

	page = page.Context(ctx)

	if err := page.Timeout(b.cfg.NavTimeout).Navigate(rawURL); err != nil {
		_ = page.Close()
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	if err := page.Timeout(b.cfg.NavTimeout).WaitStable(300 * time.Millisecond); err != nil {
		b.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
	}

	return page, nil
}

// Close shuts down the browser process.
func (b *Browser) Close() error {
	if b.browser == nil {
		return nil
	}
	return b.browser.Close()
}
