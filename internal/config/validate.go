package config

import (
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"
)

// Validate checks a loaded config for values the pipeline cannot work with.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Vendor.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("vendor.base_url %q is not an absolute URL", cfg.Vendor.BaseURL)
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be positive, got %s", cfg.Fetcher.RequestTimeout)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be positive, got %d", cfg.Fetcher.MaxBodySize)
	}

	// The delay is a politeness guarantee towards the vendor, so a floor
	// is enforced rather than just non-zero.
	if cfg.Enrich.Delay < 300*time.Millisecond {
		return fmt.Errorf("enrich.delay must be at least 300ms, got %s", cfg.Enrich.Delay)
	}

	if utf8.RuneCountInString(cfg.Export.Delimiter) != 1 {
		return fmt.Errorf("export.delimiter must be a single character, got %q", cfg.Export.Delimiter)
	}

	switch cfg.Storage.Type {
	case "none", "file", "mongodb":
	default:
		return fmt.Errorf("storage.type must be none, file or mongodb, got %q", cfg.Storage.Type)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", cfg.Logging.Level)
	}

	return nil
}
