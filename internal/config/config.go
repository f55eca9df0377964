package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for arrowcat.
type Config struct {
	Vendor  VendorConfig  `mapstructure:"vendor"  yaml:"vendor"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Enrich  EnrichConfig  `mapstructure:"enrich"  yaml:"enrich"`
	Export  ExportConfig  `mapstructure:"export"  yaml:"export"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Portal  PortalConfig  `mapstructure:"portal"  yaml:"portal"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// VendorConfig describes the vendor site the extractor talks to.
type VendorConfig struct {
	BaseURL   string `mapstructure:"base_url"   yaml:"base_url"`
	APIPath   string `mapstructure:"api_path"   yaml:"api_path"`
	Brand     string `mapstructure:"brand"      yaml:"brand"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// FetcherConfig controls the vendor HTTP client.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// BrowserConfig controls the headless browser used by the dynamic
// extraction strategy.
type BrowserConfig struct {
	Stealth     bool          `mapstructure:"stealth"      yaml:"stealth"`
	WindowSize  string        `mapstructure:"window_size"  yaml:"window_size"`
	NavTimeout  time.Duration `mapstructure:"nav_timeout"  yaml:"nav_timeout"`
	ScrapeModal bool          `mapstructure:"scrape_modal" yaml:"scrape_modal"`
}

// EnrichConfig controls per-item specification enrichment.
type EnrichConfig struct {
	// Delay is the politeness pause between consecutive detail fetches.
	// It is rate-limiting policy towards the vendor, not tuning.
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// ExportConfig controls the rendered output files.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Delimiter string `mapstructure:"delimiter"  yaml:"delimiter"`
	Supplier  string `mapstructure:"supplier"   yaml:"supplier"`
	TaxRate   string `mapstructure:"tax_rate"   yaml:"tax_rate"`
}

// StorageConfig controls the optional snapshot store.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"` // none, file, mongodb
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// PortalConfig controls the HTTP service surface.
type PortalConfig struct {
	Addr           string   `mapstructure:"addr"            yaml:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Vendor: VendorConfig{
			BaseURL:   "https://www.arrow.it",
			APIPath:   "/api/en",
			Brand:     "Arrow",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  30 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Browser: BrowserConfig{
			Stealth:     true,
			WindowSize:  "1920,1080",
			NavTimeout:  30 * time.Second,
			ScrapeModal: true,
		},
		Enrich: EnrichConfig{
			Delay: 300 * time.Millisecond,
		},
		Export: ExportConfig{
			OutputDir: "./exports",
			Delimiter: ";",
			Supplier:  "Arrow",
			TaxRate:   "19",
		},
		Storage: StorageConfig{
			// The run itself already writes the CSV and JSON snapshot;
			// the store is extra persistence and stays off by default.
			Type:            "none",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "arrowcat",
			MongoCollection: "snapshots",
		},
		Portal: PortalConfig{
			Addr:           ":5000",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
