package types

// Product categories as they appear in the vendor catalog.
const (
	CategorySilencers  = "Silencers"
	CategoryMidPipes   = "Mid-pipes"
	CategoryCollectors = "Collectors"
	CategoryUnknown    = "Unknown"
)

// Certification values for road legality.
const (
	CertECE    = "ECE"
	CertEuro4  = "Euro4"
	CertRacing = "Racing"
)

// VehicleInfo describes the vehicle a catalog was extracted for. It is
// resolved once per run and never mutated afterwards.
type VehicleInfo struct {
	ID          int    `json:"vehicle_id"`
	Model       string `json:"model"`
	VehicleType string `json:"vehicle_type"`
	Years       string `json:"years,omitempty"`
}

// Product is the canonical unit of the extracted catalog. Extraction
// strategies create it, the enricher and classifier fill it in, the
// dependency resolver links it to other products, and the exporter treats
// it as read-only.
type Product struct {
	// SKU is the vendor article code (e.g. "72528XKI").
	SKU string `json:"sku"`

	// Name is the vendor display/description text.
	Name string `json:"name"`

	// Category is one of the Category* constants.
	Category string `json:"category"`

	// ArticleID is the vendor's numeric article id, when the record came
	// from the structured API. Zero otherwise.
	ArticleID int `json:"article_id,omitempty"`

	// Certification is one of the Cert* constants, or empty when unknown.
	Certification string `json:"certification"`

	// Material is a free-text material hint (Titanium, Carbon, ...).
	Material string `json:"material,omitempty"`

	// CompatibleWith is a free-text compatibility hint derived from the name.
	CompatibleWith string `json:"compatible_with,omitempty"`

	// Specifications maps feature name to value, populated when detail
	// enrichment (or the in-page modal) succeeded for this item.
	Specifications map[string]string `json:"specifications,omitempty"`

	// Requires lists SKUs of products that must be installed alongside
	// this one. Only ever populated for silencers.
	Requires []string `json:"requires"`

	// Optional lists SKUs of products that may be added.
	Optional []string `json:"optional"`

	// SourceStrategy records which extraction strategy produced this
	// record. Traceability only, never business logic.
	SourceStrategy string `json:"source_strategy,omitempty"`

	// DetailURL is the specification link recovered from listing markup,
	// used by the enricher when no article id is available.
	DetailURL string `json:"-"`

	// Vendor homologation flags from the structured API. HasFlags marks
	// them as meaningful; the static and salvage paths never set them.
	HasFlags     bool `json:"-"`
	Euro4ECE     bool `json:"-"`
	Euro4        bool `json:"-"`
	Omologazione bool `json:"-"`

	// Outlet marks discontinued stock; exported as inactive.
	Outlet bool `json:"outlet,omitempty"`
}

// HasDetailRef reports whether the product carries a reference the
// enricher can follow.
func (p *Product) HasDetailRef() bool {
	return p.ArticleID > 0 || p.DetailURL != ""
}

// Spec returns the first non-empty value among the given specification
// keys, or "" when none is set.
func (p *Product) Spec(keys ...string) string {
	for _, k := range keys {
		if v := p.Specifications[k]; v != "" {
			return v
		}
	}
	return ""
}
