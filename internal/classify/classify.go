// Package classify derives certification, material and compatibility
// attributes from product names and vendor flags. All detectors are pure
// functions of their inputs and never depend on enrichment results.
package classify

import (
	"strings"

	"github.com/arrowtools/arrowcat/internal/types"
)

// Certification derives the certification tag from the vendor homologation
// flags. The order is significant: an ECE-with-catalytic flag beats Euro4
// when both are set, and only the total absence of homologation markers
// means Racing.
func Certification(p *types.Product) string {
	switch {
	case p.Euro4ECE:
		return types.CertECE
	case p.Euro4:
		return types.CertEuro4
	case !p.Omologazione && !p.Euro4ECE:
		return types.CertRacing
	default:
		return ""
	}
}

// CertificationFromName is the text-only fallback used when no vendor
// flags are available (salvage path).
func CertificationFromName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "racing"):
		return types.CertRacing
	case strings.Contains(lower, "homologated"), strings.Contains(lower, "catalytic"):
		return types.CertECE
	default:
		return ""
	}
}

// Compatibility maps a product name onto the silencer family it fits.
// First match wins; the vendor naming scheme never uses both tokens.
func Compatibility(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "x-kone"):
		return "X-Kone silencers"
	case strings.Contains(lower, "thunder"):
		return "Thunder silencers"
	default:
		return ""
	}
}

// materialVocab is checked in order; first match wins.
var materialVocab = []struct {
	token    string
	material string
}{
	{"titanium", "Titanium"},
	{"aluminium", "Aluminium"},
	{"aluminum", "Aluminium"},
	{"stainless steel", "Stainless Steel"},
	{"carbon", "Carbon"},
}

// Material recognizes a material mention in free text.
func Material(name string) string {
	lower := strings.ToLower(name)
	for _, v := range materialVocab {
		if strings.Contains(lower, v.token) {
			return v.material
		}
	}
	return ""
}

// Apply fills in the classified attributes a product is still missing.
// Attributes already set by an extraction strategy are kept.
func Apply(p *types.Product) {
	if p.Certification == "" {
		if p.HasFlags {
			p.Certification = Certification(p)
		} else {
			p.Certification = CertificationFromName(p.Name)
		}
	}

	if p.CompatibleWith == "" {
		p.CompatibleWith = Compatibility(p.Name)
	}

	if p.Material == "" {
		// Enriched specification fields take precedence over name text;
		// the vendor reports body material first, inner material second.
		if m := p.Spec("Desc_Corp_EN", "Desc_Int_EN", "Mid-pipe material", "Material"); m != "" {
			p.Material = m
		} else {
			p.Material = Material(p.Name)
		}
	}
}
