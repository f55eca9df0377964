package classify

import (
	"testing"

	"github.com/arrowtools/arrowcat/internal/types"
)

func TestCertificationFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		product types.Product
		want    string
	}{
		{
			name:    "ECE beats Euro4 when both set",
			product: types.Product{Euro4ECE: true, Euro4: true, Omologazione: true},
			want:    types.CertECE,
		},
		{
			name:    "Euro4 alone",
			product: types.Product{Euro4: true, Omologazione: true},
			want:    types.CertEuro4,
		},
		{
			name:    "no homologation markers at all",
			product: types.Product{},
			want:    types.CertRacing,
		},
		{
			name:    "homologated but neither euro flag",
			product: types.Product{Omologazione: true},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Certification(&tt.product); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCertificationFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Thunder aluminium silencer racing version", types.CertRacing},
		{"X-Kone homologated silencer", types.CertECE},
		{"Catalytic mid-pipe", types.CertECE},
		{"Plain titanium silencer", ""},
	}

	for _, tt := range tests {
		if got := CertificationFromName(tt.name); got != tt.want {
			t.Errorf("CertificationFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCompatibility(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Racing mid-pipe for X-Kone silencers", "X-Kone silencers"},
		{"Catalytic mid-pipe for Thunder silencers", "Thunder silencers"},
		{"Stainless steel collector", ""},
	}

	for _, tt := range tests {
		if got := Compatibility(tt.name); got != tt.want {
			t.Errorf("Compatibility(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMaterial(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Thunder titanium silencer with carbon end-cap", "Titanium"},
		{"Thunder aluminium dark silencer", "Aluminium"},
		{"Aluminum silencer", "Aluminium"},
		{"Stainless steel collector", "Stainless Steel"},
		{"X-Kone silencer", ""},
	}

	for _, tt := range tests {
		if got := Material(tt.name); got != tt.want {
			t.Errorf("Material(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestApplyKeepsExistingAttributes(t *testing.T) {
	p := &types.Product{
		Name:          "Thunder aluminium silencer",
		Certification: types.CertECE,
		Material:      "Titanium",
	}

	Apply(p)

	if p.Certification != types.CertECE {
		t.Errorf("certification overwritten: %q", p.Certification)
	}
	if p.Material != "Titanium" {
		t.Errorf("material overwritten: %q", p.Material)
	}
	if p.CompatibleWith != "Thunder silencers" {
		t.Errorf("expected compatibility to be filled, got %q", p.CompatibleWith)
	}
}

func TestApplyPrefersSpecificationMaterial(t *testing.T) {
	p := &types.Product{
		Name: "Thunder aluminium silencer",
		Specifications: map[string]string{
			"Desc_Corp_EN": "Titanium",
		},
	}

	Apply(p)

	if p.Material != "Titanium" {
		t.Errorf("expected spec material Titanium, got %q", p.Material)
	}
}

func TestApplyUsesFlagsWhenPresent(t *testing.T) {
	p := &types.Product{
		Name:     "Racing silencer", // name says racing, flags say ECE
		HasFlags: true,
		Euro4ECE: true,
	}

	Apply(p)

	if p.Certification != types.CertECE {
		t.Errorf("flags should win over name text, got %q", p.Certification)
	}
}
