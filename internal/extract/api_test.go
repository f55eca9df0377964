package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/fetch"
	"github.com/arrowtools/arrowcat/internal/types"
)

func newAPIFixture(t *testing.T, handler http.Handler) (*APIStrategy, func()) {
	t.Helper()

	srv := httptest.NewServer(handler)

	cfg := config.DefaultConfig()
	cfg.Vendor.BaseURL = srv.URL

	client, err := fetch.NewClient(cfg, testLogger)
	if err != nil {
		srv.Close()
		t.Fatalf("client: %v", err)
	}

	return NewAPIStrategy(client, cfg, testLogger), func() {
		client.Close()
		srv.Close()
	}
}

func TestAPIFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/en/montaggi/1749", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST listing request, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("Brand"); got != "Arrow" {
			t.Errorf("expected Brand=Arrow, got %q", got)
		}

		json.NewEncoder(w).Encode([]map[string]any{
			{
				"Codice":       "72528XKI",
				"Desc_en":      "X-Kone stainless steel silencer",
				"Description":  "Silencers",
				"IDArticolo":   12345,
				"Euro4ECE":     1,
				"Euro4":        "0",
				"Omologazione": true,
				"Outlet":       nil,
			},
			{
				"Codice":      "72177PD",
				"Desc_en":     "Racing mid-pipe for X-Kone silencers",
				"Description": "Mid-pipes",
				"IDArticolo":  12346,
				"Outlet":      1,
			},
			{
				// No article code: skipped.
				"Desc_en": "stray record",
			},
		})
	})

	s, cleanup := newAPIFixture(t, mux)
	defer cleanup()

	products, info, err := s.Fetch(context.Background(), Target{VehicleID: 1749})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if info.ID != 1749 {
		t.Errorf("expected vehicle id 1749, got %d", info.ID)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	first := products[0]
	if first.SKU != "72528XKI" || first.ArticleID != 12345 {
		t.Errorf("unexpected first product: %+v", first)
	}
	if !first.HasFlags || !first.Euro4ECE || first.Euro4 {
		t.Errorf("flag decoding wrong: %+v", first)
	}
	if first.Category != types.CategorySilencers {
		t.Errorf("expected Silencers, got %q", first.Category)
	}

	if !products[1].Outlet {
		t.Error("expected outlet flag from numeric 1")
	}
}

func TestAPIFetchBadPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	s, cleanup := newAPIFixture(t, mux)
	defer cleanup()

	_, _, err := s.Fetch(context.Background(), Target{VehicleID: 1})
	if err == nil {
		t.Fatal("expected parse error for non-JSON payload")
	}
	var pe *types.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected ParseError, got %T: %v", err, err)
	}
}

func TestAPIDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/en/montaggi/specifiche/12345", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"Desc_Corp_EN": "Stainless steel",
				"dBKiller":     "YES",
				"Peso":         1.25,
				"SondaLambda":  nil,
			},
			{
				"Desc_Corp_EN": "second record is ignored",
			},
		})
	})

	s, cleanup := newAPIFixture(t, mux)
	defer cleanup()

	specs, err := s.Details(context.Background(), &types.Product{SKU: "72528XKI", ArticleID: 12345})
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	if specs["Desc_Corp_EN"] != "Stainless steel" {
		t.Errorf("expected first record values, got %v", specs)
	}
	if specs["Peso"] != "1.25" {
		t.Errorf("expected stringified weight, got %q", specs["Peso"])
	}
	if _, ok := specs["SondaLambda"]; ok {
		t.Error("null values must be dropped")
	}
}

func TestAPIDetailsWithoutArticleID(t *testing.T) {
	s, cleanup := newAPIFixture(t, http.NewServeMux())
	defer cleanup()

	specs, err := s.Details(context.Background(), &types.Product{SKU: "72528XKI"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specs != nil {
		t.Errorf("expected nil specs without article id, got %v", specs)
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
		{`"0"`, false},
		{`null`, false},
		{`""`, false},
	}

	for _, tt := range tests {
		var b flexBool
		if err := json.Unmarshal([]byte(tt.in), &b); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if bool(b) != tt.want {
			t.Errorf("flexBool(%s) = %v, want %v", tt.in, b, tt.want)
		}
	}

	var b flexBool
	if err := json.Unmarshal([]byte(`"maybe"`), &b); err == nil {
		t.Error("expected error for unrecognized flag text")
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Silencers", types.CategorySilencers},
		{" Mid-pipes ", types.CategoryMidPipes},
		{"", types.CategoryUnknown},
		{"Full systems", "Full systems"},
	}

	for _, tt := range tests {
		if got := normalizeCategory(tt.in); got != tt.want {
			t.Errorf("normalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
