package depend

import (
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/arrowtools/arrowcat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestApplyLinksFamilies(t *testing.T) {
	silencer := &types.Product{
		SKU:      "72528XKI",
		Name:     "X-Kone stainless steel silencer",
		Category: types.CategorySilencers,
	}
	midPipe := &types.Product{
		SKU:      "72177PD",
		Name:     "Racing mid-pipe for X-Kone silencers",
		Category: types.CategoryMidPipes,
	}
	collector := &types.Product{
		SKU:      "72179PD",
		Name:     "Stainless steel collector",
		Category: types.CategoryCollectors,
	}

	NewResolver(testLogger).Apply([]*types.Product{silencer, midPipe, collector})

	if !reflect.DeepEqual(silencer.Requires, []string{"72177PD"}) {
		t.Errorf("expected silencer to require the x-kone mid-pipe, got %v", silencer.Requires)
	}
	if !reflect.DeepEqual(silencer.Optional, []string{"72179PD"}) {
		t.Errorf("expected collector as optional, got %v", silencer.Optional)
	}

	// Non-silencers never carry dependencies, but the slices must exist.
	if midPipe.Requires == nil || len(midPipe.Requires) != 0 {
		t.Errorf("mid-pipe requires should be empty, got %v", midPipe.Requires)
	}
	if collector.Optional == nil || len(collector.Optional) != 0 {
		t.Errorf("collector optional should be empty, got %v", collector.Optional)
	}
}

func TestApplySkipsForeignFamily(t *testing.T) {
	silencer := &types.Product{
		SKU:      "72528XKI",
		Name:     "X-Kone silencer",
		Category: types.CategorySilencers,
	}
	thunderPipe := &types.Product{
		SKU:      "72178PD",
		Name:     "Racing mid-pipe for Thunder silencers",
		Category: types.CategoryMidPipes,
	}

	NewResolver(testLogger).Apply([]*types.Product{silencer, thunderPipe})

	for _, sku := range silencer.Requires {
		if sku == "72178PD" {
			t.Error("x-kone silencer must not require a thunder mid-pipe")
		}
	}
}

func TestApplyCollectorsAlwaysOptional(t *testing.T) {
	// A silencer with no family token still gets every collector.
	silencer := &types.Product{
		SKU:      "72001XX",
		Name:     "Pro-Race titanium silencer",
		Category: types.CategorySilencers,
	}
	c1 := &types.Product{SKU: "72179PD", Category: types.CategoryCollectors}
	c2 := &types.Product{SKU: "72180PD", Category: types.CategoryCollectors}

	NewResolver(testLogger).Apply([]*types.Product{silencer, c1, c2})

	if !reflect.DeepEqual(silencer.Optional, []string{"72179PD", "72180PD"}) {
		t.Errorf("expected both collectors optional in input order, got %v", silencer.Optional)
	}
}

func TestApplyFallbackTable(t *testing.T) {
	// Name grouping yields nothing: no family token, no mid-pipes listed.
	silencer := &types.Product{
		SKU:      "72528AK",
		Name:     "Aluminium silencer",
		Category: types.CategorySilencers,
	}

	NewResolver(testLogger).Apply([]*types.Product{silencer})

	want := knownSystems["72528AK"]
	if !reflect.DeepEqual(silencer.Requires, want.Requires) {
		t.Errorf("expected fallback requires %v, got %v", want.Requires, silencer.Requires)
	}
	if !reflect.DeepEqual(silencer.Optional, want.Optional) {
		t.Errorf("expected fallback optional %v, got %v", want.Optional, silencer.Optional)
	}
}

func TestApplyFallbackSkippedWhenGroupingWorks(t *testing.T) {
	// 72528XKI is in the fallback table too; a live family match must
	// take precedence over the static entry.
	silencer := &types.Product{
		SKU:      "72528XKI",
		Name:     "X-Kone silencer",
		Category: types.CategorySilencers,
	}
	midPipe := &types.Product{
		SKU:      "72999XK",
		Name:     "X-Kone racing mid-pipe",
		Category: types.CategoryMidPipes,
	}

	NewResolver(testLogger).Apply([]*types.Product{silencer, midPipe})

	if !reflect.DeepEqual(silencer.Requires, []string{"72999XK"}) {
		t.Errorf("expected live grouping result, got %v", silencer.Requires)
	}
}

func TestApplyDeterministic(t *testing.T) {
	build := func() []*types.Product {
		return []*types.Product{
			{SKU: "72528XKI", Name: "X-Kone silencer", Category: types.CategorySilencers},
			{SKU: "72177PD", Name: "X-Kone mid-pipe", Category: types.CategoryMidPipes},
			{SKU: "72177PZ", Name: "X-Kone catalytic mid-pipe", Category: types.CategoryMidPipes},
			{SKU: "72179PD", Name: "Collector", Category: types.CategoryCollectors},
		}
	}

	r := NewResolver(testLogger)
	a, b := build(), build()
	r.Apply(a)
	r.Apply(b)

	if !reflect.DeepEqual(a[0].Requires, b[0].Requires) || !reflect.DeepEqual(a[0].Optional, b[0].Optional) {
		t.Errorf("same input produced different links: %v/%v vs %v/%v",
			a[0].Requires, a[0].Optional, b[0].Requires, b[0].Optional)
	}
	if !reflect.DeepEqual(a[0].Requires, []string{"72177PD", "72177PZ"}) {
		t.Errorf("expected both mid-pipes in input order, got %v", a[0].Requires)
	}
}
