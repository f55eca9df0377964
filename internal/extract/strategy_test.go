package extract

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/arrowtools/arrowcat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubStrategy is a canned strategy for chain tests.
type stubStrategy struct {
	name     string
	products []*types.Product
	err      error
	calls    int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(ctx context.Context, t Target) ([]*types.Product, types.VehicleInfo, error) {
	s.calls++
	return s.products, types.VehicleInfo{Model: "stub"}, s.err
}

func TestRunChainFirstSuccessWins(t *testing.T) {
	first := &stubStrategy{name: "first", products: []*types.Product{{SKU: "72528XKI"}}}
	second := &stubStrategy{name: "second", products: []*types.Product{{SKU: "72528AK"}}}

	res, err := RunChain(context.Background(), []Strategy{first, second}, Target{}, nil, testLogger)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}

	if res.Strategy.Name() != "first" {
		t.Errorf("expected first strategy to win, got %q", res.Strategy.Name())
	}
	if second.calls != 0 {
		t.Error("later strategies must not run after a success")
	}
}

func TestRunChainFallsBackOnError(t *testing.T) {
	failing := &stubStrategy{name: "failing", err: errors.New("boom")}
	working := &stubStrategy{name: "working", products: []*types.Product{{SKU: "72528XKI"}}}

	res, err := RunChain(context.Background(), []Strategy{failing, working}, Target{}, nil, testLogger)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}

	if res.Strategy.Name() != "working" {
		t.Errorf("expected fallback strategy, got %q", res.Strategy.Name())
	}
	if failing.calls != 1 {
		t.Errorf("expected failing strategy to be tried once, got %d", failing.calls)
	}
}

func TestRunChainFallsBackOnEmptyResult(t *testing.T) {
	empty := &stubStrategy{name: "empty"}
	working := &stubStrategy{name: "working", products: []*types.Product{{SKU: "72528XKI"}}}

	res, err := RunChain(context.Background(), []Strategy{empty, working}, Target{}, nil, testLogger)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if res.Strategy.Name() != "working" {
		t.Errorf("an empty result must not stop the chain, got %q", res.Strategy.Name())
	}
}

func TestRunChainExhaustion(t *testing.T) {
	_, err := RunChain(context.Background(), []Strategy{
		&stubStrategy{name: "a", err: errors.New("down")},
		&stubStrategy{name: "b"},
	}, Target{}, nil, testLogger)

	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after exhaustion, got %v", err)
	}
}

func TestRunChainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &stubStrategy{name: "never", products: []*types.Product{{SKU: "x"}}}
	_, err := RunChain(ctx, []Strategy{s}, Target{}, nil, testLogger)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if s.calls != 0 {
		t.Error("cancelled chain must not invoke strategies")
	}
}
