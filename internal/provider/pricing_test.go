package provider

import (
	"math"
	"testing"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimateCostKnownModel(t *testing.T) {
	// 1M input at $3 + 1M output at $15
	got := EstimateCost("claude-sonnet-4-20250514", 1_000_000, 1_000_000)
	if !closeTo(got, 18.0) {
		t.Fatalf("cost = %v, want 18.0", got)
	}
}

func TestEstimateCostLongestPrefixWins(t *testing.T) {
	// gpt-4o-mini must not match the gpt-4o rate.
	got := EstimateCost("gpt-4o-mini-2024-07-18", 1_000_000, 0)
	if !closeTo(got, 0.15) {
		t.Fatalf("cost = %v, want 0.15", got)
	}
}

func TestEstimateCostUnknownModelUsesDefault(t *testing.T) {
	got := EstimateCost("somebody-elses-model", 1_000_000, 1_000_000)
	want := (defaultPrice.Input + defaultPrice.Output)
	if !closeTo(got, want) {
		t.Fatalf("cost = %v, want %v", got, want)
	}
}

func TestEstimateCostZeroTokens(t *testing.T) {
	if got := EstimateCost("gpt-4o", 0, 0); got != 0 {
		t.Fatalf("cost = %v, want 0", got)
	}
}
