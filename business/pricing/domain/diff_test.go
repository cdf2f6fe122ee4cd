package domain

import (
	"math"
	"testing"
)

func obs(exchange string, price float64) PriceObservation {
	return PriceObservation{PairLabel: "WETH/USDC", Exchange: exchange, Price: price}
}

func TestComputeDifferences_TwoExchanges(t *testing.T) {
	// Pools of (100 WETH, 300 USDC) and (50 WETH, 140 USDC) quote 3.0 and
	// 2.8 respectively.
	diffs := ComputeDifferences([]PriceObservation{
		obs("uniswap-v2", 3.0),
		obs("sushiswap", 2.8),
	})

	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d", len(diffs))
	}

	d := diffs[0]
	if d.ExchangeA != "uniswap-v2" || d.ExchangeB != "sushiswap" {
		t.Errorf("unexpected exchange order: %s vs %s", d.ExchangeA, d.ExchangeB)
	}
	if math.Abs(d.PriceDelta-(-0.2)) > 1e-9 {
		t.Errorf("PriceDelta = %v, want -0.2", d.PriceDelta)
	}
	wantPercent := -0.2 / 3.0 * 100
	if math.Abs(d.DeltaPercent-wantPercent) > 1e-6 {
		t.Errorf("DeltaPercent = %v, want %v", d.DeltaPercent, wantPercent)
	}
}

func TestComputeDifferences_Combinations(t *testing.T) {
	diffs := ComputeDifferences([]PriceObservation{
		obs("a", 1.0),
		obs("b", 2.0),
		obs("c", 4.0),
	})

	// Three exchanges yield three unordered combinations.
	if len(diffs) != 3 {
		t.Fatalf("expected 3 differences, got %d", len(diffs))
	}

	// Ranked descending by absolute delta: a/c (3.0), b/c (2.0), a/b (1.0).
	want := []struct {
		exchangeA string
		exchangeB string
		delta     float64
	}{
		{"a", "c", 3.0},
		{"b", "c", 2.0},
		{"a", "b", 1.0},
	}

	for i, w := range want {
		d := diffs[i]
		if d.ExchangeA != w.exchangeA || d.ExchangeB != w.exchangeB {
			t.Errorf("diffs[%d] = %s/%s, want %s/%s", i, d.ExchangeA, d.ExchangeB, w.exchangeA, w.exchangeB)
		}
		if math.Abs(d.PriceDelta-w.delta) > 1e-9 {
			t.Errorf("diffs[%d].PriceDelta = %v, want %v", i, d.PriceDelta, w.delta)
		}
	}
}

func TestComputeDifferences_StableOnEqualMagnitude(t *testing.T) {
	// b-a and c-b have opposite signs but the same magnitude; the stable
	// sort keeps combination order.
	diffs := ComputeDifferences([]PriceObservation{
		obs("a", 1.0),
		obs("b", 2.0),
		obs("c", 1.0),
	})

	if len(diffs) != 3 {
		t.Fatalf("expected 3 differences, got %d", len(diffs))
	}

	if diffs[0].ExchangeA != "a" || diffs[0].ExchangeB != "b" {
		t.Errorf("diffs[0] = %s/%s, want a/b", diffs[0].ExchangeA, diffs[0].ExchangeB)
	}
	if diffs[1].ExchangeA != "b" || diffs[1].ExchangeB != "c" {
		t.Errorf("diffs[1] = %s/%s, want b/c", diffs[1].ExchangeA, diffs[1].ExchangeB)
	}
	if diffs[2].ExchangeA != "a" || diffs[2].ExchangeB != "c" {
		t.Errorf("diffs[2] = %s/%s, want a/c", diffs[2].ExchangeA, diffs[2].ExchangeB)
	}
}

func TestComputeDifferences_Degenerate(t *testing.T) {
	if diffs := ComputeDifferences(nil); len(diffs) != 0 {
		t.Errorf("expected no differences for empty input, got %d", len(diffs))
	}
	if diffs := ComputeDifferences([]PriceObservation{obs("a", 1.0)}); len(diffs) != 0 {
		t.Errorf("expected no differences for single observation, got %d", len(diffs))
	}
}

func TestComputeDifferences_ZeroBasePrice(t *testing.T) {
	diffs := ComputeDifferences([]PriceObservation{
		obs("a", 0),
		obs("b", 5.0),
	})

	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d", len(diffs))
	}
	if diffs[0].DeltaPercent != 0 {
		t.Errorf("DeltaPercent = %v, want 0 when base price is zero", diffs[0].DeltaPercent)
	}
	if math.Abs(diffs[0].PriceDelta-5.0) > 1e-9 {
		t.Errorf("PriceDelta = %v, want 5.0", diffs[0].PriceDelta)
	}
}
