package domain

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// PriceDifference is the pairwise delta between two exchanges' observations
// of the same pair. Derived on demand, never stored.
type PriceDifference struct {
	ExchangeA    string
	ExchangeB    string
	PriceDelta   float64 // priceB - priceA
	DeltaPercent float64 // 100 * (priceB - priceA) / priceA
}

// ComputeDifferences builds every unordered exchange combination (i<j in the
// input's iteration order) and ranks the result descending by |PriceDelta|.
// The sort is stable, so equal-magnitude deltas keep combination order.
func ComputeDifferences(observations []PriceObservation) []PriceDifference {
	var diffs []PriceDifference
	for i := 0; i < len(observations); i++ {
		for j := i + 1; j < len(observations); j++ {
			diffs = append(diffs, newDifference(observations[i], observations[j]))
		}
	}

	sort.SliceStable(diffs, func(a, b int) bool {
		return math.Abs(diffs[a].PriceDelta) > math.Abs(diffs[b].PriceDelta)
	})

	return diffs
}

func newDifference(a, b PriceObservation) PriceDifference {
	delta := decimal.NewFromFloat(b.Price).Sub(decimal.NewFromFloat(a.Price))

	percent := decimal.Zero
	if a.Price != 0 {
		percent = delta.Div(decimal.NewFromFloat(a.Price)).Mul(decimal.NewFromInt(100))
	}

	return PriceDifference{
		ExchangeA:    a.Exchange,
		ExchangeB:    b.Exchange,
		PriceDelta:   delta.InexactFloat64(),
		DeltaPercent: percent.InexactFloat64(),
	}
}
