package domain

import (
	"time"
)

// DefaultMaxAge is the staleness threshold applied when the caller does not
// supply one.
const DefaultMaxAge = 60 * time.Second

// PriceObservation is the latest observed exchange rate for one pair on one
// exchange. Price is units of the pair's TokenB per unit of TokenA, as
// declared in configuration.
type PriceObservation struct {
	PairLabel  string
	Exchange   string
	Price      float64
	ObservedAt time.Time
}

// Age returns how long ago the observation was taken.
func (o PriceObservation) Age(now time.Time) time.Duration {
	return now.Sub(o.ObservedAt)
}

// IsStale reports whether the observation is older than maxAge. A
// non-positive maxAge falls back to DefaultMaxAge.
func (o PriceObservation) IsStale(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return o.Age(now) > maxAge
}

// PriceUpdate is broadcast to subscribers after every successful refresh.
type PriceUpdate struct {
	PairLabel string
	Exchange  string
	Price     float64
}
