package app

import (
	"time"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
)

// Aggregator is the stateless query surface over the price cache and the
// static exchange configuration.
type Aggregator struct {
	cache      *PriceCache
	exchanges  []domain.Exchange
	staleAfter time.Duration
	now        func() time.Time
}

// NewAggregator creates an Aggregator. staleAfter is the default staleness
// threshold; non-positive falls back to domain.DefaultMaxAge.
func NewAggregator(cache *PriceCache, exchanges []domain.Exchange, staleAfter time.Duration) *Aggregator {
	if staleAfter <= 0 {
		staleAfter = domain.DefaultMaxAge
	}
	return &Aggregator{
		cache:      cache,
		exchanges:  exchanges,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// GetLatest returns the latest observation for the pair on one exchange,
// accepting the tokens in either order.
func (a *Aggregator) GetLatest(exchange, tokenA, tokenB string) (domain.PriceObservation, bool) {
	if obs, ok := a.cache.Get(exchange, domain.PairKey(tokenA, tokenB)); ok {
		return obs, true
	}
	return a.cache.Get(exchange, domain.PairKey(tokenB, tokenA))
}

// GetAllForPair returns every exchange's latest observation for the pair, in
// configured exchange order. Exchanges with no observation yet are absent.
func (a *Aggregator) GetAllForPair(tokenA, tokenB string) []domain.PriceObservation {
	var out []domain.PriceObservation
	for _, ex := range a.exchanges {
		if obs, ok := a.GetLatest(ex.Name, tokenA, tokenB); ok {
			out = append(out, obs)
		}
	}
	return out
}

// IsStale reports whether the observation is older than maxAge. A
// non-positive maxAge uses the aggregator's configured threshold.
func (a *Aggregator) IsStale(obs domain.PriceObservation, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = a.staleAfter
	}
	return obs.IsStale(a.now(), maxAge)
}

// ListExchangesForPair returns the names of exchanges whose configured pair
// list contains the pair, in either order. This is a static lookup over
// configuration, not the cache.
func (a *Aggregator) ListExchangesForPair(tokenA, tokenB string) []string {
	var names []string
	for _, ex := range a.exchanges {
		if ex.SupportsPair(tokenA, tokenB) {
			names = append(names, ex.Name)
		}
	}
	return names
}

// DiffForPair computes pairwise price differences between all exchanges
// holding an observation for the pair, ranked descending by absolute delta.
func (a *Aggregator) DiffForPair(tokenA, tokenB string) []domain.PriceDifference {
	return domain.ComputeDifferences(a.GetAllForPair(tokenA, tokenB))
}
