package app

import (
	"sync"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
)

type cacheKey struct {
	exchange  string
	pairLabel string
}

// PriceCache holds the latest observation per (exchange, pair). Entries are
// overwritten on every successful refresh and never deleted; consumers use
// staleness checks instead of expiry.
type PriceCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]domain.PriceObservation
}

// NewPriceCache creates an empty cache.
func NewPriceCache() *PriceCache {
	return &PriceCache{
		entries: make(map[cacheKey]domain.PriceObservation),
	}
}

// Put stores the observation, replacing any prior entry for the same key.
func (c *PriceCache) Put(obs domain.PriceObservation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{exchange: obs.Exchange, pairLabel: obs.PairLabel}] = obs
}

// Get returns the latest observation for the exact (exchange, pairLabel) key.
func (c *PriceCache) Get(exchange, pairLabel string) (domain.PriceObservation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obs, ok := c.entries[cacheKey{exchange: exchange, pairLabel: pairLabel}]
	return obs, ok
}

// Len returns the number of cached observations.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
