package domain

import "github.com/ethereum/go-ethereum/common"

// Exchange describes one configured DEX: its name, router and factory
// contracts, and the pairs it supports. Immutable after construction.
type Exchange struct {
	Name    string
	Router  common.Address
	Factory common.Address
	Pairs   []TokenPair
}

// SupportsPair reports whether the exchange's configured pair list contains
// the given tokens, in either order.
func (e Exchange) SupportsPair(tokenA, tokenB string) bool {
	_, ok := e.FindPair(tokenA, tokenB)
	return ok
}

// FindPair returns the configured pair matching the two tokens in either
// order, preserving the declared orientation.
func (e Exchange) FindPair(tokenA, tokenB string) (TokenPair, bool) {
	for _, p := range e.Pairs {
		if p.Matches(tokenA, tokenB) {
			return p, true
		}
	}
	return TokenPair{}, false
}
