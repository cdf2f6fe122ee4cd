// Package domain contains the core domain types for the pricing context.
package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token identifies one side of a trading pair: a display symbol plus the
// ERC20 contract address used for on-chain calls.
type Token struct {
	Symbol  string
	Address common.Address
}

// NewToken creates a Token. The symbol is kept as declared; comparisons are
// case-insensitive everywhere, so "weth" and "WETH" name the same token.
func NewToken(symbol string, address common.Address) Token {
	if symbol == "" {
		panic("domain: empty token symbol")
	}
	return Token{Symbol: symbol, Address: address}
}

// TokenPair is an ordered pair of tokens as declared in configuration.
// The declared order is significant: prices are always quoted as units of
// TokenB per unit of TokenA, regardless of the pool's internal ordering.
type TokenPair struct {
	TokenA Token
	TokenB Token

	// PairAddress is the pool contract, when statically configured.
	// Zero means the address must be resolved via the exchange's factory.
	PairAddress common.Address
}

// NewTokenPair creates a pair in declared order.
func NewTokenPair(a, b Token) TokenPair {
	return TokenPair{TokenA: a, TokenB: b}
}

// PairKey builds the canonical cache key for two token identifiers in the
// given order. Keys are case-insensitive.
func PairKey(tokenA, tokenB string) string {
	return strings.ToUpper(tokenA) + "/" + strings.ToUpper(tokenB)
}

// Label returns the pair's canonical key in declared order. (A,B) and (B,A)
// queries both resolve to this single label via Matches.
func (p TokenPair) Label() string {
	return PairKey(p.TokenA.Symbol, p.TokenB.Symbol)
}

// Matches reports whether the pair is composed of the two given token
// identifiers, in either order.
func (p TokenPair) Matches(tokenA, tokenB string) bool {
	return (strings.EqualFold(p.TokenA.Symbol, tokenA) && strings.EqualFold(p.TokenB.Symbol, tokenB)) ||
		(strings.EqualFold(p.TokenA.Symbol, tokenB) && strings.EqualFold(p.TokenB.Symbol, tokenA))
}

// String returns the pair in declared order (e.g. "WETH/USDC").
func (p TokenPair) String() string {
	return p.Label()
}
