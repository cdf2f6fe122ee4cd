// Package asset provides a registry of known ERC20 tokens so configuration
// can name tokens by symbol instead of raw contract addresses.
package asset

import "github.com/ethereum/go-ethereum/common"

// Token is the metadata of an ERC20 token. The address is the identity;
// the symbol is display metadata.
type Token struct {
	symbol   string
	name     string
	address  common.Address
	decimals uint8
}

// NewToken creates a Token with the given parameters.
func NewToken(symbol, name string, address common.Address, decimals uint8) *Token {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if address == (common.Address{}) {
		panic("asset: zero token address")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Token{
		symbol:   symbol,
		name:     name,
		address:  address,
		decimals: decimals,
	}
}

// Symbol returns the ticker symbol (e.g. "WETH", "USDC").
func (t *Token) Symbol() string {
	return t.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (t *Token) Name() string {
	if t.name == "" {
		return t.symbol
	}
	return t.name
}

// Address returns the token contract address.
func (t *Token) Address() common.Address {
	return t.address
}

// Decimals returns the token's decimal precision. Carried as metadata only;
// the aggregation engine quotes raw reserve ratios.
func (t *Token) Decimals() uint8 {
	return t.decimals
}

// String returns the symbol.
func (t *Token) String() string {
	return t.symbol
}
