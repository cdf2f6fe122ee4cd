package asset

import "github.com/ethereum/go-ethereum/common"

// Well-known token addresses on Ethereum Mainnet
var (
	AddrWETH = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrUSDC = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	AddrUSDT = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	AddrDAI  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	AddrWBTC = common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599")
)

// Well-known tokens (pre-created instances)
var (
	WETH = NewToken("WETH", "Wrapped Ether", AddrWETH, 18)
	USDC = NewToken("USDC", "USD Coin", AddrUSDC, 6)
	USDT = NewToken("USDT", "Tether USD", AddrUSDT, 6)
	DAI  = NewToken("DAI", "Dai Stablecoin", AddrDAI, 18)
	WBTC = NewToken("WBTC", "Wrapped Bitcoin", AddrWBTC, 8)
)

// DefaultRegistry returns a registry pre-populated with well-known
// Ethereum Mainnet tokens.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(WETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	r.Register(WBTC)

	return r
}
