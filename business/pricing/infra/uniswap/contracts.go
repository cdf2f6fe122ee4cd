// Package uniswap adapts Uniswap V2-style pool and factory contracts to the
// pricing application ports.
package uniswap

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// FactoryV2ABI covers the single factory method this engine calls.
const FactoryV2ABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "tokenA", "type": "address"},
			{"internalType": "address", "name": "tokenB", "type": "address"}
		],
		"name": "getPair",
		"outputs": [
			{"internalType": "address", "name": "pair", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// PairV2ABI covers the pair contract surface this engine uses: reserve
// reads, token ordering, and the Swap event for event-driven refresh.
const PairV2ABI = `[
	{
		"inputs": [],
		"name": "getReserves",
		"outputs": [
			{"internalType": "uint112", "name": "_reserve0", "type": "uint112"},
			{"internalType": "uint112", "name": "_reserve1", "type": "uint112"},
			{"internalType": "uint32", "name": "_blockTimestampLast", "type": "uint32"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token0",
		"outputs": [
			{"internalType": "address", "name": "", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token1",
		"outputs": [
			{"internalType": "address", "name": "", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "amount0In", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "amount1In", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "amount0Out", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "amount1Out", "type": "uint256"},
			{"indexed": true, "internalType": "address", "name": "to", "type": "address"}
		],
		"name": "Swap",
		"type": "event"
	}
]`

var (
	factoryABI = mustParseABI(FactoryV2ABI)
	pairABI    = mustParseABI(PairV2ABI)

	// SwapEventID is the topic hash of the pair Swap event.
	SwapEventID = pairABI.Events["Swap"].ID
)

// ZeroAddress is the factory's "no pool exists" sentinel.
var ZeroAddress = common.Address{}

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic("uniswap: invalid ABI definition: " + err.Error())
	}
	return parsed
}
