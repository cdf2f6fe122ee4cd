package uniswap

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// ContractCaller is the read-only slice of the Ethereum client this adapter
// needs for contract calls. *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// LogSubscriber is the slice of the Ethereum client used for event
// subscriptions. *ethclient.Client satisfies it.
type LogSubscriber interface {
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// ChainClient combines the two capabilities the adapter consumes.
type ChainClient interface {
	ContractCaller
	LogSubscriber
}
