// Package app contains application services and port definitions for the
// pricing context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
)

// PoolResolver resolves the pool contract address for a pair on one exchange.
type PoolResolver interface {
	// Resolve returns the pool address, consulting the exchange's factory
	// when the pair carries no static address. Resolutions are cached for
	// the engine's lifetime.
	Resolve(ctx context.Context, exchange string, pair domain.TokenPair) (common.Address, error)
}

// PoolState is a single read of a pool's on-chain state.
type PoolState struct {
	Reserve0 *big.Int
	Reserve1 *big.Int
	Token0   common.Address // which token occupies reserve slot 0
}

// PoolStateReader reads reserve state from a resolved pool contract.
type PoolStateReader interface {
	ReadState(ctx context.Context, pool common.Address) (PoolState, error)
}

// SwapSubscriber subscribes to a pool's swap events. onSwap fires once per
// event; the returned function cancels the subscription.
type SwapSubscriber interface {
	SubscribeSwaps(ctx context.Context, pool common.Address, onSwap func()) (func(), error)
}

// Refresher triggers a full refresh cycle across all configured pairs.
type Refresher interface {
	FetchAll(ctx context.Context)
}

// SingleRefresher triggers a targeted refresh of one pair on one exchange.
type SingleRefresher interface {
	FetchOne(ctx context.Context, exchange string, pair domain.TokenPair) (domain.PriceObservation, error)
}
