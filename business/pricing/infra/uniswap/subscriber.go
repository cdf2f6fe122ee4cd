package uniswap

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/app"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
)

// swapLogBuffer absorbs bursts of swap events on busy pools.
const swapLogBuffer = 32

// Ensure SwapEventSubscriber implements the application port.
var _ app.SwapSubscriber = (*SwapEventSubscriber)(nil)

// SwapEventSubscriber delivers per-pool Swap event callbacks over the
// client's log subscription facility.
type SwapEventSubscriber struct {
	client LogSubscriber
	log    logger.LoggerInterface
}

// NewSwapEventSubscriber creates a subscriber over the given chain client.
func NewSwapEventSubscriber(client LogSubscriber, log logger.LoggerInterface) *SwapEventSubscriber {
	return &SwapEventSubscriber{client: client, log: log}
}

// SubscribeSwaps subscribes to the pool's Swap events. onSwap fires once per
// received log. The returned function cancels the subscription; it is safe
// to call more than once.
func (s *SwapEventSubscriber) SubscribeSwaps(ctx context.Context, pool common.Address, onSwap func()) (func(), error) {
	logs := make(chan types.Log, swapLogBuffer)
	query := ethereum.FilterQuery{
		Addresses: []common.Address{pool},
		Topics:    [][]common.Hash{{SwapEventID}},
	}

	sub, err := s.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, apperror.New(apperror.CodeSubscribeFailed,
			apperror.WithCause(err),
			apperror.WithContext("swap subscription for pool "+pool.Hex()))
	}

	done := make(chan struct{})
	go s.run(ctx, pool, sub, logs, done, onSwap)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			sub.Unsubscribe()
		})
	}

	return unsubscribe, nil
}

func (s *SwapEventSubscriber) run(
	ctx context.Context,
	pool common.Address,
	sub ethereum.Subscription,
	logs <-chan types.Log,
	done <-chan struct{},
	onSwap func(),
) {
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				s.log.Warn(ctx, "swap subscription ended",
					"pool", pool.Hex(),
					"error", err,
				)
			}
			return
		case <-logs:
			onSwap()
		}
	}
}
