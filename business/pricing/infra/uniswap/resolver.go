package uniswap

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/app"
	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
	"github.com/alirja123/defi-arbitrage-bot/internal/circuitbreaker"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
)

// Ensure Resolver implements the application port.
var _ app.PoolResolver = (*Resolver)(nil)

// Resolver resolves pool addresses through each exchange's factory.
// Successful resolutions are cached for the engine's lifetime; pool
// addresses never change once a pool exists.
type Resolver struct {
	registry *ContractRegistry
	client   ContractCaller
	cb       *circuitbreaker.CircuitBreaker[[]byte]
	log      logger.LoggerInterface

	mu    sync.RWMutex
	cache map[string]common.Address
}

// NewResolver creates a Resolver backed by the given registry and client.
func NewResolver(registry *ContractRegistry, client ContractCaller, log logger.LoggerInterface) *Resolver {
	return &Resolver{
		registry: registry,
		client:   client,
		cb:       circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("factory-get-pair")),
		log:      log,
		cache:    make(map[string]common.Address),
	}
}

// Resolve returns the pool address for the pair on the exchange. A
// statically configured pair address short-circuits without any call.
func (r *Resolver) Resolve(ctx context.Context, exchange string, pair domain.TokenPair) (common.Address, error) {
	if pair.PairAddress != ZeroAddress {
		return pair.PairAddress, nil
	}

	key := exchange + "|" + pair.Label()

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	factory, ok := r.registry.Factory(exchange)
	if !ok {
		return common.Address{}, apperror.New(apperror.CodePairNotFound,
			apperror.WithContext("no factory registered for exchange "+exchange))
	}

	callData, err := factoryABI.Pack("getPair", pair.TokenA.Address, pair.TokenB.Address)
	if err != nil {
		return common.Address{}, apperror.Wrap(err, apperror.CodeContractCallFailed, "encode getPair")
	}

	result, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{
			To:   &factory,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return common.Address{}, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("getPair call failed on %s", exchange)))
	}

	outputs, err := factoryABI.Unpack("getPair", result)
	if err != nil {
		return common.Address{}, apperror.Wrap(err, apperror.CodeContractCallFailed, "decode getPair")
	}
	if len(outputs) != 1 {
		return common.Address{}, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("unexpected getPair output length: %d", len(outputs))))
	}

	pool, ok := outputs[0].(common.Address)
	if !ok {
		return common.Address{}, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext("getPair returned a non-address value"))
	}

	if pool == ZeroAddress {
		return common.Address{}, apperror.New(apperror.CodePairNotFound,
			apperror.WithContext(fmt.Sprintf("%s has no pool for %s", exchange, pair.Label())))
	}

	r.mu.Lock()
	r.cache[key] = pool
	r.mu.Unlock()

	r.log.Debug(ctx, "pool resolved",
		"exchange", exchange,
		"pair", pair.Label(),
		"pool", pool.Hex(),
	)

	return pool, nil
}

// CachedResolutions returns the number of cached pool addresses.
func (r *Resolver) CachedResolutions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
