// Package pricing implements the price aggregation bounded context: a
// continuously refreshed view of token-pair exchange rates across multiple
// DEXes, queryable for cross-exchange differences.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/app"
	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/business/pricing/infra/uniswap"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
	"github.com/alirja123/defi-arbitrage-bot/internal/asset"
	"github.com/alirja123/defi-arbitrage-bot/internal/config"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
	"github.com/alirja123/defi-arbitrage-bot/internal/ratelimit"
)

// Engine owns the aggregation state: the price cache, the pool-address
// resolution cache, the polling scheduler, and the swap-event listener.
// Lifetime is construction to Stop; there is no ambient global state.
type Engine struct {
	service   *app.PriceService
	scheduler *app.PollingScheduler
	listener  *app.EventListener
	agg       *app.Aggregator
	registry  *uniswap.ContractRegistry
	log       logger.LoggerInterface
}

// NewEngine builds the engine from configuration. Exchanges with broken
// configuration (bad addresses, unresolvable tokens) are logged and skipped;
// construction fails only when no exchange survives.
func NewEngine(
	cfg *config.Config,
	client uniswap.ChainClient,
	tokens *asset.Registry,
	log logger.LoggerInterface,
) (*Engine, error) {
	ctx := context.Background()

	registry := uniswap.NewContractRegistry()
	exchanges := make([]domain.Exchange, 0, len(cfg.Aggregator.Exchanges))

	for _, exCfg := range cfg.Aggregator.Exchanges {
		ex, err := buildExchange(exCfg, tokens)
		if err != nil {
			log.Warn(ctx, "skipping exchange with invalid configuration",
				"exchange", exCfg.Name,
				"error", err,
			)
			continue
		}

		if err := registry.Register(ex); err != nil {
			log.Warn(ctx, "skipping exchange: contract registration failed",
				"exchange", ex.Name,
				"error", err,
			)
			continue
		}

		exchanges = append(exchanges, ex)
	}

	if len(exchanges) == 0 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("no usable exchange configured"))
	}

	resolver := uniswap.NewResolver(registry, client, log)
	reader, err := uniswap.NewReader(client, log)
	if err != nil {
		return nil, err
	}
	swaps := uniswap.NewSwapEventSubscriber(client, log)

	var limiter *ratelimit.Limiter
	if cfg.Aggregator.RPCRateLimit > 0 {
		limiter = ratelimit.New(cfg.Aggregator.RPCRateLimit)
	}

	cache := app.NewPriceCache()
	service, err := app.NewPriceService(exchanges, resolver, reader, cache, limiter, log)
	if err != nil {
		return nil, err
	}

	return &Engine{
		service:   service,
		scheduler: app.NewPollingScheduler(service, cfg.Aggregator.PollInterval(), log),
		listener:  app.NewEventListener(service, resolver, swaps, exchanges, log),
		agg:       app.NewAggregator(cache, exchanges, cfg.Aggregator.StaleAfter()),
		registry:  registry,
		log:       log,
	}, nil
}

func buildExchange(exCfg config.ExchangeConfig, tokens *asset.Registry) (domain.Exchange, error) {
	if !common.IsHexAddress(exCfg.RouterAddress) {
		return domain.Exchange{}, apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("invalid router address "+exCfg.RouterAddress))
	}
	if !common.IsHexAddress(exCfg.FactoryAddress) {
		return domain.Exchange{}, apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("invalid factory address "+exCfg.FactoryAddress))
	}

	ex := domain.Exchange{
		Name:    exCfg.Name,
		Router:  exCfg.RouterAddressHex(),
		Factory: exCfg.FactoryAddressHex(),
	}

	for _, pairCfg := range exCfg.Pairs {
		addrA, ok := tokens.Resolve(pairCfg.TokenA)
		if !ok {
			return domain.Exchange{}, apperror.New(apperror.CodeUnknownToken,
				apperror.WithContext(pairCfg.TokenA))
		}
		addrB, ok := tokens.Resolve(pairCfg.TokenB)
		if !ok {
			return domain.Exchange{}, apperror.New(apperror.CodeUnknownToken,
				apperror.WithContext(pairCfg.TokenB))
		}

		pair := domain.NewTokenPair(
			domain.NewToken(pairCfg.TokenA, addrA),
			domain.NewToken(pairCfg.TokenB, addrB),
		)
		if pairCfg.PairAddress != "" {
			if !common.IsHexAddress(pairCfg.PairAddress) {
				return domain.Exchange{}, apperror.New(apperror.CodeExchangeInitFailed,
					apperror.WithContext("invalid pair address "+pairCfg.PairAddress))
			}
			pair.PairAddress = common.HexToAddress(pairCfg.PairAddress)
		}

		ex.Pairs = append(ex.Pairs, pair)
	}

	if len(ex.Pairs) == 0 {
		return domain.Exchange{}, apperror.New(apperror.CodeExchangeInitFailed,
			apperror.WithContext("no pairs configured for "+exCfg.Name))
	}

	return ex, nil
}

// Start launches the polling scheduler and the swap-event listener. Both are
// idempotent.
func (e *Engine) Start(ctx context.Context) {
	e.scheduler.Start(ctx)
	e.listener.Start(ctx)
}

// Stop halts scheduling of new work and releases all event subscriptions.
// In-flight fetches may still complete and write to the cache.
func (e *Engine) Stop() {
	e.scheduler.Stop()
	e.listener.Stop()
}

// Running reports whether the polling scheduler is active.
func (e *Engine) Running() bool {
	return e.scheduler.Running()
}

// Aggregator returns the query surface over the price cache.
func (e *Engine) Aggregator() *app.Aggregator {
	return e.agg
}

// Service returns the price service, e.g. for targeted refreshes.
func (e *Engine) Service() *app.PriceService {
	return e.service
}

// Subscribe registers a consumer of price-update notifications.
func (e *Engine) Subscribe() (<-chan domain.PriceUpdate, func()) {
	return e.service.Subscribe()
}

// Exchanges returns the descriptors of the usable exchanges.
func (e *Engine) Exchanges() []domain.Exchange {
	return e.service.Exchanges()
}
