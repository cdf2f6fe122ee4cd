package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
	"github.com/alirja123/defi-arbitrage-bot/internal/ratelimit"
)

const (
	tracerName = "pricing"
	meterName  = "pricing"

	// updateBuffer is the per-subscriber channel depth. Slow consumers drop
	// updates rather than stalling refreshes.
	updateBuffer = 64
)

// serviceMetrics holds OTEL metric instruments.
type serviceMetrics struct {
	fetchesTotal metric.Int64Counter
	fetchErrors  metric.Int64Counter
	fetchLatency metric.Float64Histogram
}

// PriceService refreshes pool prices into the cache and broadcasts updates.
// It is safe for concurrent use: polling cycles and swap-event callbacks may
// refresh the same pair at once, and the last successful write wins.
type PriceService struct {
	exchanges []domain.Exchange
	resolver  PoolResolver
	reader    PoolStateReader
	cache     *PriceCache
	limiter   *ratelimit.Limiter
	log       logger.LoggerInterface
	now       func() time.Time

	subsMu  sync.Mutex
	subs    map[int]chan domain.PriceUpdate
	nextSub int

	tracer  trace.Tracer
	metrics *serviceMetrics
}

var (
	_ Refresher       = (*PriceService)(nil)
	_ SingleRefresher = (*PriceService)(nil)
)

// NewPriceService creates a PriceService. limiter may be nil to disable RPC
// pacing.
func NewPriceService(
	exchanges []domain.Exchange,
	resolver PoolResolver,
	reader PoolStateReader,
	cache *PriceCache,
	limiter *ratelimit.Limiter,
	log logger.LoggerInterface,
) (*PriceService, error) {
	s := &PriceService{
		exchanges: exchanges,
		resolver:  resolver,
		reader:    reader,
		cache:     cache,
		limiter:   limiter,
		log:       log,
		now:       time.Now,
		subs:      make(map[int]chan domain.PriceUpdate),
		tracer:    otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *PriceService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.fetchesTotal, err = meter.Int64Counter(
		"price_fetches_total",
		metric.WithDescription("Total price fetch attempts"),
	)
	if err != nil {
		return err
	}

	s.metrics.fetchErrors, err = meter.Int64Counter(
		"price_fetch_errors_total",
		metric.WithDescription("Total failed price fetches"),
	)
	if err != nil {
		return err
	}

	s.metrics.fetchLatency, err = meter.Float64Histogram(
		"price_fetch_latency_ms",
		metric.WithDescription("Price fetch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Exchanges returns the configured exchange descriptors.
func (s *PriceService) Exchanges() []domain.Exchange {
	return s.exchanges
}

// Cache returns the shared price cache.
func (s *PriceService) Cache() *PriceCache {
	return s.cache
}

// FetchOne refreshes the price of one pair on one exchange: resolve the
// pool, read reserves, normalize ordering against the declared pair, compute
// the rate, overwrite the cache entry and broadcast an update.
func (s *PriceService) FetchOne(ctx context.Context, exchange string, pair domain.TokenPair) (domain.PriceObservation, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.fetch_one",
		trace.WithAttributes(
			attribute.String("exchange", exchange),
			attribute.String("pair", pair.Label()),
		),
	)
	defer span.End()

	start := s.now()
	s.metrics.fetchesTotal.Add(ctx, 1)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.metrics.fetchErrors.Add(ctx, 1)
			span.SetStatus(codes.Error, "rate limiter wait cancelled")
			return domain.PriceObservation{}, apperror.Wrap(err, apperror.CodeFetchFailed, "rate limiter wait")
		}
	}

	pool, err := s.resolver.Resolve(ctx, exchange, pair)
	if err != nil {
		s.metrics.fetchErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "pool resolution failed")
		return domain.PriceObservation{}, err
	}

	state, err := s.reader.ReadState(ctx, pool)
	if err != nil {
		s.metrics.fetchErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "pool state read failed")
		return domain.PriceObservation{}, apperror.Wrap(err, apperror.CodeFetchFailed, "read pool state")
	}

	// The pool orders tokens by address, independent of the declared order.
	reserveA, reserveB := state.Reserve0, state.Reserve1
	if state.Token0 != pair.TokenA.Address {
		reserveA, reserveB = state.Reserve1, state.Reserve0
	}

	if reserveA == nil || reserveB == nil || reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		s.metrics.fetchErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "empty pool")
		return domain.PriceObservation{}, apperror.New(apperror.CodeEmptyPool,
			apperror.WithContext(exchange+" "+pair.Label()))
	}

	// Price is units of the declared TokenB per unit of TokenA, as a raw
	// reserve ratio with no decimals normalization.
	price := decimal.NewFromBigInt(reserveB, 0).
		Div(decimal.NewFromBigInt(reserveA, 0)).
		InexactFloat64()

	obs := domain.PriceObservation{
		PairLabel:  pair.Label(),
		Exchange:   exchange,
		Price:      price,
		ObservedAt: s.now(),
	}
	s.cache.Put(obs)

	s.publish(domain.PriceUpdate{
		PairLabel: obs.PairLabel,
		Exchange:  obs.Exchange,
		Price:     obs.Price,
	})

	latency := float64(s.now().Sub(start).Milliseconds())
	s.metrics.fetchLatency.Record(ctx, latency)
	span.SetAttributes(attribute.Float64("price", price))
	span.SetStatus(codes.Ok, "fetched")

	s.log.Debug(ctx, "price refreshed",
		"exchange", exchange,
		"pair", obs.PairLabel,
		"price", price,
	)

	return obs, nil
}

// FetchAll refreshes every configured (exchange, pair) combination
// concurrently and waits for all attempts to settle. Individual failures are
// logged and never abort sibling fetches.
func (s *PriceService) FetchAll(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "pricing.fetch_all")
	defer span.End()

	var wg sync.WaitGroup
	for _, ex := range s.exchanges {
		for _, pair := range ex.Pairs {
			wg.Add(1)
			go func(exchange string, pair domain.TokenPair) {
				defer wg.Done()
				if _, err := s.FetchOne(ctx, exchange, pair); err != nil {
					s.log.Warn(ctx, "price refresh failed",
						"exchange", exchange,
						"pair", pair.Label(),
						"error", err,
					)
				}
			}(ex.Name, pair)
		}
	}
	wg.Wait()

	span.SetStatus(codes.Ok, "cycle complete")
}

// Subscribe registers a consumer of price updates. The returned cancel
// function releases the subscription; after it returns no further updates
// are delivered on the channel.
func (s *PriceService) Subscribe() (<-chan domain.PriceUpdate, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.PriceUpdate, updateBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

func (s *PriceService) publish(update domain.PriceUpdate) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- update:
		default:
			// Subscriber is not keeping up; drop rather than block refreshes.
		}
	}
}
