package app

import (
	"context"
	"sync"

	"github.com/alirja123/defi-arbitrage-bot/business/pricing/domain"
	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
)

// EventListener subscribes to every configured pool's swap events and
// refreshes only the affected pair when one fires. Subscription failures are
// independent per pair.
type EventListener struct {
	refresher SingleRefresher
	resolver  PoolResolver
	swaps     SwapSubscriber
	exchanges []domain.Exchange
	log       logger.LoggerInterface

	mu      sync.Mutex
	unsubs  []func()
	running bool
}

// NewEventListener creates a listener in the stopped state.
func NewEventListener(
	refresher SingleRefresher,
	resolver PoolResolver,
	swaps SwapSubscriber,
	exchanges []domain.Exchange,
	log logger.LoggerInterface,
) *EventListener {
	return &EventListener{
		refresher: refresher,
		resolver:  resolver,
		swaps:     swaps,
		exchanges: exchanges,
		log:       log,
	}
}

// Start resolves each configured pool and subscribes to its swap events.
// A pair whose resolution or subscription fails is skipped; the rest
// proceed. Calling Start while running is a no-op.
func (l *EventListener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}

	active := 0
	for _, ex := range l.exchanges {
		for _, pair := range ex.Pairs {
			exchange, pair := ex.Name, pair

			pool, err := l.resolver.Resolve(ctx, exchange, pair)
			if err != nil {
				l.log.Warn(ctx, "swap subscription skipped: pool resolution failed",
					"exchange", exchange,
					"pair", pair.Label(),
					"error", err,
				)
				continue
			}

			unsub, err := l.swaps.SubscribeSwaps(ctx, pool, func() {
				if _, err := l.refresher.FetchOne(ctx, exchange, pair); err != nil {
					l.log.Warn(ctx, "event-driven refresh failed",
						"exchange", exchange,
						"pair", pair.Label(),
						"error", err,
					)
				}
			})
			if err != nil {
				l.log.Warn(ctx, "swap subscription failed",
					"exchange", exchange,
					"pair", pair.Label(),
					"error", err,
				)
				continue
			}

			l.unsubs = append(l.unsubs, unsub)
			active++
		}
	}

	l.running = true
	l.log.Info(ctx, "event listener started", "subscriptions", active)
}

// Stop releases every active subscription. No callbacks fire after it
// returns.
func (l *EventListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}

	for _, unsub := range l.unsubs {
		unsub()
	}
	l.unsubs = nil
	l.running = false
	l.log.Info(context.Background(), "event listener stopped")
}

// ActiveSubscriptions returns the number of live swap subscriptions.
func (l *EventListener) ActiveSubscriptions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.unsubs)
}
