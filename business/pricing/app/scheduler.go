package app

import (
	"context"
	"sync"
	"time"

	"github.com/alirja123/defi-arbitrage-bot/internal/logger"
)

// DefaultPollInterval is used when the scheduler is constructed with a
// non-positive interval.
const DefaultPollInterval = 10 * time.Second

// PollingScheduler drives periodic full-refresh cycles. Each cycle runs
// FetchAll to completion and then waits the interval, so slow cycles
// self-throttle instead of stacking.
type PollingScheduler struct {
	refresher Refresher
	interval  time.Duration
	log       logger.LoggerInterface

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPollingScheduler creates a scheduler in the idle state.
func NewPollingScheduler(refresher Refresher, interval time.Duration, log logger.LoggerInterface) *PollingScheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollingScheduler{
		refresher: refresher,
		interval:  interval,
		log:       log,
	}
}

// Start begins polling. The first refresh is triggered immediately. Calling
// Start while running is a no-op.
func (s *PollingScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.log.Debug(ctx, "polling scheduler already running")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.log.Info(ctx, "polling scheduler started", "interval", s.interval)
	go s.run(runCtx, s.done)
}

func (s *PollingScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		s.refresher.FetchAll(ctx)

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Stop returns the scheduler to idle. No further cycle is scheduled after it
// returns; a cycle already in flight may still complete and write to the
// cache.
func (s *PollingScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}

	s.cancel()
	s.cancel = nil
	s.done = nil
	s.log.Info(context.Background(), "polling scheduler stopped")
}

// Running reports whether the scheduler is in the running state.
func (s *PollingScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
