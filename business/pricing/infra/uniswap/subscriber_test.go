package uniswap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alirja123/defi-arbitrage-bot/internal/apperror"
)

type fakeSubscription struct {
	errCh     chan error
	mu        sync.Mutex
	cancelled int
}

func (f *fakeSubscription) Unsubscribe() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled++
}

func (f *fakeSubscription) Err() <-chan error {
	return f.errCh
}

// fakeLogClient captures the log channel so tests can inject events.
type fakeLogClient struct {
	mu      sync.Mutex
	logCh   chan<- types.Log
	query   ethereum.FilterQuery
	sub     *fakeSubscription
	dialErr error
}

func (f *fakeLogClient) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	f.logCh = ch
	f.query = q
	f.sub = &fakeSubscription{errCh: make(chan error, 1)}
	return f.sub, nil
}

func TestSwapEventSubscriber_DeliversCallbacks(t *testing.T) {
	client := &fakeLogClient{}
	s := NewSwapEventSubscriber(client, &mockLogger{})
	pool := common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")

	fired := make(chan struct{}, 8)
	unsubscribe, err := s.SubscribeSwaps(context.Background(), pool, func() {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("SubscribeSwaps failed: %v", err)
	}
	defer unsubscribe()

	// The filter targets exactly this pool's Swap events.
	if len(client.query.Addresses) != 1 || client.query.Addresses[0] != pool {
		t.Errorf("unexpected filter addresses: %v", client.query.Addresses)
	}
	if len(client.query.Topics) != 1 || client.query.Topics[0][0] != SwapEventID {
		t.Errorf("unexpected filter topics: %v", client.query.Topics)
	}

	client.logCh <- types.Log{Address: pool}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for swap callback")
	}

	client.logCh <- types.Log{Address: pool}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second swap callback")
	}
}

func TestSwapEventSubscriber_UnsubscribeIsIdempotent(t *testing.T) {
	client := &fakeLogClient{}
	s := NewSwapEventSubscriber(client, &mockLogger{})

	unsubscribe, err := s.SubscribeSwaps(context.Background(), common.HexToAddress("0x10"), func() {})
	if err != nil {
		t.Fatalf("SubscribeSwaps failed: %v", err)
	}

	unsubscribe()
	unsubscribe()

	client.sub.mu.Lock()
	defer client.sub.mu.Unlock()
	if client.sub.cancelled != 1 {
		t.Errorf("Unsubscribe called %d times, want 1", client.sub.cancelled)
	}
}

func TestSwapEventSubscriber_SubscriptionFailure(t *testing.T) {
	client := &fakeLogClient{dialErr: errors.New("websocket unavailable")}
	s := NewSwapEventSubscriber(client, &mockLogger{})

	_, err := s.SubscribeSwaps(context.Background(), common.HexToAddress("0x10"), func() {})
	if !apperror.IsCode(err, apperror.CodeSubscribeFailed) {
		t.Errorf("expected CodeSubscribeFailed, got %v", err)
	}
}

func TestSwapEventSubscriber_StopsOnStreamError(t *testing.T) {
	client := &fakeLogClient{}
	s := NewSwapEventSubscriber(client, &mockLogger{})

	fired := make(chan struct{}, 1)
	unsubscribe, err := s.SubscribeSwaps(context.Background(), common.HexToAddress("0x10"), func() {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("SubscribeSwaps failed: %v", err)
	}
	defer unsubscribe()

	client.sub.errCh <- errors.New("stream reset")

	// Give the run loop a moment to observe the error, then verify no
	// further callbacks are delivered.
	time.Sleep(50 * time.Millisecond)
	select {
	case client.logCh <- types.Log{}:
	default:
	}
	select {
	case <-fired:
		t.Error("callback fired after stream error")
	case <-time.After(50 * time.Millisecond):
	}
}
