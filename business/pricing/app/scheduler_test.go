package app

import (
	"context"
	"testing"
	"time"
)

// fetchRecorder signals every FetchAll invocation.
type fetchRecorder struct {
	calls chan struct{}
}

func newFetchRecorder() *fetchRecorder {
	return &fetchRecorder{calls: make(chan struct{}, 16)}
}

func (f *fetchRecorder) FetchAll(ctx context.Context) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
}

func (f *fetchRecorder) waitForCall(t *testing.T) {
	t.Helper()
	select {
	case <-f.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a refresh cycle")
	}
}

func TestPollingScheduler_StartTriggersImmediateCycle(t *testing.T) {
	recorder := newFetchRecorder()
	s := NewPollingScheduler(recorder, time.Hour, &mockLogger{})
	defer s.Stop()

	s.Start(context.Background())
	recorder.waitForCall(t)

	if !s.Running() {
		t.Error("scheduler should report running after Start")
	}
}

func TestPollingScheduler_StartIsIdempotent(t *testing.T) {
	recorder := newFetchRecorder()
	s := NewPollingScheduler(recorder, time.Hour, &mockLogger{})
	defer s.Stop()

	s.Start(context.Background())
	s.Start(context.Background())
	recorder.waitForCall(t)

	// With an hour-long interval a second cycle can only come from a second
	// run loop.
	select {
	case <-recorder.calls:
		t.Error("double Start spawned a second polling loop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPollingScheduler_PollsPeriodically(t *testing.T) {
	recorder := newFetchRecorder()
	s := NewPollingScheduler(recorder, 10*time.Millisecond, &mockLogger{})
	defer s.Stop()

	s.Start(context.Background())
	recorder.waitForCall(t)
	recorder.waitForCall(t)
	recorder.waitForCall(t)
}

func TestPollingScheduler_StopAndRestart(t *testing.T) {
	recorder := newFetchRecorder()
	s := NewPollingScheduler(recorder, time.Hour, &mockLogger{})

	s.Start(context.Background())
	recorder.waitForCall(t)

	s.Stop()
	if s.Running() {
		t.Error("scheduler should report idle after Stop")
	}

	s.Start(context.Background())
	defer s.Stop()
	recorder.waitForCall(t)
}

func TestPollingScheduler_DefaultInterval(t *testing.T) {
	s := NewPollingScheduler(newFetchRecorder(), 0, &mockLogger{})
	if s.interval != DefaultPollInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultPollInterval)
	}
}
