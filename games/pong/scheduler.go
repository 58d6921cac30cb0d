package pong

import (
	"context"
	"sync/atomic"
	"time"
)

// Ticker is the subset of *time.Ticker the scheduler uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (tt timeTicker) C() <-chan time.Time { return tt.t.C }
func (tt timeTicker) Stop()               { tt.t.Stop() }

func NewTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Scheduler delivers ticks to fn while gate holds and drops them otherwise.
type Scheduler struct {
	ticker Ticker
	gate   func() bool
	fn     func()

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func NewScheduler(ticker Ticker, gate func() bool, fn func()) *Scheduler {
	return &Scheduler{
		ticker: ticker,
		gate:   gate,
		fn:     fn,
	}
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ticker.C():
			if !s.gate() {
				s.dropped.Add(1)
				continue
			}
			s.delivered.Add(1)
			s.fn()
		}
	}
}

func (s *Scheduler) Delivered() uint64 {
	return s.delivered.Load()
}

func (s *Scheduler) Dropped() uint64 {
	return s.dropped.Load()
}
