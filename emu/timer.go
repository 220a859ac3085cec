package emu

import (
	"sync"
	"sync/atomic"
	"time"
)

// TimerRate is the tick frequency in Hz.
const TimerRate = 100

// Timer is a free-running tick counter. It never touches VDP state.
type Timer struct {
	ticks atomic.Uint32

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	exited chan struct{}
}

// Ticks returns the ticks counted since Start.
func (t *Timer) Ticks() uint32 {
	return t.ticks.Load()
}

// Start resets the counter and starts ticking. Starting a running timer
// restarts it.
func (t *Timer) Start() {
	t.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks.Store(0)
	t.ticker = time.NewTicker(time.Second / TimerRate)
	t.done = make(chan struct{})
	t.exited = make(chan struct{})
	go t.run(t.ticker, t.done, t.exited)
}

func (t *Timer) run(ticker *time.Ticker, done, exited chan struct{}) {
	defer close(exited)
	for {
		select {
		case <-ticker.C:
			t.ticks.Add(1)
		case <-done:
			return
		}
	}
}

// Stop halts the counter and returns once no further tick can land. The
// tick count is kept.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.done)
	<-t.exited
	t.ticker = nil
}
