package emu

import (
	"testing"
	"time"
)

func TestTimer_Ticks(t *testing.T) {
	var tm Timer
	tm.Start()
	defer tm.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for tm.Ticks() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d ticks after 2s", tm.Ticks())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTimer_StopKeepsCount(t *testing.T) {
	var tm Timer
	tm.Stop() // stopping an idle timer is a no-op
	tm.Start()
	time.Sleep(50 * time.Millisecond)
	tm.Stop()
	n := tm.Ticks()
	time.Sleep(50 * time.Millisecond)
	if tm.Ticks() != n {
		t.Errorf("ticks moved from %d to %d after Stop", n, tm.Ticks())
	}

	tm.Start()
	defer tm.Stop()
	if n > 1 && tm.Ticks() >= n {
		t.Errorf("Start did not reset the count: %d", tm.Ticks())
	}
}

func TestTimer_NoTickAfterStop(t *testing.T) {
	var tm Timer
	for i := 0; i < 10; i++ {
		tm.Start()
		time.Sleep(25 * time.Millisecond)
		tm.Stop()
		n := tm.Ticks()
		for j := 0; j < 3; j++ {
			time.Sleep(15 * time.Millisecond)
			if tm.Ticks() != n {
				t.Fatalf("round %d: ticks moved from %d to %d after Stop", i, n, tm.Ticks())
			}
		}
	}
}
