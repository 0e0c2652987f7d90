package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected a single invocation after burst, got %d", got)
	}
}

func TestDebouncerFlushRunsImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Flush()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected pending call to run on flush, got %d", got)
	}

	// Flush with nothing pending is a no-op.
	d.Flush()
	if got := calls.Load(); got != 1 {
		t.Errorf("expected no extra invocation, got %d", got)
	}
}

func TestDebouncerStopCancels(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected cancelled call to never run, got %d", got)
	}
}
