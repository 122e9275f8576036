package dashboard

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_OnlyLastTriggerFires(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			fired.Add(1)
			last.Store(n)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last trigger = %d, want 5", got)
	}
}

func TestDebouncer_FiresAfterInterval(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	done := make(chan struct{})
	d.Trigger(func() { close(done) })

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("callback did not fire within the expected interval")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Bool
	d.Trigger(func() { fired.Store(true) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if fired.Load() {
		t.Error("Stop should cancel the pending callback")
	}
}

func TestDebouncer_TriggerAfterStopIsNoop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	d.Stop()

	var fired atomic.Bool
	d.Trigger(func() { fired.Store(true) })

	time.Sleep(50 * time.Millisecond)

	if fired.Load() {
		t.Error("Trigger after Stop should not fire")
	}
}

func TestNewDebouncer_DefaultInterval(t *testing.T) {
	d := NewDebouncer(0)
	defer d.Stop()

	if d.interval != DefaultDebounceInterval {
		t.Errorf("interval = %v, want %v", d.interval, DefaultDebounceInterval)
	}
}
