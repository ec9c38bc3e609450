package ticker

import (
	"math"
	"sync/atomic"
	"testing"
	"time"
)

func TestFrameRateDeliversTicks(t *testing.T) {
	f := NewFrameRate()
	defer f.Close()

	ticks := make(chan struct{}, 16)
	owner := new(int)
	f.Register(owner, 200, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
}

func TestFrameRateUnregisterFromCallback(t *testing.T) {
	f := NewFrameRate()
	defer f.Close()

	var calls int32
	done := make(chan struct{})
	owner := new(int)
	f.Register(owner, 200, func() {
		if atomic.AddInt32(&calls, 1) == 2 {
			f.Unregister(owner, 200)
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for unregister")
	}

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestFrameRateSerializesRates(t *testing.T) {
	f := NewFrameRate()
	defer f.Close()

	var inFlight, overlaps, total int32
	cb := func() {
		if atomic.AddInt32(&inFlight, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&total, 1)
		atomic.AddInt32(&inFlight, -1)
	}

	f.Register(new(int), 250, cb)
	f.Register(new(int), 300, cb)
	f.Register(new(int), 400, cb)

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&total) < 30 {
		select {
		case <-deadline:
			t.Fatalf("timed out, only %d ticks", atomic.LoadInt32(&total))
		case <-time.After(10 * time.Millisecond):
		}
	}

	if n := atomic.LoadInt32(&overlaps); n != 0 {
		t.Fatalf("expected no overlapping callbacks, got %d", n)
	}
}

func TestFrameRateCloseIgnoresRegister(t *testing.T) {
	f := NewFrameRate()
	f.Close()

	var called int32
	f.Register(new(int), 200, func() { atomic.AddInt32(&called, 1) })
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&called) != 0 {
		t.Fatalf("closed FrameRate should not tick")
	}
}

func TestFrameRateReplaceDuringTick(t *testing.T) {
	f := NewFrameRate()
	defer f.Close()

	var calls int32
	done := make(chan struct{})
	a, b := new(int), new(int)
	f.Register(a, 200, func() {
		f.Register(b, 200, func() {
			if atomic.AddInt32(&calls, 1) == 2 {
				close(done)
			}
		})
	})
	f.Register(b, 200, func() {})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("a callback replaced every tick should still run, got %d calls", atomic.LoadInt32(&calls))
	}
	f.Unregister(a, 200)
	f.Unregister(b, 200)
}

func TestFrameRateUnusableRates(t *testing.T) {
	f := NewFrameRate()
	defer f.Close()

	ticks := make(chan struct{}, 1)
	owner := new(int)
	f.Register(owner, math.Inf(1), func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a tick at +Inf")
	}
	f.Unregister(owner, math.Inf(1))

	f.Register(owner, math.NaN(), func() {})
	f.Unregister(owner, math.NaN())

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.groups) != 0 {
		t.Fatalf("expected every group stopped, got %d", len(f.groups))
	}
}
