package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoadingFlagSingleOwner(t *testing.T) {
	var f LoadingFlag

	if !f.TryStart() {
		t.Fatal("first TryStart should succeed")
	}
	if f.TryStart() {
		t.Error("second TryStart while loading should fail")
	}
	if !f.Loading() {
		t.Error("Loading should be true after TryStart")
	}

	f.Done()
	if f.Loading() {
		t.Error("Loading should be false after Done")
	}
	if !f.TryStart() {
		t.Error("TryStart after Done should succeed")
	}
}

func TestLoadingFlagConcurrency(t *testing.T) {
	var f LoadingFlag
	var started int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.TryStart() {
				atomic.AddInt64(&started, 1)
			}
		}()
	}
	wg.Wait()

	if started != 1 {
		t.Errorf("expected exactly 1 successful start, got %d", started)
	}
}

func TestThrottleRateLimit(t *testing.T) {
	rateLimitMs := 100
	th := NewThrottle(rateLimitMs)
	ctx := context.Background()

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		if err := th.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		timestamps = append(timestamps, time.Now())
	}

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		// allow for scheduling jitter between Wait returning and time.Now
		floor := time.Duration(rateLimitMs)*time.Millisecond - 5*time.Millisecond
		if gap < floor {
			t.Errorf("gap between call %d and %d: %v < minimum %v", i-1, i, gap, floor)
		}
	}
}

func TestThrottleDisabled(t *testing.T) {
	th := NewThrottle(0)
	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := th.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled throttle took %v", elapsed)
	}
}

func TestThrottleHonoursContext(t *testing.T) {
	th := NewThrottle(10_000)
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := th.Wait(ctx); err == nil {
		t.Error("expected context error while throttled")
	}
}
