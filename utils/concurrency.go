package utils

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between successive outbound calls.
// A zero interval disables it.
type Throttle struct {
	interval time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// NewThrottle creates a Throttle with the given minimum gap in milliseconds.
func NewThrottle(rateLimitMs int) *Throttle {
	return &Throttle{interval: time.Duration(rateLimitMs) * time.Millisecond}
}

// Wait blocks until the next call is allowed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastRequest.IsZero() {
		if wait := t.interval - time.Since(t.lastRequest); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	t.lastRequest = time.Now()
	return nil
}

// LoadingFlag is the caller-side guard that keeps a second request from being
// issued while one is outstanding.
type LoadingFlag struct {
	mu      sync.Mutex
	loading bool
}

// TryStart sets the flag and returns true, or returns false if it was already set.
func (f *LoadingFlag) TryStart() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading {
		return false
	}
	f.loading = true
	return true
}

// Done clears the flag.
func (f *LoadingFlag) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
}

// Loading reports whether a request is outstanding.
func (f *LoadingFlag) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}
