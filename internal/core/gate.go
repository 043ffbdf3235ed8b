package core

// gate.go serializes callers over the service's single database session.
//
// A Handle is one session with flat transaction state, so two callers
// interleaving statements would corrupt each other's transaction. The gate
// admits one holder at a time. Waiters give up after maxWait with ErrBusy,
// or earlier if their own context ends.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when the session stays occupied past the wait limit.
var ErrBusy = errors.New("database session busy, try again later")

// DefaultGateWait is how long Acquire waits when no limit is given.
const DefaultGateWait = 30 * time.Second

// Gate is a one-slot semaphore guarding a session.
type Gate struct {
	slot    chan struct{}
	maxWait time.Duration

	mu      sync.RWMutex
	waiting int
}

// NewGate returns an open gate. maxWait <= 0 means DefaultGateWait.
func NewGate(maxWait time.Duration) *Gate {
	if maxWait <= 0 {
		maxWait = DefaultGateWait
	}
	return &Gate{
		slot:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

// Acquire takes the session. The caller must Release exactly once after a
// nil return.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
		return nil
	default:
	}

	g.mu.Lock()
	g.waiting++
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.waiting--
		g.mu.Unlock()
	}()

	timer := time.NewTimer(g.maxWait)
	defer timer.Stop()

	select {
	case g.slot <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the session only if it is free right now.
func (g *Gate) TryAcquire() bool {
	select {
	case g.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees the session for the next waiter.
func (g *Gate) Release() {
	<-g.slot
}

// Held reports whether someone holds the session.
func (g *Gate) Held() bool {
	return len(g.slot) == 1
}

// Waiting returns the number of callers blocked in Acquire.
func (g *Gate) Waiting() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.waiting
}

// WaitForDrain blocks until the session is free and nobody waits, or ctx
// ends. Used during shutdown before the handle disconnects.
func (g *Gate) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !g.Held() && g.Waiting() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
