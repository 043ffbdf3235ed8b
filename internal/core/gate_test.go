package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGate_AcquireRelease(t *testing.T) {
	g := NewGate(time.Second)
	ctx := context.Background()

	if g.Held() {
		t.Fatal("new gate is held")
	}
	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !g.Held() {
		t.Error("Held = false after Acquire")
	}
	if g.TryAcquire() {
		t.Error("TryAcquire succeeded on a held gate")
	}

	g.Release()
	if g.Held() {
		t.Error("Held = true after Release")
	}
	if !g.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	g.Release()
}

func TestGate_TimesOut(t *testing.T) {
	g := NewGate(100 * time.Millisecond)
	ctx := context.Background()

	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer g.Release()

	start := time.Now()
	err := g.Acquire(ctx)
	elapsed := time.Since(start)

	if err != ErrBusy {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timeout too fast: %v", elapsed)
	}
	if got := MapError(err).Code; got != "DB008" {
		t.Errorf("MapError code = %s, want DB008", got)
	}
}

func TestGate_ContextCancellation(t *testing.T) {
	g := NewGate(5 * time.Second)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer g.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- g.Acquire(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if got := g.Waiting(); got != 1 {
		t.Errorf("Waiting = %d, want 1", got)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Acquire did not return after context cancellation")
	}
}

func TestGate_OneHolderAtATime(t *testing.T) {
	g := NewGate(5 * time.Second)

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		maxSeen atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer g.Release()

			n := holders.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			holders.Add(-1)
		}()
	}
	wg.Wait()

	if got := maxSeen.Load(); got != 1 {
		t.Errorf("observed %d concurrent holders, want 1", got)
	}
}

func TestGate_WaitForDrain(t *testing.T) {
	g := NewGate(time.Second)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- g.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForDrain did not complete after release")
	}

	g2 := NewGate(time.Second)
	_ = g2.Acquire(context.Background())
	defer g2.Release()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := g2.WaitForDrain(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestGate_DefaultWait(t *testing.T) {
	if g := NewGate(0); g.maxWait != DefaultGateWait {
		t.Errorf("maxWait = %v, want %v", g.maxWait, DefaultGateWait)
	}
}
