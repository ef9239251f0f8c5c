package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestUntilImmediate(t *testing.T) {
	calls := 0
	ok := Until(context.Background(), time.Millisecond, func() bool {
		calls++
		return true
	}, nil)
	if !ok || calls != 1 {
		t.Errorf("Until = %v after %d calls, want true after 1", ok, calls)
	}
}

func TestUntilEventually(t *testing.T) {
	var n atomic.Int32
	ok := Until(context.Background(), time.Millisecond, func() bool {
		return n.Add(1) >= 3
	}, func() bool { return true })
	if !ok {
		t.Fatal("Until should succeed")
	}
	if got := n.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestUntilInvalid(t *testing.T) {
	var n atomic.Int32
	ok := Until(context.Background(), time.Millisecond, func() bool {
		n.Add(1)
		return false
	}, func() bool { return n.Load() < 2 })
	if ok {
		t.Error("Until should give up once invalid")
	}
}

func TestUntilContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := Until(ctx, time.Hour, func() bool { return false }, nil)
	if ok {
		t.Error("Until should stop on a canceled context")
	}
}

func TestUntilInvalidFromStart(t *testing.T) {
	called := false
	ok := Until(context.Background(), time.Millisecond, func() bool {
		called = true
		return true
	}, func() bool { return false })
	if ok || called {
		t.Errorf("Until = %v, attempt called = %v; want neither", ok, called)
	}
}
