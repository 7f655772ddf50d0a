package services

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPreviewSchedulerFiresOnce(t *testing.T) {
	s := newPreviewScheduler()
	var fired atomic.Int32

	s.Schedule("s1", "u1", 20*time.Millisecond, func() { fired.Add(1) })
	// Re-arming within the window is a no-op and must not reset the clock.
	s.Schedule("s1", "u1", time.Hour, func() { fired.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expirations = %d, want 1", got)
	}
}

func TestPreviewSchedulerResolveWins(t *testing.T) {
	s := newPreviewScheduler()
	var fired atomic.Int32

	s.Schedule("s1", "u1", 30*time.Millisecond, func() { fired.Add(1) })
	if !s.Resolve("s1", "u1") {
		t.Fatal("resolve of an armed window reported false")
	}
	if s.Resolve("s1", "u1") {
		t.Fatal("second resolve reported true")
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("resolved window still expired %d times", got)
	}
}

func TestPreviewSchedulerIndependentKeys(t *testing.T) {
	s := newPreviewScheduler()
	var fired atomic.Int32

	s.Schedule("s1", "u1", 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("s1", "u2", 20*time.Millisecond, func() { fired.Add(1) })
	s.Resolve("s1", "u1")

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expirations = %d, want 1 (only the unresolved viewer)", got)
	}
}
