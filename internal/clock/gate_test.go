package clock

import (
	"math"
	"testing"
	"time"
)

func TestGateFirstTickFires(t *testing.T) {
	g := NewGate(10 * time.Second)
	if !g.ShouldTick(0) {
		t.Fatal("ShouldTick(0) = false; want true on first call")
	}
}

func TestGateHoldsWithinInterval(t *testing.T) {
	g := NewGate(10 * time.Second)
	if !g.ShouldTick(0) {
		t.Fatal("ShouldTick(0) = false; want true")
	}
	for _, now := range []uint64{1, 5000, 9999} {
		if g.ShouldTick(now) {
			t.Errorf("ShouldTick(%d) = true; want false within interval", now)
		}
	}
	if !g.ShouldTick(10000) {
		t.Fatal("ShouldTick(10000) = false; want true at interval boundary")
	}
}

func TestGateFalseHasNoSideEffects(t *testing.T) {
	g := NewGate(10 * time.Second)
	if !g.ShouldTick(100) {
		t.Fatal("ShouldTick(100) = false; want true")
	}
	// A rejected check must not push the next firing point forward.
	if g.ShouldTick(9000) {
		t.Fatal("ShouldTick(9000) = true; want false")
	}
	if !g.ShouldTick(10100) {
		t.Fatal("ShouldTick(10100) = false; want true 10s after last accepted tick")
	}
}

func TestGateRefiresEachInterval(t *testing.T) {
	g := NewGate(10 * time.Second)
	fired := 0
	for now := uint64(0); now <= 60000; now += 500 {
		if g.ShouldTick(now) {
			fired++
		}
	}
	if fired != 7 {
		t.Fatalf("fired %d times over 60s at 10s interval; want 7", fired)
	}
}

func TestGateCounterWraparound(t *testing.T) {
	g := NewGate(10 * time.Second)
	start := uint64(math.MaxUint64) - 4000
	if !g.ShouldTick(start) {
		t.Fatal("first tick near wraparound did not fire")
	}
	// 5000 ms later the counter has wrapped past zero.
	if g.ShouldTick(start + 5000) {
		t.Error("fired 5s after last tick across wraparound; want false")
	}
	if !g.ShouldTick(start + 10000) {
		t.Error("did not fire 10s after last tick across wraparound")
	}
}

func TestGateDefaultInterval(t *testing.T) {
	g := NewGate(0)
	if got := g.Interval(); got != 10000 {
		t.Fatalf("Interval() = %d; want 10000 for default", got)
	}
}
