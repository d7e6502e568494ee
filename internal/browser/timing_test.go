package browser

import (
	"math/rand"
	"testing"
	"time"
)

func TestHumanTimingPauseWithinBounds(t *testing.T) {
	t.Parallel()

	h := NewHumanTimingWithSource(rand.NewSource(1))

	actions := []Action{ActionSettle, ActionScroll, ActionMouse}
	for _, action := range actions {
		b := h.BoundsFor(action)
		for req := int64(1); req <= 50; req++ {
			d := h.Pause(action, req)

			max := b.Max
			if action == ActionSettle && req%7 == 0 {
				max = 2 * b.Max
			}
			if d < b.Min || d > max {
				t.Errorf("Pause(%d, %d) = %v, want within [%v, %v]", action, req, d, b.Min, max)
			}
		}
	}
}

func TestHumanTimingStretchesSettleOnBreak(t *testing.T) {
	t.Parallel()

	h := NewHumanTimingWithSource(rand.NewSource(1))
	b := h.BoundsFor(ActionSettle)

	d := h.Pause(ActionSettle, 7)
	if d < 2*b.Min {
		t.Errorf("Pause(ActionSettle, 7) = %v, want at least %v", d, 2*b.Min)
	}
}

func TestHumanTimingVaries(t *testing.T) {
	t.Parallel()

	h := NewHumanTimingWithSource(rand.NewSource(1))

	seen := make(map[time.Duration]bool)
	for req := int64(1); req <= 20; req++ {
		seen[h.Pause(ActionScroll, req)] = true
	}
	if len(seen) < 2 {
		t.Error("Pause produced a constant sequence, want jitter")
	}
}

func TestHumanTimingUnknownActionFallsBackToSettle(t *testing.T) {
	t.Parallel()

	h := NewHumanTimingWithSource(rand.NewSource(1))
	b := h.BoundsFor(ActionSettle)

	d := h.Pause(Action(99), 1)
	if d < b.Min || d > b.Max {
		t.Errorf("Pause(unknown, 1) = %v, want within settle bounds [%v, %v]", d, b.Min, b.Max)
	}
}

func TestZeroTiming(t *testing.T) {
	t.Parallel()

	var z ZeroTiming
	for req := int64(0); req < 10; req++ {
		if d := z.Pause(ActionSettle, req); d != 0 {
			t.Errorf("ZeroTiming.Pause(ActionSettle, %d) = %v, want 0", req, d)
		}
	}
}
