package browser

import (
	"math/rand"
	"time"
)

// Action identifies the kind of interaction a pause precedes.
// Different actions get different pause bounds: a human settles on a page
// for seconds but scrolls within fractions of a second.
type Action int

// Action values.
const (
	// ActionSettle is the pause after a page finishes loading, before any
	// interaction with it.
	ActionSettle Action = iota

	// ActionScroll is the pause between incremental scroll steps.
	ActionScroll

	// ActionMouse is the pause before an idle mouse movement.
	ActionMouse
)

// TimingPolicy produces the pause before an action. The request counter
// lets a policy vary its distribution over the life of a session so the
// run has no fixed timing signature.
//
// Design decision: This is an interface rather than a pair of duration
// fields so tests can inject a deterministic zero-jitter policy and assert
// on crawl behavior without real sleeps. The evasion behavior itself stays
// testable: bounds are part of the contract.
type TimingPolicy interface {
	// Pause returns how long to wait before the given action.
	// request is the session's monotonically increasing request counter.
	Pause(action Action, request int64) time.Duration
}

// Bounds is an inclusive pause window for one action kind.
type Bounds struct {
	Min time.Duration
	Max time.Duration
}

// HumanTiming draws pauses uniformly within per-action bounds, never a
// constant. Every few requests it stretches the settle pause, the way a
// reader occasionally lingers on a page.
type HumanTiming struct {
	// bounds maps each action to its pause window.
	bounds map[Action]Bounds

	// breakEvery stretches the settle pause on every nth request.
	breakEvery int64

	// rng is the pause source. Seeded per session so two sessions never
	// share a timing sequence.
	rng *rand.Rand
}

// defaultBounds are calibrated against the target's tolerance: short
// enough to finish a run, long enough to sit inside human ranges.
func defaultBounds() map[Action]Bounds {
	return map[Action]Bounds{
		ActionSettle: {Min: 2 * time.Second, Max: 4 * time.Second},
		ActionScroll: {Min: 400 * time.Millisecond, Max: 1200 * time.Millisecond},
		ActionMouse:  {Min: 150 * time.Millisecond, Max: 600 * time.Millisecond},
	}
}

// NewHumanTiming creates the default randomized timing policy.
func NewHumanTiming() *HumanTiming {
	return &HumanTiming{
		bounds:     defaultBounds(),
		breakEvery: 7,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // timing jitter, not cryptography
	}
}

// NewHumanTimingWithSource creates a timing policy with a caller-provided
// random source, used by tests that need reproducible sequences.
func NewHumanTimingWithSource(src rand.Source) *HumanTiming {
	return &HumanTiming{
		bounds:     defaultBounds(),
		breakEvery: 7,
		rng:        rand.New(src), //nolint:gosec // timing jitter, not cryptography
	}
}

// Pause returns a uniformly distributed pause within the action's bounds.
func (h *HumanTiming) Pause(action Action, request int64) time.Duration {
	b, ok := h.bounds[action]
	if !ok {
		b = h.bounds[ActionSettle]
	}

	d := b.Min
	if span := b.Max - b.Min; span > 0 {
		d += time.Duration(h.rng.Int63n(int64(span)))
	}

	// Occasional longer settle, keyed off the request counter so the
	// stretch drifts through the run instead of repeating on a clock.
	if action == ActionSettle && h.breakEvery > 0 && request > 0 && request%h.breakEvery == 0 {
		d *= 2
	}

	return d
}

// BoundsFor exposes the configured window for an action, so tests can
// assert that produced pauses stay inside it.
func (h *HumanTiming) BoundsFor(action Action) Bounds {
	return h.bounds[action]
}

// ZeroTiming is a deterministic policy that never pauses.
// Tests inject it to run crawls at full speed.
type ZeroTiming struct{}

// Pause always returns zero.
func (ZeroTiming) Pause(Action, int64) time.Duration { return 0 }
