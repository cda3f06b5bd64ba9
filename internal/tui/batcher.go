package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval bounds how often drag motion is allowed to move the ghost.
// Mouse motion arrives far faster than a terminal usefully redraws.
const frameInterval = 30 * time.Millisecond

// FrameFlushMsg fires when a scheduled frame elapses. The generation ties the
// tick to the batcher state that scheduled it; stale ticks are ignored.
type FrameFlushMsg struct {
	Generation int
}

// FrameBatcher coalesces drag motion samples into at most one visual update
// per frame tick. Schedule stores the latest pending values and arms a single
// tick; Flush hands them over; Cancel invalidates anything still in flight
// when a drag session ends or a fresh one begins.
type FrameBatcher struct {
	generation int
	scheduled  bool

	hasPending       bool
	pendingDelta     int
	pendingRemainder int

	lastDelta     int
	lastRemainder int
}

// Schedule records the latest (slotDelta, remainder) pair and returns a tick
// command if no flush is already armed. Repeated calls before the tick fires
// overwrite the pending values without arming another tick.
func (b *FrameBatcher) Schedule(slotDelta, remainder int) tea.Cmd {
	b.pendingDelta = slotDelta
	b.pendingRemainder = remainder
	b.hasPending = true

	if b.scheduled {
		return nil
	}
	b.scheduled = true

	gen := b.generation
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return FrameFlushMsg{Generation: gen}
	})
}

// Flush consumes the pending values for a frame tick. Returns ok=false for
// ticks from a cancelled generation or when nothing is pending.
func (b *FrameBatcher) Flush(msg FrameFlushMsg) (slotDelta, remainder int, ok bool) {
	if msg.Generation != b.generation {
		return 0, 0, false
	}
	b.scheduled = false
	if !b.hasPending {
		return 0, 0, false
	}
	b.hasPending = false
	b.lastDelta = b.pendingDelta
	b.lastRemainder = b.pendingRemainder
	return b.lastDelta, b.lastRemainder, true
}

// Cancel drops any pending flush and invalidates in-flight ticks.
func (b *FrameBatcher) Cancel() {
	b.generation++
	b.scheduled = false
	b.hasPending = false
	b.lastDelta = 0
	b.lastRemainder = 0
}

// LastDelta returns the most recently flushed slot delta.
func (b *FrameBatcher) LastDelta() int { return b.lastDelta }

// LastRemainder returns the most recently flushed sub-slot remainder.
func (b *FrameBatcher) LastRemainder() int { return b.lastRemainder }
