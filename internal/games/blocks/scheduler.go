package blocks

import (
	"math"
	"time"
)

type timer struct {
	due uint64
	fn  func()
}

// tickScheduler runs engine callbacks from Game.Step once enough ticks pass,
// so every state change happens on the thread that drives the game.
type tickScheduler struct {
	tickRate int
	now      uint64
	pending  []timer
}

func newTickScheduler(tickRate int) *tickScheduler {
	return &tickScheduler{tickRate: max(tickRate, 1)}
}

// After queues fn to run d from now, rounded up to whole ticks.
func (s *tickScheduler) After(d time.Duration, fn func()) {
	ticks := uint64(math.Ceil(d.Seconds() * float64(s.tickRate)))
	s.pending = append(s.pending, timer{due: s.now + ticks, fn: fn})
}

// advance moves the clock to tick and runs every timer that is due.
// Callbacks scheduled while running wait for a later advance.
func (s *tickScheduler) advance(tick uint64) {
	s.now = tick

	var due []timer
	kept := s.pending[:0]
	for _, t := range s.pending {
		if t.due <= tick {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	s.pending = kept

	for _, t := range due {
		t.fn()
	}
}

// pendingCount returns the number of queued timers.
func (s *tickScheduler) pendingCount() int {
	return len(s.pending)
}
