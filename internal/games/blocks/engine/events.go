package engine

import "time"

//go:generate go tool mockgen -destination=./mocks/listener_mock.go -package=mocks . Listener

// Event is a state-change notification emitted by the Coordinator.
type Event interface {
	blocksEvent()
}

// ScoreChanged carries the new total score.
type ScoreChanged struct {
	Score int
}

func (ScoreChanged) blocksEvent() {}

// ComboChanged carries the new combo streak.
type ComboChanged struct {
	Combo int
}

func (ComboChanged) blocksEvent() {}

// ShapesChanged carries the updated slot list.
// Animate is true when the shapes are newly dealt and false for a quiet replace.
type ShapesChanged struct {
	Slots   []Slot
	Animate bool
}

func (ShapesChanged) blocksEvent() {}

// GameOver is emitted when no offered shape fits on the board.
type GameOver struct{}

func (GameOver) blocksEvent() {}

// PointsEarned is emitted after a clearing placement.
// At is the board position where a popup should be shown.
type PointsEarned struct {
	Points int
	At     Position
}

func (PointsEarned) blocksEvent() {}

// Listener receives events synchronously, in emission order.
// Listeners must not call mutating Coordinator methods from OnEvent.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(e Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Dispatcher fans events out to a list of subscribers.
type Dispatcher struct {
	listeners []Listener
}

// Subscribe adds a listener. Nil listeners are ignored.
func (d *Dispatcher) Subscribe(l Listener) {
	if l == nil {
		return
	}
	d.listeners = append(d.listeners, l)
}

// OnEvent delivers e to every subscriber in subscription order.
func (d *Dispatcher) OnEvent(e Event) {
	for _, l := range d.listeners {
		l.OnEvent(e)
	}
}

// Scheduler runs a callback after a delay on the owner's thread.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// ImmediateScheduler runs callbacks inline, ignoring the delay.
type ImmediateScheduler struct{}

// After calls fn immediately.
func (ImmediateScheduler) After(_ time.Duration, fn func()) {
	fn()
}
