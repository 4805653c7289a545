package engine

import (
	"math/rand"
	"testing"
	"time"
)

// recorder collects emitted events.
type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) reset() {
	r.events = nil
}

// manualScheduler holds callbacks until run is called.
type manualScheduler struct {
	pending []func()
	delays  []time.Duration
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, fn)
}

func (s *manualScheduler) run() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func newTestCoordinator(opts Options) (*Coordinator, *recorder) {
	rec := &recorder{}
	if opts.Listener == nil {
		opts.Listener = rec
	}
	if opts.Generator == nil {
		opts.Generator = NewGenerator(rand.New(rand.NewSource(99)))
	}
	return NewCoordinator(opts), rec
}

func single() Shape {
	return NewShape(ShapeSingle, Rotate0, testColor)
}

func slotsOf(shapes ...Shape) []Slot {
	return SlotsFromShapes(shapes)
}

func TestNewCoordinatorInitialState(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	st := c.State()

	if st.Score != 0 || st.Combo != 0 || st.GameOver {
		t.Errorf("initial state = score %d combo %d over %v", st.Score, st.Combo, st.GameOver)
	}
	if !st.Grid.IsEmpty() {
		t.Error("initial grid should be empty")
	}
	if len(st.Slots) != SlotCount {
		t.Fatalf("slots = %d, want %d", len(st.Slots), SlotCount)
	}
	for i, s := range st.Slots {
		if s.IsEmpty() {
			t.Errorf("slot %d is empty", i)
		}
	}
	if st.Selected != NoSelection {
		t.Errorf("selected = %d, want none", st.Selected)
	}

	if len(rec.events) != 3 {
		t.Fatalf("initial events = %d, want 3", len(rec.events))
	}
	if e, ok := rec.events[0].(ScoreChanged); !ok || e.Score != 0 {
		t.Errorf("event 0 = %#v, want ScoreChanged{0}", rec.events[0])
	}
	if e, ok := rec.events[1].(ComboChanged); !ok || e.Combo != 0 {
		t.Errorf("event 1 = %#v, want ComboChanged{0}", rec.events[1])
	}
	if e, ok := rec.events[2].(ShapesChanged); !ok || !e.Animate || len(e.Slots) != SlotCount {
		t.Errorf("event 2 = %#v, want animated ShapesChanged", rec.events[2])
	}
}

func TestResetGame(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	c.state.Grid = ParseGrid(testColor, "###.....", "#.......")
	c.state.Score = 500
	c.state.Combo = 3
	c.state.GameOver = true
	c.state.Slots = slotsOf(single())
	c.state.Selected = 0
	rec.reset()

	c.ResetGame()
	st := c.State()

	if st.Score != 0 || st.Combo != 0 || st.GameOver {
		t.Errorf("after reset: score %d combo %d over %v", st.Score, st.Combo, st.GameOver)
	}
	if !st.Grid.IsEmpty() {
		t.Error("grid should be empty after reset")
	}
	if len(st.Slots) != SlotCount || countEmpty(st.Slots) != 0 {
		t.Errorf("slots after reset = %v", st.Slots)
	}
	if st.Selected != NoSelection {
		t.Error("selection should be cleared by reset")
	}
	if st.GridBeforeClear != nil {
		t.Error("pre-clear snapshot should be cleared by reset")
	}
	if len(rec.events) != 3 {
		t.Errorf("reset events = %d, want 3", len(rec.events))
	}
}

func TestSelectShape(t *testing.T) {
	c, _ := newTestCoordinator(Options{})
	c.state.Slots = []Slot{Occupied(single()), Empty(), Occupied(single())}

	tests := []struct {
		index    int
		expected int
	}{
		{0, 0},
		{2, 2},
		{1, NoSelection},
		{-1, NoSelection},
		{3, NoSelection},
	}

	for _, tt := range tests {
		c.SelectShape(2)
		c.SelectShape(tt.index)
		if got := c.State().Selected; got != tt.expected {
			t.Errorf("SelectShape(%d): selected = %d, want %d", tt.index, got, tt.expected)
		}
	}

	c.SelectShape(0)
	c.Deselect()
	if c.State().Selected != NoSelection {
		t.Error("Deselect should clear the selection")
	}
}

func TestPlaceShapeWithoutSelection(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	rec.reset()
	before := c.State()

	if c.PlaceShape(P(0, 0)) {
		t.Error("PlaceShape without selection should fail")
	}
	if len(rec.events) != 0 {
		t.Errorf("failed placement emitted %d events", len(rec.events))
	}
	if c.State().Grid != before.Grid {
		t.Error("grid changed after a failed placement")
	}
}

func TestPlaceShapeIllegal(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	c.state.Grid = ParseGrid(testColor, "#.......")
	c.state.Slots = slotsOf(single(), single(), single())
	c.state.Combo = 2
	c.tracker.combo = 2
	c.SelectShape(1)
	rec.reset()

	for _, pos := range []Position{P(0, 0), P(8, 0), P(0, -1)} {
		if c.PlaceShape(pos) {
			t.Errorf("PlaceShape(%v) should fail", pos)
		}
	}

	st := c.State()
	if st.Selected != 1 {
		t.Errorf("selection = %d, want it kept at 1", st.Selected)
	}
	if st.Combo != 2 {
		t.Errorf("combo = %d, rejected placements must not touch it", st.Combo)
	}
	if len(rec.events) != 0 {
		t.Errorf("rejected placements emitted %d events", len(rec.events))
	}
}

func TestPlaceShapeNoClear(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	line := NewShape(ShapeLine2, Rotate0, testColor)
	c.state.Slots = slotsOf(line, single(), single())
	c.state.Combo = 1
	c.tracker.combo = 1
	c.SelectShape(0)
	rec.reset()

	if !c.PlaceShape(P(3, 3)) {
		t.Fatal("PlaceShape should succeed on an empty board")
	}

	st := c.State()
	if !st.Grid.At(P(3, 3)).Filled || !st.Grid.At(P(4, 3)).Filled || st.Grid.FilledCount() != 2 {
		t.Errorf("unexpected grid after placement:\n%s", st.Grid)
	}
	if st.Combo != 0 {
		t.Errorf("combo = %d, want 0 after a non-clearing placement", st.Combo)
	}
	if !st.Slots[0].IsEmpty() || st.Slots[1].IsEmpty() || st.Slots[2].IsEmpty() {
		t.Errorf("slots = %v, want only slot 0 empty", st.Slots)
	}
	if st.Selected != NoSelection {
		t.Error("selection should be cleared after placement")
	}
	if st.GridBeforeClear == nil || *st.GridBeforeClear != st.Grid {
		t.Error("pre-clear snapshot should equal the grid when nothing cleared")
	}

	want := []string{"score", "combo", "shapes"}
	if got := eventKinds(rec.events); !equalStrings(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if e := rec.events[2].(ShapesChanged); e.Animate {
		t.Error("partial slot update should not animate")
	}
}

func TestPlaceShapeClearsRow(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	c.state.Grid = ParseGrid(testColor, "#######.")
	c.state.Slots = slotsOf(single(), single(), single())
	c.SelectShape(2)
	rec.reset()

	if !c.PlaceShape(P(7, 0)) {
		t.Fatal("PlaceShape should succeed")
	}

	st := c.State()
	if !st.Grid.IsEmpty() {
		t.Errorf("row 0 should be cleared:\n%s", st.Grid)
	}
	if st.GridBeforeClear == nil || st.GridBeforeClear.FilledCount() != GridSize {
		t.Error("pre-clear snapshot should hold the full row")
	}
	if st.Score != 80 || st.Combo != 1 {
		t.Errorf("score = %d combo = %d, want 80 and 1", st.Score, st.Combo)
	}

	want := []string{"score", "combo", "points", "shapes"}
	if got := eventKinds(rec.events); !equalStrings(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	pe := rec.events[2].(PointsEarned)
	if pe.Points != 80 || pe.At != P(4, 0) {
		t.Errorf("points earned = %+v, want 80 at (4,0)", pe)
	}

	stats := c.Stats()
	if stats.Placements != 1 || stats.LinesCleared != 1 || stats.MaxCombo != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRefillBatchDealsWhenAllUsed(t *testing.T) {
	c, rec := newTestCoordinator(Options{})
	c.state.Slots = []Slot{Empty(), Empty(), Occupied(single())}
	c.SelectShape(2)
	rec.reset()

	c.PlaceShape(P(0, 0))

	st := c.State()
	if len(st.Slots) != SlotCount || countEmpty(st.Slots) != 0 {
		t.Errorf("slots = %v, want a fresh batch of 3", st.Slots)
	}
	last := rec.events[len(rec.events)-1].(ShapesChanged)
	if !last.Animate {
		t.Error("a fresh batch should animate")
	}
}

func TestRefillEagerFillsEachEmptySlot(t *testing.T) {
	c, rec := newTestCoordinator(Options{Refill: RefillEager})
	c.state.Slots = slotsOf(single(), single(), single())
	c.SelectShape(1)
	rec.reset()

	c.PlaceShape(P(0, 0))

	st := c.State()
	if countEmpty(st.Slots) != 0 {
		t.Errorf("eager refill left empty slots: %v", st.Slots)
	}
	if _, ok := st.Slots[0].Shape(); !ok {
		t.Error("slot 0 should keep its shape")
	}
	last := rec.events[len(rec.events)-1].(ShapesChanged)
	if !last.Animate {
		t.Error("eager refill should animate")
	}
}

func TestGameOverFollowsShapesChanged(t *testing.T) {
	sched := &manualScheduler{}
	c, rec := newTestCoordinator(Options{
		Scheduler:     sched,
		GameOverDelay: 500 * time.Millisecond,
	})

	// A checkerboard has no room for a cross.
	rows := make([]string, GridSize)
	for y := range GridSize {
		if y%2 == 0 {
			rows[y] = "#.#.#.#."
		} else {
			rows[y] = ".#.#.#.#"
		}
	}
	c.state.Grid = ParseGrid(testColor, rows...)
	cross := NewShape(ShapeCross, Rotate0, testColor)
	c.state.Slots = slotsOf(single(), cross, cross)
	c.SelectShape(0)
	rec.reset()

	if !c.PlaceShape(P(1, 0)) {
		t.Fatal("PlaceShape should succeed")
	}
	if !c.State().GameOver {
		t.Fatal("game over flag should be set immediately")
	}
	for _, e := range rec.events {
		if _, ok := e.(GameOver); ok {
			t.Fatal("game over must not be emitted before the delay elapses")
		}
	}
	if len(sched.delays) != 1 || sched.delays[0] != 500*time.Millisecond {
		t.Errorf("scheduled delays = %v, want [500ms]", sched.delays)
	}

	sched.run()
	last := rec.events[len(rec.events)-1]
	if _, ok := last.(GameOver); !ok {
		t.Errorf("last event = %#v, want GameOver", last)
	}
	kinds := eventKinds(rec.events)
	if kinds[len(kinds)-2] != "shapes" {
		t.Errorf("events = %v, game over should follow the shapes update", kinds)
	}
}

func TestStaleGameOverIsDropped(t *testing.T) {
	sched := &manualScheduler{}
	c, rec := newTestCoordinator(Options{Scheduler: sched})

	c.state.Grid = ParseGrid(testColor, "########", "########", "########", "########",
		"########", "########", "########", "#######.")
	c.state.Slots = slotsOf(NewShape(ShapeLine2, Rotate0, testColor))
	c.checkGameOver()
	if len(sched.pending) != 1 {
		t.Fatalf("pending callbacks = %d, want 1", len(sched.pending))
	}

	c.ResetGame()
	rec.reset()
	sched.run()

	for _, e := range rec.events {
		if _, ok := e.(GameOver); ok {
			t.Error("game over from a previous game should not be delivered")
		}
	}
}

func TestAddBonusShapes(t *testing.T) {
	s := Occupied(single())
	e := Empty()

	tests := []struct {
		name      string
		slots     []Slot
		count     int
		capBonus  bool
		wantLen   int
		wantEmpty int
	}{
		{"fills empty slots", []Slot{s, e, e}, 2, false, 3, 0},
		{"overflow appends past three", []Slot{s, e, e}, 3, false, 4, 0},
		{"capped stays at three", []Slot{s, e, e}, 3, true, 3, 0},
		{"full slots still gets no extras", []Slot{s, s, s}, 3, false, 3, 0},
		{"all empty overflow", []Slot{e, e, e}, 5, false, 5, 0},
		{"all empty capped", []Slot{e, e, e}, 5, true, 3, 0},
		{"zero count", []Slot{s, e, e}, 0, false, 3, 2},
		{"negative count", []Slot{s, e, e}, -2, false, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestCoordinator(Options{CapBonus: tt.capBonus})
			c.state.Slots = append([]Slot(nil), tt.slots...)
			rec.reset()

			c.AddBonusShapes(tt.count)
			st := c.State()

			if len(st.Slots) != tt.wantLen {
				t.Errorf("slots = %d, want %d", len(st.Slots), tt.wantLen)
			}
			if got := countEmpty(st.Slots); got != tt.wantEmpty {
				t.Errorf("empty slots = %d, want %d", got, tt.wantEmpty)
			}
			if len(rec.events) != 1 {
				t.Fatalf("events = %d, want 1", len(rec.events))
			}
			if sc, ok := rec.events[0].(ShapesChanged); !ok || !sc.Animate {
				t.Errorf("event = %#v, want animated ShapesChanged", rec.events[0])
			}
		})
	}
}

func TestAddBonusShapesContinuesGame(t *testing.T) {
	sched := &manualScheduler{}
	c, rec := newTestCoordinator(Options{Scheduler: sched})

	c.state.Grid = ParseGrid(testColor, "########", "########", "########", "########",
		"########", "########", "########", "#######.")
	c.state.Slots = slotsOf(NewShape(ShapeLine2, Rotate0, testColor), NewShape(ShapeLine2, Rotate0, testColor))
	c.state.Slots = append(c.state.Slots, Empty())
	c.checkGameOver()
	if !c.State().GameOver {
		t.Fatal("expected game over")
	}

	c.AddBonusShapes(1)
	st := c.State()
	if st.GameOver {
		t.Error("bonus shapes should clear the game over flag")
	}
	if sh, ok := st.Slots[2].Shape(); !ok || sh.Type() != ShapeSingle {
		t.Errorf("slot 2 = %v, want a bonus SINGLE", st.Slots[2])
	}
	if c.Stats().Continues != 1 {
		t.Errorf("continues = %d, want 1", c.Stats().Continues)
	}

	rec.reset()
	sched.run()
	if len(rec.events) != 0 {
		t.Errorf("stale game over delivered after continue: %v", eventKinds(rec.events))
	}

	c.SelectShape(2)
	if !c.PlaceShape(P(7, 7)) {
		t.Error("bonus single should fit the last hole")
	}
}

func TestContinueWithBonusReplacesStuckTray(t *testing.T) {
	sched := &manualScheduler{}
	c, rec := newTestCoordinator(Options{Scheduler: sched})

	line := NewShape(ShapeLine2, Rotate0, testColor)
	c.state.Grid = ParseGrid(testColor, "########", "########", "########", "########",
		"########", "########", "########", "#######.")
	c.state.Slots = slotsOf(line, line, line)
	c.state.Selected = 1
	c.checkGameOver()
	if !c.State().GameOver {
		t.Fatal("expected game over")
	}
	rec.reset()

	c.ContinueWithBonus(3)
	st := c.State()

	if st.GameOver {
		t.Error("continue should clear the game over flag")
	}
	if st.Selected != NoSelection {
		t.Errorf("selected = %d, want none", st.Selected)
	}
	if len(st.Slots) != SlotCount {
		t.Fatalf("slots = %d, want %d", len(st.Slots), SlotCount)
	}
	for i, slot := range st.Slots {
		if sh, ok := slot.Shape(); !ok || sh.Type() != ShapeSingle {
			t.Errorf("slot %d = %v, want a bonus SINGLE", i, slot)
		}
	}
	if got := eventKinds(rec.events); !equalStrings(got, []string{"shapes"}) {
		t.Errorf("events = %v, want [shapes]", got)
	}
	if c.Stats().Continues != 1 {
		t.Errorf("continues = %d, want 1", c.Stats().Continues)
	}
}

func TestPlaceAfterBonusOverflowCollapsesToBatch(t *testing.T) {
	c, _ := newTestCoordinator(Options{})
	c.state.Slots = []Slot{Empty(), Empty(), Empty(), Occupied(single())}

	c.SelectShape(3)
	c.PlaceShape(P(0, 0))

	if got := len(c.State().Slots); got != SlotCount {
		t.Errorf("slots = %d, want a fresh batch of %d", got, SlotCount)
	}
}

func TestStateIsACopy(t *testing.T) {
	c, _ := newTestCoordinator(Options{})
	st := c.State()
	st.Slots[0] = Empty()
	st.Grid[0][0] = Cell{Filled: true}

	fresh := c.State()
	if fresh.Slots[0].IsEmpty() || fresh.Grid[0][0].Filled {
		t.Error("mutating a returned state should not affect the coordinator")
	}
}

func eventKinds(events []Event) []string {
	kinds := make([]string, 0, len(events))
	for _, e := range events {
		switch e.(type) {
		case ScoreChanged:
			kinds = append(kinds, "score")
		case ComboChanged:
			kinds = append(kinds, "combo")
		case ShapesChanged:
			kinds = append(kinds, "shapes")
		case PointsEarned:
			kinds = append(kinds, "points")
		case GameOver:
			kinds = append(kinds, "gameover")
		}
	}
	return kinds
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
