package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// RefillMode controls when emptied slots get new shapes.
type RefillMode string

const (
	// RefillBatch deals a new set of three only once all slots are used.
	RefillBatch RefillMode = "batch"
	// RefillEager refills each emptied slot right after a placement.
	RefillEager RefillMode = "eager"
)

// ParseRefillMode converts a config string to a RefillMode.
func ParseRefillMode(s string) (RefillMode, bool) {
	switch RefillMode(s) {
	case RefillBatch, "":
		return RefillBatch, true
	case RefillEager:
		return RefillEager, true
	default:
		return RefillBatch, false
	}
}

// Options configures a Coordinator. Zero values get defaults.
type Options struct {
	Generator     *Generator
	Rules         ScoreRules
	Listener      Listener
	Scheduler     Scheduler
	GameOverDelay time.Duration
	Refill        RefillMode
	// CapBonus drops bonus shapes that do not fit in an empty slot instead of
	// appending them as extra slots.
	CapBonus bool
	Logger   *log.Logger
}

// Stats summarizes the current game for persistence.
type Stats struct {
	Placements   int
	LinesCleared int
	MaxCombo     int
	Continues    int
}

// Coordinator owns the game state and sequences each turn.
// It is not safe for concurrent use; a single owner drives it.
type Coordinator struct {
	gen       *Generator
	tracker   *ScoreTracker
	listener  Listener
	scheduler Scheduler
	delay     time.Duration
	refill    RefillMode
	capBonus  bool
	logger    *log.Logger

	state      GameState
	generation uint64 // Bumped when a pending game-over notice becomes stale
	placements int
	continues  int
}

// NewCoordinator creates a coordinator, deals the first three shapes and
// emits the initial score, combo and shapes.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Generator == nil {
		opts.Generator = NewGenerator(nil)
	}
	if opts.Rules == (ScoreRules{}) {
		opts.Rules = DefaultScoreRules()
	}
	if opts.Listener == nil {
		opts.Listener = ListenerFunc(func(Event) {})
	}
	if opts.Scheduler == nil {
		opts.Scheduler = ImmediateScheduler{}
	}
	if opts.Refill == "" {
		opts.Refill = RefillBatch
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	c := &Coordinator{
		gen:       opts.Generator,
		tracker:   NewScoreTracker(opts.Rules),
		listener:  opts.Listener,
		scheduler: opts.Scheduler,
		delay:     opts.GameOverDelay,
		refill:    opts.Refill,
		capBonus:  opts.CapBonus,
		logger:    opts.Logger,
	}
	c.start()
	return c
}

// start deals a fresh board and announces it.
func (c *Coordinator) start() {
	c.generation++
	c.placements = 0
	c.continues = 0
	c.tracker.Reset()
	c.state = newGameState(SlotsFromShapes(c.gen.GenerateRandomShapes(SlotCount)))

	c.emit(ScoreChanged{Score: 0})
	c.emit(ComboChanged{Combo: 0})
	c.emitShapes(true)
}

// State returns a deep copy of the current state.
func (c *Coordinator) State() GameState {
	return c.state.clone()
}

// Stats returns counters for the current game.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Placements:   c.placements,
		LinesCleared: c.tracker.LinesCleared(),
		MaxCombo:     c.tracker.MaxCombo(),
		Continues:    c.continues,
	}
}

// SelectShape selects the shape in slot index.
// An out-of-range index or an empty slot clears the selection.
func (c *Coordinator) SelectShape(index int) {
	if index < 0 || index >= len(c.state.Slots) || c.state.Slots[index].IsEmpty() {
		c.state.Selected = NoSelection
		return
	}
	c.state.Selected = index
}

// Deselect clears the current selection.
func (c *Coordinator) Deselect() {
	c.state.Selected = NoSelection
}

// CanPlaceShape checks shape at pos against the current board.
func (c *Coordinator) CanPlaceShape(shape Shape, pos Position) bool {
	return CanPlaceShape(&c.state.Grid, shape, pos)
}

// PlaceShape places the selected shape with its origin at pos.
// Returns false and leaves the state untouched when nothing is selected or
// the placement is illegal.
func (c *Coordinator) PlaceShape(pos Position) bool {
	shape, ok := c.state.SelectedShape()
	if !ok || !c.CanPlaceShape(shape, pos) {
		return false
	}

	placed := PlaceShape(c.state.Grid, shape, pos)
	beforeClear := placed
	c.state.GridBeforeClear = &beforeClear

	cleared, result := CheckAndClearLines(placed)
	c.state.Grid = cleared
	c.placements++

	points := c.tracker.UpdateScore(result)
	c.state.Score = c.tracker.Score()
	c.state.Combo = c.tracker.Combo()
	c.emit(ScoreChanged{Score: c.state.Score})
	c.emit(ComboChanged{Combo: c.state.Combo})

	if result.CellsCleared > 0 {
		c.logger.Debug("lines cleared",
			"rows", result.Rows,
			"cols", result.Cols,
			"cells", result.CellsCleared,
			"points", points,
		)
		c.emit(PointsEarned{Points: points, At: c.tracker.CalculateCenterPosition(result)})
	}

	c.state.Slots[c.state.Selected] = Empty()
	c.state.Selected = NoSelection

	c.refillSlots()
	c.checkGameOver()

	return true
}

// refillSlots deals new shapes per the refill mode and announces the slots.
func (c *Coordinator) refillSlots() {
	if allEmpty(c.state.Slots) {
		c.state.Slots = SlotsFromShapes(c.gen.GenerateRandomShapes(SlotCount))
		c.emitShapes(true)
		return
	}

	if c.refill == RefillEager {
		c.fillEmpty(c.gen.GenerateRandomShapes(countEmpty(c.state.Slots)))
		c.emitShapes(true)
		return
	}

	c.emitShapes(false)
}

// fillEmpty puts shapes into empty slots in order and returns the leftovers.
func (c *Coordinator) fillEmpty(shapes []Shape) []Shape {
	for i := range c.state.Slots {
		if len(shapes) == 0 {
			break
		}
		if c.state.Slots[i].IsEmpty() {
			c.state.Slots[i] = Occupied(shapes[0])
			shapes = shapes[1:]
		}
	}
	return shapes
}

// checkGameOver sets the game-over flag when nothing fits and schedules the
// notification after the configured delay.
func (c *Coordinator) checkGameOver() {
	if !CheckGameOver(&c.state.Grid, c.state.Slots) {
		return
	}

	c.state.GameOver = true
	c.logger.Debug("game over: no shape fits", "score", c.state.Score)

	generation := c.generation
	c.scheduler.After(c.delay, func() {
		if c.generation != generation || !c.state.GameOver {
			return
		}
		c.emit(GameOver{})
	})
}

// AddBonusShapes adds up to count single-cell shapes, filling empty slots
// first, and clears the game-over flag.
func (c *Coordinator) AddBonusShapes(count int) {
	empty := countEmpty(c.state.Slots)
	occupied := len(c.state.Slots) - empty
	available := max(SlotCount-occupied, 0)

	limit := available + empty
	if c.capBonus {
		limit = min(empty, available)
	}
	toAdd := max(min(count, limit), 0)

	bonus := make([]Shape, 0, toAdd)
	for range toAdd {
		bonus = append(bonus, c.gen.CreateBonusShape())
	}

	leftover := c.fillEmpty(bonus)
	for _, sh := range leftover {
		c.state.Slots = append(c.state.Slots, Occupied(sh))
	}

	if c.state.GameOver {
		c.state.GameOver = false
		c.generation++
		c.continues++
		c.logger.Debug("game continued with bonus shapes", "added", toAdd)
	}

	c.emitShapes(true)
}

// ContinueWithBonus empties every slot and then adds count bonus shapes.
// A game over with a full tray of unplayable shapes leaves AddBonusShapes no
// room, so front ends continue through this instead.
func (c *Coordinator) ContinueWithBonus(count int) {
	for i := range c.state.Slots {
		c.state.Slots[i] = Empty()
	}
	c.state.Slots = c.state.Slots[:min(len(c.state.Slots), SlotCount)]
	c.state.Selected = NoSelection
	c.AddBonusShapes(count)
}

// ResetGame starts a new game from an empty board.
func (c *Coordinator) ResetGame() {
	c.start()
}

func (c *Coordinator) emitShapes(animate bool) {
	c.emit(ShapesChanged{
		Slots:   append([]Slot(nil), c.state.Slots...),
		Animate: animate,
	})
}

func (c *Coordinator) emit(e Event) {
	c.listener.OnEvent(e)
}
