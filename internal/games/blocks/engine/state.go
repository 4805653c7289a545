package engine

// SlotCount is the number of offered shapes in a normal turn.
const SlotCount = 3

// NoSelection marks that no slot is selected.
const NoSelection = -1

// Slot holds either an offered shape or nothing.
type Slot struct {
	shape    Shape
	occupied bool
}

// Empty returns an empty slot.
func Empty() Slot {
	return Slot{}
}

// Occupied returns a slot holding s.
func Occupied(s Shape) Slot {
	return Slot{shape: s, occupied: true}
}

// IsEmpty reports whether the slot holds no shape.
func (s Slot) IsEmpty() bool {
	return !s.occupied
}

// Shape returns the held shape and whether there is one.
func (s Slot) Shape() (Shape, bool) {
	return s.shape, s.occupied
}

// String returns the shape description or "-" for an empty slot.
func (s Slot) String() string {
	if !s.occupied {
		return "-"
	}
	return s.shape.String()
}

// SlotsFromShapes wraps shapes as occupied slots.
func SlotsFromShapes(shapes []Shape) []Slot {
	slots := make([]Slot, len(shapes))
	for i, sh := range shapes {
		slots[i] = Occupied(sh)
	}
	return slots
}

// allEmpty reports whether every slot is empty (or there are none).
func allEmpty(slots []Slot) bool {
	for _, s := range slots {
		if !s.IsEmpty() {
			return false
		}
	}
	return true
}

// countEmpty returns the number of empty slots.
func countEmpty(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.IsEmpty() {
			n++
		}
	}
	return n
}

// GameState is a read-only snapshot of the coordinator's state.
type GameState struct {
	Score    int
	Combo    int
	GameOver bool
	Grid     Grid
	Slots    []Slot
	// Selected is the selected slot index, or NoSelection.
	Selected int
	// GridBeforeClear is the board right after the last placement and before
	// its lines were cleared. Nil until the first placement.
	GridBeforeClear *Grid
}

// SelectedShape returns the selected shape, if any.
func (s GameState) SelectedShape() (Shape, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Slots) {
		return Shape{}, false
	}
	return s.Slots[s.Selected].Shape()
}

// clone returns a deep copy safe to hand to callers.
func (s GameState) clone() GameState {
	out := s
	out.Slots = append([]Slot(nil), s.Slots...)
	if s.GridBeforeClear != nil {
		g := *s.GridBeforeClear
		out.GridBeforeClear = &g
	}
	return out
}

// newGameState returns an empty board with the given slots.
func newGameState(slots []Slot) GameState {
	return GameState{
		Slots:    slots,
		Selected: NoSelection,
	}
}
