package engine

import (
	"reflect"
	"testing"
)

const testColor Color = "#ff3b30"

func TestCanPlaceShapeBounds(t *testing.T) {
	var g Grid
	line3 := NewShape(ShapeLine3, Rotate0, testColor)

	tests := []struct {
		name     string
		pos      Position
		expected bool
	}{
		{"top-left", P(0, 0), true},
		{"flush right", P(5, 0), true},
		{"one past right", P(6, 0), false},
		{"bottom row", P(0, 7), true},
		{"below board", P(0, 8), false},
		{"negative x", P(-1, 0), false},
		{"negative y", P(0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPlaceShape(&g, line3, tt.pos); got != tt.expected {
				t.Errorf("CanPlaceShape(%v) = %v, want %v", tt.pos, got, tt.expected)
			}
		})
	}
}

func TestCanPlaceShapeNeverClipsAnywhere(t *testing.T) {
	var g Grid
	for _, typ := range AllShapeTypes() {
		for _, r := range rotations {
			s := NewShape(typ, r, testColor)
			w, h := s.Size()
			for y := -3; y < GridSize+3; y++ {
				for x := -3; x < GridSize+3; x++ {
					inside := x >= 0 && y >= 0 && x+w <= GridSize && y+h <= GridSize
					if got := CanPlaceShape(&g, s, P(x, y)); got != inside {
						t.Fatalf("%s at (%d,%d): CanPlaceShape = %v, want %v", s, x, y, got, inside)
					}
				}
			}
		}
	}
}

func TestCanPlaceShapeOccupied(t *testing.T) {
	g := ParseGrid(testColor,
		"........",
		".#......",
	)
	square := NewShape(ShapeSquare, Rotate0, testColor)

	if CanPlaceShape(&g, square, P(0, 0)) {
		t.Error("square overlapping (1,1) should not fit at (0,0)")
	}
	if !CanPlaceShape(&g, square, P(2, 0)) {
		t.Error("square should fit at (2,0)")
	}
}

func TestPlaceShapeThenCannotPlaceAgain(t *testing.T) {
	for _, typ := range AllShapeTypes() {
		var g Grid
		s := NewShape(typ, Rotate90, testColor)
		pos := P(2, 3)

		if !CanPlaceShape(&g, s, pos) {
			t.Fatalf("%s should fit on an empty board", s)
		}
		placed := PlaceShape(g, s, pos)
		if CanPlaceShape(&placed, s, pos) {
			t.Errorf("%s fits again at the same position after placement", s)
		}
		if !g.IsEmpty() {
			t.Error("PlaceShape should not modify its input grid")
		}
	}
}

func TestPlaceShapeFillsExactCells(t *testing.T) {
	var g Grid
	s := NewShape(ShapeT, Rotate0, testColor)
	placed := PlaceShape(g, s, P(4, 6))

	want := map[Position]bool{P(4, 6): true, P(5, 6): true, P(6, 6): true, P(5, 7): true}
	for y := range GridSize {
		for x := range GridSize {
			cell := placed[y][x]
			if cell.Filled != want[P(x, y)] {
				t.Errorf("cell (%d,%d) filled = %v, want %v", x, y, cell.Filled, want[P(x, y)])
			}
			if cell.Filled && cell.Color != testColor {
				t.Errorf("cell (%d,%d) color = %q, want %q", x, y, cell.Color, testColor)
			}
		}
	}
}

func TestEmptyShapeFitsEverywhere(t *testing.T) {
	g := ParseGrid(testColor, "########")
	empty := NewCustomShape(nil, testColor)

	if !CanPlaceShape(&g, empty, P(0, 0)) {
		t.Error("a shape with no blocks should fit vacuously")
	}
}

func TestCheckAndClearLines(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		want  ClearResult
		after []string
	}{
		{
			name: "nothing full",
			rows: []string{
				"#######.",
				"#.......",
			},
			want: ClearResult{},
			after: []string{
				"#######.",
				"#.......",
			},
		},
		{
			name: "single row",
			rows: []string{
				"........",
				"........",
				"########",
				"#.......",
			},
			want: ClearResult{Rows: []int{2}, CellsCleared: 8},
			after: []string{
				"........",
				"........",
				"........",
				"#.......",
			},
		},
		{
			name: "row and column sharing a cell",
			rows: []string{
				"...#....",
				"...#....",
				"...#....",
				"...#....",
				"########",
				"...#....",
				"...#....",
				"...#....",
			},
			want: ClearResult{Rows: []int{4}, Cols: []int{3}, CellsCleared: 2*GridSize - 1},
		},
		{
			name: "two rows and two columns",
			rows: []string{
				"########",
				"########",
				"##......",
				"##......",
				"##......",
				"##......",
				"##......",
				"##......",
			},
			want: ClearResult{Rows: []int{0, 1}, Cols: []int{0, 1}, CellsCleared: 28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ParseGrid(testColor, tt.rows...)
			got, result := CheckAndClearLines(g)

			if !reflect.DeepEqual(result.Rows, tt.want.Rows) {
				t.Errorf("Rows = %v, want %v", result.Rows, tt.want.Rows)
			}
			if !reflect.DeepEqual(result.Cols, tt.want.Cols) {
				t.Errorf("Cols = %v, want %v", result.Cols, tt.want.Cols)
			}
			if result.CellsCleared != tt.want.CellsCleared {
				t.Errorf("CellsCleared = %d, want %d", result.CellsCleared, tt.want.CellsCleared)
			}

			after := ParseGrid(testColor, tt.after...)
			if got != after {
				t.Errorf("grid after clear:\n%s\nwant:\n%s", got, after)
			}
		})
	}
}

func TestCheckAndClearFullBoard(t *testing.T) {
	var g Grid
	for y := range GridSize {
		for x := range GridSize {
			g[y][x] = Cell{Filled: true, Color: testColor}
		}
	}

	cleared, result := CheckAndClearLines(g)
	if result.CellsCleared != GridSize*GridSize {
		t.Errorf("CellsCleared = %d, want %d", result.CellsCleared, GridSize*GridSize)
	}
	if len(result.Rows) != GridSize || len(result.Cols) != GridSize {
		t.Errorf("expected all rows and cols, got %d rows %d cols", len(result.Rows), len(result.Cols))
	}
	if !cleared.IsEmpty() {
		t.Error("board should be empty after clearing everything")
	}
}

func TestCheckGameOver(t *testing.T) {
	oneHole := ParseGrid(testColor,
		"########",
		"########",
		"########",
		"####.###",
		"########",
		"########",
		"########",
		"########",
	)

	line2 := Occupied(NewShape(ShapeLine2, Rotate0, testColor))
	single := Occupied(NewShape(ShapeSingle, Rotate0, testColor))

	tests := []struct {
		name     string
		grid     Grid
		slots    []Slot
		expected bool
	}{
		{"line2 cannot fit one hole", oneHole, []Slot{line2, Empty(), Empty()}, true},
		{"single fits one hole", oneHole, []Slot{single, Empty(), Empty()}, false},
		{"any fitting shape prevents game over", oneHole, []Slot{line2, single, line2}, false},
		{"all slots empty is never game over", oneHole, []Slot{Empty(), Empty(), Empty()}, false},
		{"empty board", Grid{}, []Slot{line2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckGameOver(&tt.grid, tt.slots); got != tt.expected {
				t.Errorf("CheckGameOver() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidPositions(t *testing.T) {
	var g Grid
	cross := NewShape(ShapeCross, Rotate0, testColor)
	if got := len(ValidPositions(&g, cross)); got != 36 {
		t.Errorf("cross has %d anchors on an empty board, want 36", got)
	}

	g = ParseGrid(testColor,
		"#######.",
		"########",
		"########",
		"########",
		"########",
		"########",
		"########",
		"########",
	)
	got := ValidPositions(&g, NewShape(ShapeSingle, Rotate0, testColor))
	if !reflect.DeepEqual(got, []Position{P(7, 0)}) {
		t.Errorf("ValidPositions = %v, want [(7,0)]", got)
	}
}

func TestGridString(t *testing.T) {
	g := ParseGrid(testColor, "#......#")
	want := "#......#\n" +
		"........\n........\n........\n........\n........\n........\n........"
	if g.String() != want {
		t.Errorf("String() = %q, want %q", g.String(), want)
	}
}

func TestGridReadersOnReturnedValues(t *testing.T) {
	if n := ParseGrid(testColor, "##......").FilledCount(); n != 2 {
		t.Errorf("FilledCount = %d, want 2", n)
	}

	c, _ := newTestCoordinator(Options{})
	c.state.Slots = slotsOf(single(), single(), single())
	c.SelectShape(0)
	if !c.State().Grid.IsEmpty() {
		t.Fatal("new game should start on an empty board")
	}
	if !c.PlaceShape(P(2, 5)) {
		t.Fatal("PlaceShape should succeed on an empty board")
	}
	if !c.State().Grid.At(P(2, 5)).Filled || c.State().Grid.FilledCount() != 1 {
		t.Errorf("grid after placement:\n%s", c.State().Grid)
	}
}
