// Package engine implements the block puzzle rules: the shape catalog,
// placement legality, line clearing, scoring and the turn coordinator.
// It has no UI dependencies and is deterministic for a given random source.
package engine

import (
	"fmt"
	"strings"
)

// GridSize is the board dimension (the board is GridSize x GridSize).
const GridSize = 8

// Color is a palette token such as "#ff3b30". Empty for unfilled cells.
type Color string

// Position is a grid coordinate or a shape-local offset.
// X increases to the right, Y increases downward.
type Position struct {
	X int
	Y int
}

// P is a convenience constructor for Position.
func P(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns the sum of two positions.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// InBounds reports whether the position lies on the board.
func InBounds(p Position) bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Cell is a single board square.
type Cell struct {
	Filled bool
	Color  Color // Valid only when Filled is true
}

// Grid is the board, row-major, indexed [y][x].
// It is a value type: assigning a Grid copies it.
type Grid [GridSize][GridSize]Cell

// At returns the cell at p. Out-of-bounds positions read as empty.
func (g Grid) At(p Position) Cell {
	if !InBounds(p) {
		return Cell{}
	}
	return g[p.Y][p.X]
}

// FilledCount returns the number of filled cells.
func (g Grid) FilledCount() int {
	n := 0
	for y := range GridSize {
		for x := range GridSize {
			if g[y][x].Filled {
				n++
			}
		}
	}
	return n
}

// IsEmpty reports whether no cell is filled.
func (g Grid) IsEmpty() bool {
	return g.FilledCount() == 0
}

// String renders the grid as rows of '#' (filled) and '.' (empty).
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(GridSize * (GridSize + 1))
	for y := range GridSize {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range GridSize {
			if g[y][x].Filled {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// ParseGrid builds a grid from rows of '#' and '.' characters.
// Missing rows or columns are left empty; filled cells get color c.
func ParseGrid(c Color, rows ...string) Grid {
	var g Grid
	for y, row := range rows {
		if y >= GridSize {
			break
		}
		for x, ch := range row {
			if x >= GridSize {
				break
			}
			if ch == '#' {
				g[y][x] = Cell{Filled: true, Color: c}
			}
		}
	}
	return g
}

// ClearResult describes the lines removed by one placement.
type ClearResult struct {
	Rows         []int // Cleared row indices, ascending
	Cols         []int // Cleared column indices, ascending
	CellsCleared int   // Distinct cells emptied
}

// Lines returns the total number of cleared rows and columns.
func (r ClearResult) Lines() int {
	return len(r.Rows) + len(r.Cols)
}

// CanPlaceShape reports whether every block of shape lands in bounds on an
// empty cell when the shape is anchored at pos.
func CanPlaceShape(grid *Grid, shape Shape, pos Position) bool {
	for _, b := range shape.blocks {
		p := pos.Add(b)
		if !InBounds(p) {
			return false
		}
		if grid[p.Y][p.X].Filled {
			return false
		}
	}
	return true
}

// PlaceShape returns a copy of grid with the shape's cells filled.
// The caller must check CanPlaceShape first; out-of-bounds blocks are skipped.
func PlaceShape(grid Grid, shape Shape, pos Position) Grid {
	for _, b := range shape.blocks {
		p := pos.Add(b)
		if !InBounds(p) {
			continue
		}
		grid[p.Y][p.X] = Cell{Filled: true, Color: shape.color}
	}
	return grid
}

// CheckAndClearLines finds every full row and column, then clears them all.
// Detection happens on the input grid before any clearing, and a cell at the
// intersection of a cleared row and a cleared column is counted once.
func CheckAndClearLines(grid Grid) (Grid, ClearResult) {
	var result ClearResult

	for y := range GridSize {
		full := true
		for x := range GridSize {
			if !grid[y][x].Filled {
				full = false
				break
			}
		}
		if full {
			result.Rows = append(result.Rows, y)
		}
	}

	for x := range GridSize {
		full := true
		for y := range GridSize {
			if !grid[y][x].Filled {
				full = false
				break
			}
		}
		if full {
			result.Cols = append(result.Cols, x)
		}
	}

	if result.Lines() == 0 {
		return grid, result
	}

	var clear [GridSize][GridSize]bool
	for _, y := range result.Rows {
		for x := range GridSize {
			clear[y][x] = true
		}
	}
	for _, x := range result.Cols {
		for y := range GridSize {
			clear[y][x] = true
		}
	}

	for y := range GridSize {
		for x := range GridSize {
			if clear[y][x] && grid[y][x].Filled {
				grid[y][x] = Cell{}
				result.CellsCleared++
			}
		}
	}

	return grid, result
}

// ValidPositions returns every anchor where shape can be placed, row by row.
func ValidPositions(grid *Grid, shape Shape) []Position {
	var out []Position
	for y := range GridSize {
		for x := range GridSize {
			p := P(x, y)
			if CanPlaceShape(grid, shape, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// fitsAnywhere reports whether shape has at least one legal anchor.
func fitsAnywhere(grid *Grid, shape Shape) bool {
	for y := range GridSize {
		for x := range GridSize {
			if CanPlaceShape(grid, shape, P(x, y)) {
				return true
			}
		}
	}
	return false
}

// CheckGameOver reports whether no offered shape fits anywhere.
// With every slot empty a refill is pending, so the game is not over.
func CheckGameOver(grid *Grid, slots []Slot) bool {
	hasShapes := false
	for _, s := range slots {
		if s.IsEmpty() {
			continue
		}
		hasShapes = true
		if fitsAnywhere(grid, s.shape) {
			return false
		}
	}
	return hasShapes
}
