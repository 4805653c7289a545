package blocks

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

const (
	hudHeight   = 2
	trayHeight  = 5 // Largest shape is 3x3, plus borders
	maxShapeDim = 3
)

// layout holds screen positions computed once per frame.
type layout struct {
	cellW   int
	board   core.Rect // Including border
	trayY   int
	statusY int
}

func (g *Game) layout() layout {
	cw := core.Clamp(g.cfg.Presentation.CellWidth, 1, 4)
	cw = min(cw, max((g.screenW-2)/engine.GridSize, 1))

	boardW := engine.GridSize*cw + 2
	boardH := engine.GridSize + 2
	board := core.NewRect((g.screenW-boardW)/2, hudHeight, boardW, boardH)

	return layout{
		cellW:   cw,
		board:   board,
		trayY:   board.Bottom(),
		statusY: board.Bottom() + trayHeight,
	}
}

// cellOrigin returns the screen position of a board cell's first column.
func (l layout) cellOrigin(p engine.Position) (int, int) {
	return l.board.X + 1 + p.X*l.cellW, l.board.Y + 1 + p.Y
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	st := g.coord.State()
	l := g.layout()

	g.renderHUD(dst, st, l)
	g.renderBoard(dst, st, l)
	if !g.paused && !st.GameOver {
		g.renderGhost(dst, st, l)
	}
	g.renderPopups(dst, l)
	g.renderTray(dst, st, l)
	g.renderStatus(dst, st, l)
	g.renderOverlays(dst, st, l)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorBrightRed)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH), core.ColorGray)
}

// renderHUD draws the title, score and best score.
func (g *Game) renderHUD(dst *core.Screen, st engine.GameState, l layout) {
	dst.DrawTextCentered(0, g.Title(), core.ColorBrightWhite)

	dst.DrawText(l.board.X, 1, "Score: "+strconv.Itoa(st.Score))

	best := "Best: " + strconv.Itoa(max(g.best, st.Score))
	dst.DrawTextWithColor(l.board.Right()-len(best), 1, best, core.ColorGray)
}

// renderBoard draws the border, placed blocks, empty cells and clear flash.
func (g *Game) renderBoard(dst *core.Screen, st engine.GameState, l layout) {
	dst.DrawBox(l.board, core.ColorGray)

	for y := range engine.GridSize {
		for x := range engine.GridSize {
			p := engine.P(x, y)
			sx, sy := l.cellOrigin(p)
			cell := st.Grid.At(p)

			switch {
			case g.fx.flashing(p):
				g.drawBlock(dst, sx, sy, l.cellW, '░', core.ColorBrightWhite)
			case cell.Filled:
				g.drawBlock(dst, sx, sy, l.cellW, '█', core.Color(cell.Color))
			default:
				dst.SetWithColor(sx, sy, '·', core.ColorDarkGray)
			}
		}
	}
}

// drawBlock fills one board cell, cellW columns wide.
func (g *Game) drawBlock(dst *core.Screen, x, y, cellW int, r rune, fg core.Color) {
	for i := range cellW {
		dst.SetWithColor(x+i, y, r, fg)
	}
}

// renderGhost previews the selected shape at the cursor, or marks the cursor.
func (g *Game) renderGhost(dst *core.Screen, st engine.GameState, l layout) {
	shape, ok := st.SelectedShape()
	if !ok {
		sx, sy := l.cellOrigin(g.cursor)
		if l.cellW >= 2 {
			dst.DrawTextWithColor(sx, sy, "[]", core.ColorYellow)
		} else {
			dst.SetWithColor(sx, sy, '+', core.ColorYellow)
		}
		return
	}

	if !g.cfg.Presentation.Ghost {
		sx, sy := l.cellOrigin(g.cursor)
		dst.SetWithColor(sx, sy, '+', core.ColorYellow)
		return
	}

	fits := g.coord.CanPlaceShape(shape, g.cursor)
	color, fill := core.Color(shape.Color()), '▓'
	if !fits {
		color, fill = core.ColorRed, '▒'
	}

	for _, b := range shape.Blocks() {
		p := g.cursor.Add(b)
		if !engine.InBounds(p) {
			continue
		}
		sx, sy := l.cellOrigin(p)
		g.drawBlock(dst, sx, sy, l.cellW, fill, color)
	}
}

// renderPopups draws floating "+points" labels.
func (g *Game) renderPopups(dst *core.Screen, l layout) {
	for _, p := range g.fx.popups {
		sx, sy := l.cellOrigin(p.at)
		text := "+" + strconv.Itoa(p.points)
		x := sx + l.cellW/2 - len(text)/2
		x = core.Clamp(x, l.board.X+1, max(l.board.Right()-1-len(text), l.board.X+1))
		y := max(sy-p.rise(), l.board.Y+1)
		dst.DrawTextWithColor(x, y, text, core.ColorYellow)
	}
}

// trayWindow picks the slot cell width and the run of slots [first,
// first+visible) that fits screenW. The run always contains selected.
func trayWindow(n, selected, cellW, screenW int) (cw, first, visible int) {
	cw = cellW
	for cw > 1 && n*slotWidth(cw)+n-1 > screenW {
		cw--
	}
	visible = n
	for visible > 1 && visible*slotWidth(cw)+visible-1 > screenW {
		visible--
	}
	if selected >= visible {
		first = min(selected-visible+1, n-visible)
	}
	return cw, first, visible
}

func slotWidth(cw int) int { return maxShapeDim*cw + 2 }

// renderTray draws one box per slot below the board, scrolled so the
// selected slot is on screen.
func (g *Game) renderTray(dst *core.Screen, st engine.GameState, l layout) {
	n := len(st.Slots)
	cw, first, visible := trayWindow(n, st.Selected, l.cellW, g.screenW)
	slotW := slotWidth(cw)

	total := visible*slotW + visible - 1
	x := (g.screenW - total) / 2

	for k := range visible {
		i := first + k
		box := core.NewRect(x+k*(slotW+1), l.trayY, slotW, trayHeight)

		border := core.ColorDarkGray
		switch {
		case i == st.Selected:
			border = core.ColorYellow
		case g.fx.dealTicks > 0:
			border = core.ColorGreen
		}
		dst.DrawBox(box, border)
		if i < 9 {
			dst.SetWithColor(box.X+1, box.Y, rune('1'+i), border)
		}

		shape, ok := st.Slots[i].Shape()
		if !ok {
			continue
		}

		color := core.Color(shape.Color())
		if !g.fitsAnywhere(st, shape) {
			color = core.ColorDarkGray
		}

		w, h := shape.Size()
		ox := box.X + 1 + (maxShapeDim-w)*cw/2
		oy := box.Y + 1 + (maxShapeDim-h)/2
		for _, b := range shape.Blocks() {
			g.drawBlock(dst, ox+b.X*cw, oy+b.Y, cw, '█', color)
		}
	}

	bottom := l.trayY + trayHeight - 1
	if first > 0 {
		dst.DrawTextWithColor(x+1, bottom, fmt.Sprintf("+%d", first), core.ColorGray)
	}
	if after := n - first - visible; after > 0 {
		more := fmt.Sprintf("+%d", after)
		dst.DrawTextWithColor(x+total-len(more), bottom, more, core.ColorGray)
	}
}

// fitsAnywhere reports whether shape has at least one legal anchor.
func (g *Game) fitsAnywhere(st engine.GameState, shape engine.Shape) bool {
	return len(engine.ValidPositions(&st.Grid, shape)) > 0
}

// renderStatus draws the status and controls lines below the tray.
func (g *Game) renderStatus(dst *core.Screen, st engine.GameState, l layout) {
	status, color := "", core.ColorGray
	switch {
	case st.GameOver && !g.over:
		status = "No moves left..."
	case st.Combo > 0:
		status = "Combo x" + strconv.Itoa(st.Combo)
		if g.fx.comboTicks > 0 {
			color = core.ColorOrange
		}
	case st.Selected == engine.NoSelection && !st.GameOver:
		status = "Pick a shape: 1-3 or Tab"
	}
	if status != "" {
		dst.DrawTextCentered(l.statusY, status, color)
	}

	if l.statusY+1 < g.screenH {
		dst.DrawTextCentered(l.statusY+1, "Space: Place  Tab: Next  P: Pause  Q: Quit", core.ColorDarkGray)
	}
}

// renderOverlays draws pause and game over boxes over the board.
func (g *Game) renderOverlays(dst *core.Screen, st engine.GameState, l layout) {
	cx, cy := l.board.Center()

	if g.paused {
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
		return
	}

	if g.over {
		lines := []string{"GAME OVER", "Score: " + strconv.Itoa(st.Score)}
		if g.canContinue() {
			left := g.cfg.Rules.ContinuesLeft(g.coord.Stats().Continues)
			if left < 0 {
				lines = append(lines, "B: continue")
			} else {
				lines = append(lines, fmt.Sprintf("B: continue (%d left)", left))
			}
		}
		lines = append(lines, "R: restart")
		g.drawOverlay(dst, cx, cy, lines...)
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.FillRect(box, core.Cell{Rune: ' '})
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}
