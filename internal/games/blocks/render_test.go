package blocks

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

func render(g *Game) string {
	scr := core.NewScreen(g.screenW, g.screenH)
	g.Render(scr)
	return scr.String()
}

func TestRenderHUDAndBoard(t *testing.T) {
	g := newTestGame(t)
	g.SetHighScore(1200)

	out := render(g)
	for _, want := range []string{"Blocks", "Score: 0", "Best: 1200", "·"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPlacedCellUsesShapeColor(t *testing.T) {
	g := newTestGame(t, "SINGLE")
	placeAt(t, g, engine.P(0, 0))
	g.cursor = engine.P(5, 5)

	scr := core.NewScreen(g.screenW, g.screenH)
	g.Render(scr)

	l := g.layout()
	x, y := l.cellOrigin(engine.P(0, 0))
	cell := scr.GetCell(x, y)
	if cell.Rune != '█' {
		t.Errorf("rune at (0,0) = %q, want a block", cell.Rune)
	}
	want := core.Color(g.coord.State().Grid.At(engine.P(0, 0)).Color)
	if cell.FG != want || !want.IsHex() {
		t.Errorf("fg = %q, want palette color %q", cell.FG, want)
	}
}

func TestRenderGhostMarksIllegalPlacement(t *testing.T) {
	g := newTestGame(t, "SINGLE")
	placeAt(t, g, engine.P(4, 4))
	g.cursor = engine.P(4, 4)

	scr := core.NewScreen(g.screenW, g.screenH)
	g.Render(scr)

	x, y := g.layout().cellOrigin(engine.P(4, 4))
	if cell := scr.GetCell(x, y); cell.FG != core.ColorRed {
		t.Errorf("ghost over a filled cell fg = %q, want red", cell.FG)
	}
}

func TestRenderPopup(t *testing.T) {
	g := newTestGame(t, "SINGLE")
	for x := range engine.GridSize {
		placeAt(t, g, engine.P(x, 0))
	}

	if out := render(g); !strings.Contains(out, "+80") {
		t.Errorf("render missing popup:\n%s", out)
	}
	if out := render(g); !strings.Contains(out, "Combo x1") {
		t.Errorf("render missing combo:\n%s", out)
	}
}

func TestRenderOverlays(t *testing.T) {
	g := newTestGame(t, "SQUARE")

	step(g, core.ActionPause)
	if out := render(g); !strings.Contains(out, "PAUSED") {
		t.Errorf("render missing pause overlay:\n%s", out)
	}
	step(g, core.ActionPause)

	fillSquareLattice(t, g)
	if out := render(g); !strings.Contains(out, "No moves left") {
		t.Errorf("render missing ending notice:\n%s", out)
	}

	for range g.cfg.Presentation.GameOverDelayTicks {
		step(g)
	}
	out := render(g)
	for _, want := range []string{"GAME OVER", "B: continue (1 left)", "R: restart"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := NewWithConfig(ModeClassic, config.DefaultBlocksConfig())
	g.Reset(core.RuntimeConfig{ScreenW: 24, ScreenH: 12, TickRate: 30})

	if out := render(g); !strings.Contains(out, "Window too small") {
		t.Errorf("render missing size warning:\n%s", out)
	}
}

func TestRenderTrayOverflow(t *testing.T) {
	cfg := config.DefaultBlocksConfig()
	cfg.Presentation.CellWidth = 4
	g := NewWithConfig(ModeClassic, cfg)
	g.Reset(core.RuntimeConfig{ScreenW: minScreenW, ScreenH: minScreenH, TickRate: 30, Seed: 1})

	l := g.layout()
	if l.board.W > minScreenW {
		t.Errorf("board width %d exceeds screen width %d", l.board.W, minScreenW)
	}
	// Rendering at the minimum size must stay within bounds.
	_ = render(g)
}

func TestTrayWindow(t *testing.T) {
	tests := []struct {
		name                   string
		n, selected, screenW   int
		wantCW, first, visible int
	}{
		{"fits", 3, 2, 30, 2, 0, 3},
		{"overflow keeps head", 6, 2, 30, 1, 0, 5},
		{"overflow scrolls to selected", 6, 5, 30, 1, 1, 5},
		{"nothing selected", 6, -1, 30, 1, 0, 5},
		{"narrow shows one", 4, 3, 6, 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cw, first, visible := trayWindow(tt.n, tt.selected, 2, tt.screenW)
			if cw != tt.wantCW || first != tt.first || visible != tt.visible {
				t.Errorf("trayWindow = (%d, %d, %d), want (%d, %d, %d)",
					cw, first, visible, tt.wantCW, tt.first, tt.visible)
			}
		})
	}
}

func TestRenderTrayScrollsToSelectedSlot(t *testing.T) {
	g := newTestGame(t, "SINGLE")
	g.Resize(minScreenW, g.screenH)
	g.coord.ContinueWithBonus(6)
	if n := len(g.coord.State().Slots); n != 6 {
		t.Fatalf("slots = %d, want 6", n)
	}

	// Continuing drops the selection, so the sixth Tab lands on slot 6.
	for range 6 {
		step(g, core.ActionNextSlot)
	}
	if sel := g.coord.State().Selected; sel != 5 {
		t.Fatalf("selected = %d, want 5", sel)
	}

	scr := core.NewScreen(g.screenW, g.screenH)
	g.Render(scr)
	l := g.layout()
	labels := scr.Row(l.trayY)
	if !strings.Contains(labels, "6") || strings.Contains(labels, "1") {
		t.Errorf("tray labels = %q, want slots 2-6", labels)
	}
	if bottom := scr.Row(l.trayY + trayHeight - 1); !strings.Contains(bottom, "+1") {
		t.Errorf("tray bottom = %q, want hidden count", bottom)
	}
}
