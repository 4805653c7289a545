package blocks

import "github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"

// popup is a "+points" label floating over the board.
type popup struct {
	points int
	at     engine.Position
	ttl    int
	total  int
}

// rise returns how many rows the popup has drifted up.
func (p popup) rise() int {
	if p.total <= 0 {
		return 0
	}
	return (p.total - p.ttl) * 2 / p.total
}

// effects holds short-lived presentation state driven by ticks.
type effects struct {
	popups     []popup
	flash      [engine.GridSize][engine.GridSize]bool
	flashTicks int
	comboTicks int
	dealTicks  int
}

func (fx *effects) addPopup(points int, at engine.Position, ticks int) {
	if ticks <= 0 {
		return
	}
	fx.popups = append(fx.popups, popup{points: points, at: at, ttl: ticks, total: ticks})
}

// flashCleared marks cells filled in before but empty in after.
func (fx *effects) flashCleared(before, after engine.Grid, ticks int) {
	if ticks <= 0 {
		return
	}
	any := false
	for y := range engine.GridSize {
		for x := range engine.GridSize {
			cleared := before[y][x].Filled && !after[y][x].Filled
			fx.flash[y][x] = cleared
			any = any || cleared
		}
	}
	if any {
		fx.flashTicks = ticks
	}
}

// flashing reports whether the cell at p is in the clear flash.
func (fx *effects) flashing(p engine.Position) bool {
	return fx.flashTicks > 0 && fx.flash[p.Y][p.X]
}

// step ages every effect by one tick.
func (fx *effects) step() {
	kept := fx.popups[:0]
	for _, p := range fx.popups {
		p.ttl--
		if p.ttl > 0 {
			kept = append(kept, p)
		}
	}
	fx.popups = kept

	if fx.flashTicks > 0 {
		fx.flashTicks--
	}
	if fx.comboTicks > 0 {
		fx.comboTicks--
	}
	if fx.dealTicks > 0 {
		fx.dealTicks--
	}
}
