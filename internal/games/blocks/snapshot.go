package blocks

import (
	"strings"

	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateEnding      GameStateType = "ending" // No shape fits; notice pending
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Score     int
	Combo     int
	Board     []string // Rows of '#' and '.'
	Slots     []string // Shape descriptions, "-" for empty
	Selected  int
	Cursor    engine.Position
	Continues int
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	st := g.coord.State()

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.over:
		state = StateGameOver
	case st.GameOver:
		state = StateEnding
	case g.paused:
		state = StatePaused
	}

	slots := make([]string, len(st.Slots))
	for i, s := range st.Slots {
		slots[i] = s.String()
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Score:     st.Score,
		Combo:     st.Combo,
		Board:     strings.Split(st.Grid.String(), "\n"),
		Slots:     slots,
		Selected:  st.Selected,
		Cursor:    g.cursor,
		Continues: g.coord.Stats().Continues,
		State:     state,
	}
}
