// Package tui runs registered games in the terminal with Bubble Tea: the
// tick loop, key bindings, screen styling, the mode menu, the scoreboard,
// and the Wish SSH server that hosts the same flow remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one game step.
type TickMsg time.Time

// tickInterval returns the step period for rate ticks per second.
func tickInterval(rate int) time.Duration {
	return time.Second / time.Duration(max(rate, 1))
}

func tickCmd(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
