package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blocks/internal/core"
)

// styleKey identifies a foreground/background pair.
type styleKey struct {
	fg, bg core.Color
}

// Painter turns screen buffers into styled strings for one output.
// SSH sessions get their own painter so colors follow the client terminal.
type Painter struct {
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	styles map[styleKey]lipgloss.Style
}

// NewPainter creates a painter for r. Nil uses the default renderer.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{renderer: r, styles: make(map[styleKey]lipgloss.Style)}
}

// style returns the cached style for a color pair. Palette colors are
// "#rrggbb" strings and ANSI colors are numbers; lipgloss.Color takes both.
func (p *Painter) style(fg, bg core.Color) lipgloss.Style {
	k := styleKey{fg, bg}

	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.styles[k]; ok {
		return st
	}
	st := p.renderer.NewStyle()
	if fg != core.ColorDefault {
		st = st.Foreground(lipgloss.Color(fg))
	}
	if bg != core.ColorDefault {
		st = st.Background(lipgloss.Color(bg))
	}
	p.styles[k] = st
	return st
}

// Render converts a Screen buffer to a styled string.
// Adjacent cells with the same colors share one styled run.
func (p *Painter) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)
			run.Reset()
			for x < s.Width() {
				c := s.GetCell(x, y)
				if c.FG != start.FG || c.BG != start.BG {
					break
				}
				run.WriteRune(c.Rune)
				x++
			}
			if start.FG == core.ColorDefault && start.BG == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(p.style(start.FG, start.BG).Render(run.String()))
		}
	}
	return sb.String()
}

var defaultPainter = sync.OnceValue(func() *Painter { return NewPainter(nil) })
