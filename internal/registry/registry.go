// Package registry maps game mode IDs to factories.
// Game packages register their modes in init(), so the CLI and the SSH
// server can list and start modes without importing each game directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-blocks/internal/core"
)

// Game is the interface the platform drives. Implementations hold pure
// game logic; input mapping, timing and terminal output live in the platform.
type Game interface {
	// ID returns the mode identifier used on the command line and in the
	// score store (e.g. "blocks", "blocks_zen").
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Reset starts a new game. Called once at start and again on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick with the given input.
	Step(in core.InputFrame) core.StepResult

	// Render draws the game into dst.
	Render(dst *core.Screen)

	// State returns score, game over and pause status.
	State() core.GameState
}

// Describer is implemented by games that provide a one-line summary for menus.
type Describer interface {
	Description() string
}

// Controller is implemented by games that list their key bindings.
type Controller interface {
	Controls() string
}

// StatsReporter is implemented by games that report per-run counters.
type StatsReporter interface {
	RunStats() core.RunStats
}

// HighScorer is implemented by games that show the stored best score.
type HighScorer interface {
	SetHighScore(score int)
}

// Presetter is implemented by games that offer named rule presets.
type Presetter interface {
	Presets() []string
	UsePreset(name string) error
}

// Resizer is implemented by games that lay out per frame and can follow a
// terminal resize without restarting.
type Resizer interface {
	Resize(w, h int)
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
)

// Register adds a factory under id.
// Panics if id is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}
	infos[id] = info
}

// List returns every registered mode, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
