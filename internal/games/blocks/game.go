// Package blocks adapts the placement puzzle engine to the platform's
// registry.Game interface: keyboard cursor and slot selection, timed
// effects, and rendering into a core.Screen.
package blocks

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "blocks"
	ModeZen     Mode = "blocks_zen"
)

// Minimum screen size: HUD, boxed board, slot tray and controls line.
const (
	minScreenW = 30
	minScreenH = 19
)

// Package-level settings applied on the next Reset.
var settings = struct {
	sync.RWMutex
	configPath string
	preset     config.Preset
	logger     *log.Logger
}{
	preset: config.PresetClassic,
	logger: log.New(io.Discard),
}

// SetConfigPath sets a custom config file path. Empty uses the search order.
func SetConfigPath(path string) {
	settings.Lock()
	defer settings.Unlock()
	settings.configPath = path
}

// SetPreset sets the rule preset used by the classic mode.
func SetPreset(name string) error {
	p, err := config.ParsePreset(name)
	if err != nil {
		return err
	}
	settings.Lock()
	defer settings.Unlock()
	settings.preset = p
	return nil
}

// SetLogger sets the logger handed to new games. Nil disables logging.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	settings.Lock()
	defer settings.Unlock()
	settings.logger = l
}

func currentSettings() (string, config.Preset, *log.Logger) {
	settings.RLock()
	defer settings.RUnlock()
	return settings.configPath, settings.preset, settings.logger
}

func init() {
	registry.Register(string(ModeClassic), func() registry.Game {
		return New()
	})
	registry.Register(string(ModeZen), func() registry.Game {
		return NewZen()
	})
}

// Game is the blocks puzzle driven by platform ticks.
type Game struct {
	mode     Mode
	fixedCfg *config.BlocksConfig // Set by NewWithConfig; skips file loading
	preset   config.Preset        // Overrides the package preset when set
	cfg      config.BlocksConfig
	logger   *log.Logger

	coord *engine.Coordinator
	sched *tickScheduler
	seed  int64
	tick  uint64

	cursor engine.Position
	best   int

	// Game state flags
	paused   bool
	tooSmall bool
	over     bool // GameOver event delivered

	screenW int
	screenH int

	fx effects
}

// New creates a classic game using the package settings.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewZen creates a zen game: eager refill and unlimited continues.
func NewZen() *Game {
	return &Game{mode: ModeZen}
}

// NewWithConfig creates a game with a fixed configuration.
func NewWithConfig(mode Mode, cfg config.BlocksConfig) *Game {
	return &Game{mode: mode, fixedCfg: &cfg}
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "Blocks (Zen)"
	}
	return "Blocks"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.mode == ModeZen {
		return "Empty slots refill at once, continue as often as you like"
	}
	return "Place three shapes, clear rows and columns, chain combos"
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "1-3/Tab: Pick | Arrows: Move | Space: Place | B: Continue | P: Pause | R: Restart | Q: Quit"
}

// Presets lists the rule presets the classic mode accepts.
func (g *Game) Presets() []string {
	if g.mode == ModeZen {
		return nil
	}
	names := make([]string, 0, 3)
	for _, p := range config.Presets() {
		names = append(names, string(p))
	}
	return names
}

// UsePreset selects the rule preset for this game from the next Reset on.
func (g *Game) UsePreset(name string) error {
	p, err := config.ParsePreset(name)
	if err != nil {
		return err
	}
	g.preset = p
	return nil
}

// loadConfig resolves the config for this mode and reports any load error.
func (g *Game) loadConfig() (config.BlocksConfig, error) {
	if g.fixedCfg != nil {
		return *g.fixedCfg, nil
	}

	path, preset, _ := currentSettings()
	switch {
	case g.mode == ModeZen:
		preset = config.PresetZen
	case g.preset != "":
		preset = g.preset
	}
	return config.LoadPreset(path, preset)
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	_, _, g.logger = currentSettings()

	bc, err := g.loadConfig()
	if err != nil {
		g.logger.Warn("using default config", "mode", g.mode, "err", err)
		bc = config.DefaultBlocksConfig()
		if g.mode == ModeZen {
			config.ApplyPreset(&bc, config.PresetZen)
		}
	}

	tickRate := max(cfg.TickRate, 1)
	opts, err := coordinatorOptions(bc, cfg.Seed, tickRate, g.logger)
	if err != nil {
		g.logger.Warn("invalid generator config, using defaults", "mode", g.mode, "err", err)
		bc.Generator = config.GeneratorConfig{}
		opts, _ = coordinatorOptions(bc, cfg.Seed, tickRate, g.logger)
	}

	g.cfg = bc
	g.seed = cfg.Seed
	g.tick = 0
	g.paused = false
	g.over = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.fx = effects{}
	g.cursor = engine.P(engine.GridSize/2-1, engine.GridSize/2-1)

	g.sched = newTickScheduler(tickRate)
	opts.Scheduler = g.sched
	events := &engine.Dispatcher{}
	events.Subscribe(engine.ListenerFunc(g.onEvent))
	events.Subscribe(engine.ListenerFunc(g.onEffectEvent))
	events.Subscribe(eventLogger(g.logger, g.mode))
	opts.Listener = events
	g.coord = engine.NewCoordinator(opts)

	g.selectNext(-1)
	g.checkScreenSize()

	g.logger.Debug("game started", "mode", g.mode, "seed", cfg.Seed, "refill", opts.Refill)
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Resize adopts a new screen size and keeps the game in progress.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// SetHighScore sets the best score shown in the HUD.
func (g *Game) SetHighScore(score int) {
	g.best = score
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.sched.advance(g.tick)
	g.fx.step()

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	st := g.coord.State()

	if in.Has(core.ActionPause) && !st.GameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if st.GameOver {
		if in.Has(core.ActionBonus) && g.over && g.canContinue() {
			g.continueGame()
		}
		return core.StepResult{State: g.State()}
	}

	g.handleSelection(in, st)
	g.handleMovement(in)

	if in.Has(core.ActionConfirm) {
		g.place()
	}

	return core.StepResult{State: g.State()}
}

// handleSelection applies slot picks. Picking an empty slot drops the selection.
func (g *Game) handleSelection(in core.InputFrame, st engine.GameState) {
	for _, a := range []core.Action{core.ActionSelect1, core.ActionSelect2, core.ActionSelect3} {
		if !in.Has(a) {
			continue
		}
		i, _ := a.SlotIndex()
		g.coord.SelectShape(i)
		g.clampCursor()
		return
	}

	switch {
	case in.Has(core.ActionNextSlot):
		g.selectNext(st.Selected)
	case in.Has(core.ActionBack):
		g.coord.Deselect()
	}
}

// selectNext selects the first occupied slot after index, wrapping around.
func (g *Game) selectNext(index int) {
	slots := g.coord.State().Slots
	n := len(slots)
	for i := 1; i <= n; i++ {
		j := core.Wrap(index+i, n)
		if !slots[j].IsEmpty() {
			g.coord.SelectShape(j)
			g.clampCursor()
			return
		}
	}
	g.coord.Deselect()
}

func (g *Game) handleMovement(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Y--
	case in.Has(core.ActionDown):
		g.cursor.Y++
	case in.Has(core.ActionLeft):
		g.cursor.X--
	case in.Has(core.ActionRight):
		g.cursor.X++
	}
	g.clampCursor()
}

// clampCursor keeps the selected shape's bounding box on the board.
func (g *Game) clampCursor() {
	w, h := 1, 1
	if shape, ok := g.coord.State().SelectedShape(); ok {
		w, h = shape.Size()
	}
	g.cursor.X = core.Clamp(g.cursor.X, 0, engine.GridSize-w)
	g.cursor.Y = core.Clamp(g.cursor.Y, 0, engine.GridSize-h)
}

// place drops the selected shape at the cursor and starts the clear flash.
func (g *Game) place() {
	before := g.coord.State()
	if !g.coord.PlaceShape(g.cursor) {
		return
	}

	after := g.coord.State()
	if after.GridBeforeClear != nil {
		g.fx.flashCleared(*after.GridBeforeClear, after.Grid, g.cfg.Presentation.ClearFlashTicks)
	}
	g.selectNext(before.Selected)
}

// canContinue reports whether a bonus continue is still allowed.
func (g *Game) canContinue() bool {
	if g.cfg.Rules.BonusShapes <= 0 {
		return false
	}
	return g.cfg.Rules.ContinuesLeft(g.coord.Stats().Continues) != 0
}

// continueGame swaps the stuck tray for bonus shapes after a game over.
func (g *Game) continueGame() {
	g.coord.ContinueWithBonus(g.cfg.Rules.BonusShapes)
	g.over = false
	g.selectNext(-1)
	g.logger.Info("continued with bonus shapes", "mode", g.mode, "continues", g.coord.Stats().Continues)
}

// onEvent tracks the delivered game over.
func (g *Game) onEvent(e engine.Event) {
	if _, ok := e.(engine.GameOver); !ok {
		return
	}
	g.over = true
	st := g.coord.State()
	g.logger.Info("game over", "mode", g.mode, "score", st.Score, "placements", g.coord.Stats().Placements)
}

// onEffectEvent starts the timed effects.
func (g *Game) onEffectEvent(e engine.Event) {
	switch e := e.(type) {
	case engine.PointsEarned:
		g.fx.addPopup(e.Points, e.At, g.cfg.Presentation.PopupTicks)
	case engine.ComboChanged:
		if e.Combo > 1 {
			g.fx.comboTicks = g.cfg.Presentation.PopupTicks
		}
	case engine.ShapesChanged:
		if e.Animate {
			g.fx.dealTicks = g.cfg.Presentation.PopupTicks / 2
		}
	}
}

// eventLogger writes every engine event at debug level.
func eventLogger(l *log.Logger, mode Mode) engine.Listener {
	return engine.ListenerFunc(func(e engine.Event) {
		switch e := e.(type) {
		case engine.ScoreChanged:
			l.Debug("score changed", "mode", mode, "score", e.Score)
		case engine.ComboChanged:
			l.Debug("combo changed", "mode", mode, "combo", e.Combo)
		case engine.ShapesChanged:
			l.Debug("shapes changed", "mode", mode, "slots", len(e.Slots), "animate", e.Animate)
		case engine.PointsEarned:
			l.Debug("points earned", "mode", mode, "points", e.Points, "x", e.At.X, "y", e.At.Y)
		case engine.GameOver:
			l.Debug("game over delivered", "mode", mode)
		}
	})
}

// State returns the current game state.
// GameOver turns true once the delayed notification arrives.
func (g *Game) State() core.GameState {
	if g.coord == nil {
		return core.GameState{}
	}
	st := g.coord.State()
	return core.GameState{
		Score:    st.Score,
		GameOver: g.over,
		Paused:   g.paused || g.tooSmall,
	}
}

// RunStats returns per-game counters for the score store.
func (g *Game) RunStats() core.RunStats {
	if g.coord == nil {
		return core.RunStats{}
	}
	s := g.coord.Stats()
	return core.RunStats{
		Seed:         g.seed,
		MaxCombo:     s.MaxCombo,
		LinesCleared: s.LinesCleared,
		Placements:   s.Placements,
		Continues:    s.Continues,
	}
}
