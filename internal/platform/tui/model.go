package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

// GameModel is the Bubble Tea model that runs one game.
// Standalone models quit on Esc at game over; session models return to the menu.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	painter    *Painter
	config     core.RuntimeConfig
	player     string
	standalone bool

	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState

	runID      string
	runStarted time.Time
	runSaved   bool // Saved for the current game over

	quitting   bool
	backToMenu bool
}

// GameOptions configures a GameModel.
type GameOptions struct {
	Store      *storage.Store
	Logger     *log.Logger
	Painter    *Painter // Nil uses the default renderer
	Player     string
	Standalone bool
}

// NewGameModel creates a model for game. A zero seed is replaced by the clock.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	painter := opts.Painter
	if painter == nil {
		painter = defaultPainter()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		logger:     logger,
		painter:    painter,
		config:     cfg,
		player:     opts.Player,
		standalone: opts.Standalone,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		runID:      uuid.NewString(),
		runStarted: time.Now(),
	}
}

// Init starts the game and the tick loop.
// Games are pointers, so resetting from a value receiver sticks.
func (m GameModel) Init() tea.Cmd {
	m.resetGame()
	return tickCmd(m.config.TickRate)
}

// startRun begins a new run under a fresh ID.
func (m *GameModel) startRun() {
	m.resetGame()
	m.gameState = m.game.State()
	m.runID = uuid.NewString()
	m.runStarted = time.Now()
	m.runSaved = false
}

// resetGame resets the game and hands it the stored best score.
func (m *GameModel) resetGame() {
	m.game.Reset(m.config)

	if hs, ok := m.game.(registry.HighScorer); ok && m.store != nil {
		best, err := m.store.HighScore(m.game.ID())
		if err != nil {
			m.logger.Warn("cannot read high score", "mode", m.game.ID(), "err", err)
		}
		hs.SetHighScore(best)
	}
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "err", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.saveRun()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
	}
	return m, nil
}

// handleResize resizes the screen. Games that implement registry.Resizer keep
// playing at the new size; others restart unless the game is already over.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		m.gameState = m.game.State()
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
	}
	return m, nil
}

// handleTick runs one simulation step.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && (m.gameState.GameOver || m.gameState.Paused) {
		m.saveRun()
		m.config.Seed = time.Now().UnixNano()
		m.startRun()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	wasOver := m.gameState.GameOver
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.runSaved:
		m.saveRun()
	case wasOver && !m.gameState.GameOver:
		// Continued: the run is open again and will be saved under the same ID.
		m.runSaved = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the current run once. Runs without points are skipped.
func (m *GameModel) saveRun() {
	if m.runSaved || m.store == nil || m.gameState.Score <= 0 {
		return
	}
	m.runSaved = true

	run := storage.Run{
		ID:       m.runID,
		Mode:     m.game.ID(),
		Player:   m.player,
		Seed:     m.config.Seed,
		Score:    m.gameState.Score,
		Duration: time.Since(m.runStarted),
	}
	if sr, ok := m.game.(registry.StatsReporter); ok {
		st := sr.RunStats()
		run.MaxCombo = st.MaxCombo
		run.LinesCleared = st.LinesCleared
		run.Placements = st.Placements
		run.Continues = st.Continues
	}

	if _, err := m.store.SaveRun(run); err != nil {
		m.logger.Warn("cannot save run", "mode", run.Mode, "err", err)
		return
	}
	m.logger.Debug("run saved", "id", run.ID, "mode", run.Mode, "score", run.Score)
}

// saveScreenshot writes the current screen as plain text under
// ~/.blocks/screenshots and returns the file path.
func (m *GameModel) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".blocks", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return m.painter.Render(m.screen)
}

// IsQuitting returns true if the user asked to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the local terminal until the user quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	opts.Standalone = true
	p := tea.NewProgram(NewGameModel(game, cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Config returns the current runtime config (may have been updated by resize).
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// menuGame ends the program when a menu-launched game returns to the menu.
type menuGame struct {
	GameModel
}

func (m menuGame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.GameModel.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.GameModel = gm
	}
	if m.BackToMenu() {
		return m, tea.Quit
	}
	return m, cmd
}

// RunGame plays game launched from the local menu. The returned model tells
// whether the user quit or went back to the menu.
func RunGame(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) (GameModel, error) {
	opts.Standalone = false
	p := tea.NewProgram(menuGame{NewGameModel(game, cfg, opts)}, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return GameModel{}, err
	}
	if mg, ok := final.(menuGame); ok {
		return mg.GameModel, nil
	}
	return GameModel{quitting: true}, nil
}
