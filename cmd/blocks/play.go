package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode (default: blocks).

Controls:
  1/2/3, Tab       - Pick a shape from the tray
  Arrows/WASD/HJKL - Move the shape
  Space/Enter      - Place
  B                - Continue with bonus shapes (after game over)
  P                - Pause
  R                - Restart (when paused or after game over)
  Esc              - Drop selection / leave after game over
  Q/Ctrl+C         - Quit

Presets (classic mode):
  classic - Refill after all three shapes are used, one continue
  zen     - Refill at once, unlimited continues
  hard    - Larger shapes only, no continues

Examples:
  blocks play
  blocks play blocks_zen
  blocks play --preset hard
  blocks play --seed 42 --fps 20
  blocks play --config ./my-blocks.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	modeID := string(blocks.ModeClassic)
	if len(args) > 0 {
		modeID = args[0]
	}

	if !registry.Exists(modeID) {
		return fmt.Errorf("unknown mode %q (run 'blocks modes' to see available modes)", modeID)
	}

	game, err := registry.Create(modeID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	appLogger.Info("playing", "mode", modeID, "seed", flagSeed, "preset", flagPreset)
	if err := tui.Run(game, runtimeConfig(), tui.GameOptions{
		Store:  store,
		Logger: appLogger,
		Player: localPlayer(),
	}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runtimeConfig builds the runtime config from the flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// localPlayer names the player for runs saved from this terminal.
func localPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
