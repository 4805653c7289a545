package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a mode from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to choose a mode, left/right to choose its rules,
Enter to play. After a game you return to the menu.

Controls:
  Up/Down/j/k  - Choose mode
  Left/Right   - Choose rule preset
  Enter/Space  - Play
  Tab          - Scoreboard
  Q/Esc        - Quit

Examples:
  blocks menu
  blocks menu --fps 20
  blocks menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			return fmt.Errorf("cannot create game: %w", err)
		}
		if p, ok := game.(registry.Presetter); ok && res.Preset != "" {
			if err := p.UsePreset(res.Preset); err != nil {
				return err
			}
		}

		appLogger.Info("playing", "mode", res.GameID, "preset", res.Preset)
		model, err := tui.RunGame(game, cfg, tui.GameOptions{
			Store:  store,
			Logger: appLogger,
			Player: localPlayer(),
		})
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if model.IsQuitting() {
			return nil
		}
		cfg = model.Config()
	}
}
