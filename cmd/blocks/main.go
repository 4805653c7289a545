// blocks is a block placement puzzle for the terminal.
//
// Usage:
//
//	blocks modes             - List available modes
//	blocks play [mode]       - Play a mode (default: blocks)
//	blocks menu              - Pick a mode interactively
//	blocks serve             - Start SSH server for remote play
//	blocks scores [mode]     - Show high scores
//	blocks config            - Print the default config
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.blocks/scores.db)
//	--config <path>     - Use a custom config YAML
//	--preset <name>     - Rule preset: classic, zen, hard
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Blocks - a placement puzzle in your terminal",
	Long: `Blocks is an 8x8 placement puzzle. Drop the three shapes from your
tray onto the board, fill whole rows or columns to clear them, and keep
clearing on consecutive moves to build a combo.

Available commands:
  modes    - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores
  config   - Print the default config

Examples:
  blocks play
  blocks play blocks_zen
  blocks play --preset hard --seed 42
  blocks menu
  blocks serve --ssh :2222
  blocks scores`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupGame(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLogFile()
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blocks/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Rule preset: classic, zen, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write game logs to this file")

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// setupGame applies the global flags to the blocks package.
func setupGame(cmd *cobra.Command) error {
	if flagFPS < 1 {
		return fmt.Errorf("--fps must be at least 1, got %d", flagFPS)
	}
	if err := blocks.SetPreset(flagPreset); err != nil {
		return err
	}
	if flagConfig != "" {
		if _, err := config.Load(flagConfig); err != nil {
			return err
		}
	}
	blocks.SetConfigPath(flagConfig)

	// The interactive commands own the terminal, so they only log to a file.
	w := io.Discard
	if cmd.Name() == serveCmd.Name() {
		w = os.Stderr
	}
	if flagLogFile != "" {
		if err := closeLogFile(); err != nil {
			return err
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		w = f
	}

	logger, err := newLogger(w, flagLogLevel)
	if err != nil {
		_ = closeLogFile()
		return err
	}
	blocks.SetLogger(logger)
	appLogger = logger
	return nil
}

var appLogger = log.New(io.Discard)

// logFile is the --log-file handle opened by setupGame, if any.
var logFile *os.File

func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	blocks.SetLogger(nil)
	appLogger = log.New(io.Discard)
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// newLogger builds the logger shared by the CLI, the SSH server and the games.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "blocks",
		Level:           lvl,
	}), nil
}
