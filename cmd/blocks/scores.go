package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresClear  bool
	flagScoresRecent bool
	flagScoresRun    string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the best runs for a mode, or a summary of every played mode
when no mode is given.

Every run keeps its seed, so a run can be replayed from the same deal
with 'blocks play <mode> --seed <seed>'.

Examples:
  blocks scores
  blocks scores blocks
  blocks scores blocks_zen --limit 20
  blocks scores --recent
  blocks scores --run 5f0c...
  blocks scores blocks --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores of the mode")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the latest runs instead of the best")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show one run by ID")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagScoresRun != "" {
		return printRun(out, store, flagScoresRun)
	}

	mode := ""
	if len(args) > 0 {
		mode = args[0]
		if !registry.Exists(mode) {
			return fmt.Errorf("unknown mode %q (run 'blocks modes' to see available modes)", mode)
		}
	}
	if flagScoresRecent {
		return printRecent(out, store, mode, flagScoresLimit)
	}

	if mode == "" {
		if flagScoresClear {
			return fmt.Errorf("--clear needs a mode")
		}
		return printSummary(out, store)
	}

	if flagScoresClear {
		if err := store.ClearScores(mode); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared scores for %s.\n", mode)
		return nil
	}
	return printTopRuns(out, store, mode, flagScoresLimit)
}

func printRun(out io.Writer, store *storage.Store, id string) error {
	run, err := store.RunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with ID %q", id)
	}

	fmt.Fprintf(out, "Run %s\n\n", run.ID)
	fmt.Fprintf(out, "  Mode:        %s\n", run.Mode)
	fmt.Fprintf(out, "  Player:      %s\n", run.Player)
	fmt.Fprintf(out, "  Score:       %d\n", run.Score)
	fmt.Fprintf(out, "  Max combo:   x%d\n", run.MaxCombo)
	fmt.Fprintf(out, "  Lines:       %d\n", run.LinesCleared)
	fmt.Fprintf(out, "  Placements:  %d\n", run.Placements)
	fmt.Fprintf(out, "  Continues:   %d\n", run.Continues)
	fmt.Fprintf(out, "  Duration:    %s\n", run.Duration.Round(time.Second))
	fmt.Fprintf(out, "  Played:      %s\n", run.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Replay: blocks play %s --seed %d\n", run.Mode, run.Seed)
	return nil
}

func printRecent(out io.Writer, store *storage.Store, mode string, limit int) error {
	runs, err := store.RecentRuns(mode, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-16s  %-12s  %-8s  %-12s  %s\n", "Date", "Mode", "Score", "Player", "Run")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-16s  %-12s  %-8d  %-12s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Score, r.Player, r.ID)
	}
	return nil
}

func printTopRuns(out io.Writer, store *storage.Store, modeID string, limit int) error {
	game, err := registry.Create(modeID)
	if err != nil {
		return err
	}

	runs, err := store.TopRuns(modeID, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", game.Title())

	if len(runs) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'blocks play %s' to set the first high score!\n", modeID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-8s  %-5s  %-5s  %-12s  %s\n", "Rank", "Score", "Combo", "Lines", "Player", "Date")
	fmt.Fprintf(out, "  %-4s  %-8s  %-5s  %-5s  %-12s  %s\n", "----", "-----", "-----", "-----", "------", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-8d  %-5d  %-5d  %-12s  %s\n",
			i+1, r.Score, r.MaxCombo, r.LinesCleared, r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.ModeStats(modeID); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d  Games: %d  Avg: %.0f  Best combo: x%d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestCombo)
	}
	return nil
}

func printSummary(out io.Writer, store *storage.Store) error {
	all, err := store.AllModeStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return nil
	}

	modes := make([]string, 0, len(all))
	for m := range all {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Fprintf(out, "  %-12s  %-6s  %-8s  %-8s  %-6s  %s\n", "Mode", "Games", "Best", "Avg", "Lines", "Last played")
	for _, m := range modes {
		st := all[m]
		fmt.Fprintf(out, "  %-12s  %-6d  %-8d  %-8.0f  %-6d  %s\n",
			m, st.GamesCount, st.HighScore, st.AvgScore, st.TotalLines, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
