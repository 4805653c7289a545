package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:     "modes",
	Aliases: []string{"list"},
	Short:   "List all available modes",
	Long:    `Shows every registered mode with its rule presets.`,
	Run:     runModes,
}

func runModes(cmd *cobra.Command, _ []string) {
	modes := registry.List()
	out := cmd.OutOrStdout()

	if len(modes) == 0 {
		fmt.Fprintln(out, "No modes available.")
		return
	}

	fmt.Fprintln(out, "Available modes:")
	fmt.Fprintln(out)

	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, m := range modes {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, m.ID, m.Title)
		if m.Description != "" {
			fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "", m.Description)
		}
		if presets := modePresets(m.ID); len(presets) > 0 {
			fmt.Fprintf(out, "  %-*s  presets: %s\n", maxIDLen, "", strings.Join(presets, ", "))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'blocks play <id>' to play a mode.")
}

func modePresets(id string) []string {
	g, err := registry.Create(id)
	if err != nil {
		return nil
	}
	if p, ok := g.(registry.Presetter); ok {
		return p.Presets()
	}
	return nil
}
