package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blocks/internal/config"
)

var flagEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the blocks config",
	Long: `Print the built-in default config, ready to copy to
~/.blocks/configs/blocks.yaml and edit.

With --effective, print the config a game would use after the
--config file and --preset are applied.

Examples:
  blocks config > ~/.blocks/configs/blocks.yaml
  blocks config --effective --preset hard`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagEffective, "effective", false, "Print the resolved config instead of the default")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if !flagEffective {
		_, err := out.Write(config.DefaultYAML())
		return err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}
	cfg, err := config.LoadPreset(flagConfig, preset)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
