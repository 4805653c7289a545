package config

import (
	_ "embed"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the built-in configuration.
// It matches defaults/blocks.yaml and is used when the embedded file cannot
// be parsed.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Rules: RulesConfig{
			PointsPerCell: 10,
			AreaBonus:     1.5,
			ComboStep:     0.1,
			Refill:        "batch",
			BonusShapes:   3,
			MaxContinues:  1,
		},
		Presentation: PresentationConfig{
			GameOverDelayTicks: 15, // 500ms at 30 ticks per second
			PopupTicks:         30,
			ClearFlashTicks:    6,
			CellWidth:          2,
			Ghost:              true,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBlocksYAML
}
