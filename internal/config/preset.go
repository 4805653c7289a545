package config

import "fmt"

// Preset is a named rule variant layered over the loaded config.
type Preset string

const (
	PresetClassic Preset = "classic"
	PresetZen     Preset = "zen"
	PresetHard    Preset = "hard"
)

// Presets returns every known preset.
func Presets() []Preset {
	return []Preset{PresetClassic, PresetZen, PresetHard}
}

// ParsePreset converts a flag value to a Preset. Empty means classic.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "", PresetClassic:
		return PresetClassic, nil
	case PresetZen:
		return PresetZen, nil
	case PresetHard:
		return PresetHard, nil
	default:
		return "", fmt.Errorf("config: unknown preset %q (want classic, zen or hard)", s)
	}
}

// ApplyPreset modifies cfg for the given preset.
// Classic keeps the loaded values.
func ApplyPreset(cfg *BlocksConfig, preset Preset) {
	switch preset {
	case PresetZen:
		cfg.Rules.Refill = "eager"
		cfg.Rules.MaxContinues = -1
		cfg.Rules.CapBonus = true
	case PresetHard:
		cfg.Rules.Refill = "batch"
		cfg.Rules.MaxContinues = 0
		cfg.Generator.Shapes = []string{"LINE_3", "L_SHAPE", "SQUARE", "T_SHAPE", "CROSS", "Z_SHAPE"}
		cfg.Presentation.Ghost = false
	}
}
