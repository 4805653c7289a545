// Package config provides YAML-based configuration loading and named
// presets for the blocks game.
package config

import (
	"errors"
	"fmt"
)

// BlocksConfig contains all configuration for the blocks game.
type BlocksConfig struct {
	Rules        RulesConfig        `yaml:"rules"`
	Generator    GeneratorConfig    `yaml:"generator"`
	Presentation PresentationConfig `yaml:"presentation"`
}

// RulesConfig holds scoring and turn rules.
type RulesConfig struct {
	PointsPerCell int     `yaml:"points_per_cell"`
	AreaBonus     float64 `yaml:"area_bonus"`    // Multiplier when 2+ lines clear at once
	ComboStep     float64 `yaml:"combo_step"`    // Multiplier added per combo level
	Refill        string  `yaml:"refill"`        // "batch" or "eager"
	BonusShapes   int     `yaml:"bonus_shapes"`  // Single-cell shapes granted per continue
	MaxContinues  int     `yaml:"max_continues"` // Continues per game; -1 means unlimited
	CapBonus      bool    `yaml:"cap_bonus"`     // Never grow past three slots
}

// GeneratorConfig controls which shapes and colors are dealt.
type GeneratorConfig struct {
	Palette []string `yaml:"palette"` // Hex colors; empty means the built-in palette
	Shapes  []string `yaml:"shapes"`  // Enabled shape names; empty means all
}

// PresentationConfig holds terminal presentation timings, in ticks.
type PresentationConfig struct {
	GameOverDelayTicks int  `yaml:"game_over_delay_ticks"`
	PopupTicks         int  `yaml:"popup_ticks"`
	ClearFlashTicks    int  `yaml:"clear_flash_ticks"`
	CellWidth          int  `yaml:"cell_width"` // Characters per board cell
	Ghost              bool `yaml:"ghost"`      // Show the placement preview
}

// ContinuesLeft reports how many continues remain after used ones.
// Returns -1 for unlimited.
func (r RulesConfig) ContinuesLeft(used int) int {
	if r.MaxContinues < 0 {
		return -1
	}
	return max(r.MaxContinues-used, 0)
}

// Validate checks that values are usable.
func (c BlocksConfig) Validate() error {
	var errs []error

	if c.Rules.PointsPerCell <= 0 {
		errs = append(errs, fmt.Errorf("rules.points_per_cell must be positive, got %d", c.Rules.PointsPerCell))
	}
	if c.Rules.AreaBonus < 1 {
		errs = append(errs, fmt.Errorf("rules.area_bonus must be at least 1, got %v", c.Rules.AreaBonus))
	}
	if c.Rules.ComboStep < 0 {
		errs = append(errs, fmt.Errorf("rules.combo_step must not be negative, got %v", c.Rules.ComboStep))
	}
	switch c.Rules.Refill {
	case "", "batch", "eager":
	default:
		errs = append(errs, fmt.Errorf("rules.refill must be batch or eager, got %q", c.Rules.Refill))
	}
	if c.Rules.BonusShapes < 0 {
		errs = append(errs, fmt.Errorf("rules.bonus_shapes must not be negative, got %d", c.Rules.BonusShapes))
	}
	if c.Presentation.CellWidth < 1 || c.Presentation.CellWidth > 4 {
		errs = append(errs, fmt.Errorf("presentation.cell_width must be 1-4, got %d", c.Presentation.CellWidth))
	}
	if c.Presentation.GameOverDelayTicks < 0 || c.Presentation.PopupTicks < 0 || c.Presentation.ClearFlashTicks < 0 {
		errs = append(errs, errors.New("presentation tick counts must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
