package blocks

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

// ticksToDuration converts a tick count at the given rate to wall time.
func ticksToDuration(ticks, tickRate int) time.Duration {
	if ticks <= 0 || tickRate <= 0 {
		return 0
	}
	return time.Duration(ticks) * time.Second / time.Duration(tickRate)
}

// newGenerator builds a shape generator from the generator config section.
func newGenerator(cfg config.GeneratorConfig, seed int64) (*engine.Generator, error) {
	gen := engine.NewGenerator(rand.New(rand.NewSource(seed)))

	if len(cfg.Palette) > 0 {
		palette := make([]engine.Color, 0, len(cfg.Palette))
		for _, c := range cfg.Palette {
			if !core.Color(c).IsHex() {
				return nil, fmt.Errorf("blocks: palette color %q is not #rrggbb", c)
			}
			palette = append(palette, engine.Color(c))
		}
		gen.WithPalette(palette)
	}

	if len(cfg.Shapes) > 0 {
		types := make([]engine.ShapeType, 0, len(cfg.Shapes))
		for _, name := range cfg.Shapes {
			t, ok := engine.ParseShapeType(name)
			if !ok {
				return nil, fmt.Errorf("blocks: unknown shape %q", name)
			}
			types = append(types, t)
		}
		gen.WithTypes(types)
	}

	return gen, nil
}

// coordinatorOptions maps the loaded config onto engine options.
// Listener, scheduler and logger are supplied by the caller.
func coordinatorOptions(cfg config.BlocksConfig, seed int64, tickRate int, logger *log.Logger) (engine.Options, error) {
	gen, err := newGenerator(cfg.Generator, seed)
	if err != nil {
		return engine.Options{}, err
	}

	refill, ok := engine.ParseRefillMode(cfg.Rules.Refill)
	if !ok {
		return engine.Options{}, fmt.Errorf("blocks: unknown refill mode %q", cfg.Rules.Refill)
	}

	return engine.Options{
		Generator: gen,
		Rules: engine.ScoreRules{
			PointsPerCell: cfg.Rules.PointsPerCell,
			AreaBonus:     cfg.Rules.AreaBonus,
			ComboStep:     cfg.Rules.ComboStep,
		},
		GameOverDelay: ticksToDuration(cfg.Presentation.GameOverDelayTicks, tickRate),
		Refill:        refill,
		CapBonus:      cfg.Rules.CapBonus,
		Logger:        logger,
	}, nil
}
