package config

import (
	"fmt"
	"math"
	"strings"
)

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// Spawn4ForPreset returns the spawn-4 probability of a preset.
func Spawn4ForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.05
	case DifficultyHard:
		return 0.25
	default:
		return 0.10
	}
}

// ApplyT2048Preset modifies the config based on a difficulty preset.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	cfg.Rules.Spawn4Prob = Spawn4ForPreset(preset)

	// Adjust allowances and campaign pressure based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Rules.UndoLimit = 5
		cfg.Rules.BreakLimit = 5
		cfg.Campaign.Spawn4Scale = 0.5
	case DifficultyHard:
		cfg.Rules.UndoLimit = 1
		cfg.Rules.BreakLimit = 1
		cfg.Campaign.Spawn4Scale = 2.0
	}
}

// ScaleSpawn4 applies the campaign scale to a level's probability.
func ScaleSpawn4(base, scale float64) float64 {
	return clampF(base*scale, 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
