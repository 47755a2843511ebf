package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the default 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Rules: RulesConfig{
			Spawn4Prob:   0.10,
			HistoryDepth: 10,
			UndoLimit:    3,
			BreakLimit:   3,
		},
		Campaign: CampaignConfig{
			Spawn4Scale: 1.0,
		},
		Animation: AnimationConfig{
			Enabled:         true,
			SlideTicks:      8,
			PopTicks:        6,
			LevelClearTicks: 120, // 2 seconds at 60fps
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/scores.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.t2048/t2048.log",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultT2048YAML
}
