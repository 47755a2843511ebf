// Package config provides YAML-based configuration loading and difficulty
// presets for the 2048 game.
package config

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Rules     RulesConfig     `yaml:"rules"`
	Campaign  CampaignConfig  `yaml:"campaign"`
	Animation AnimationConfig `yaml:"animation"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// RulesConfig defines the per-game limits.
type RulesConfig struct {
	Spawn4Prob   float64 `yaml:"spawn4_prob"`   // Probability of spawning a 4 instead of a 2
	HistoryDepth int     `yaml:"history_depth"` // Undo checkpoints kept
	UndoLimit    int     `yaml:"undo_limit"`    // Undo uses per game
	BreakLimit   int     `yaml:"break_limit"`   // Break uses per game
}

// CampaignConfig tunes campaign levels.
type CampaignConfig struct {
	Spawn4Scale float64 `yaml:"spawn4_scale"` // Multiplies each level's spawn-4 probability
}

// AnimationConfig defines animation lengths in ticks.
type AnimationConfig struct {
	Enabled         bool `yaml:"enabled"`
	SlideTicks      int  `yaml:"slide_ticks"`
	PopTicks        int  `yaml:"pop_ticks"`
	LevelClearTicks int  `yaml:"level_clear_ticks"`
}

// StorageConfig defines where scores and saved games live.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file used while the TUI owns the terminal
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)
