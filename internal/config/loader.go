package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "t2048.yaml"

// LoadT2048 loads the 2048 configuration.
// Search order: customPath -> ~/.t2048/configs/t2048.yaml -> ./configs/t2048.yaml -> embedded default
// Fields missing from the chosen file keep their default values.
func LoadT2048(customPath string) (T2048Config, error) {
	cfg := DefaultT2048Config()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return Normalize(cfg), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return Normalize(cfg), nil
			}
			cfg = DefaultT2048Config()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return Normalize(cfg), nil
		}
		cfg = DefaultT2048Config()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultT2048YAML, &cfg); err != nil {
		return DefaultT2048Config(), nil // Fallback to hardcoded if embed fails
	}
	return Normalize(cfg), nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "configs", filename)
}

// Normalize replaces out-of-range values with defaults.
func Normalize(cfg T2048Config) T2048Config {
	def := DefaultT2048Config()

	cfg.Rules.Spawn4Prob = clampF(cfg.Rules.Spawn4Prob, 0, 1)
	if cfg.Rules.HistoryDepth <= 0 {
		cfg.Rules.HistoryDepth = def.Rules.HistoryDepth
	}
	if cfg.Rules.UndoLimit < 0 {
		cfg.Rules.UndoLimit = def.Rules.UndoLimit
	}
	if cfg.Rules.BreakLimit < 0 {
		cfg.Rules.BreakLimit = def.Rules.BreakLimit
	}
	if cfg.Campaign.Spawn4Scale <= 0 {
		cfg.Campaign.Spawn4Scale = def.Campaign.Spawn4Scale
	}
	if cfg.Animation.SlideTicks <= 0 {
		cfg.Animation.SlideTicks = def.Animation.SlideTicks
	}
	if cfg.Animation.PopTicks <= 0 {
		cfg.Animation.PopTicks = def.Animation.PopTicks
	}
	if cfg.Animation.LevelClearTicks <= 0 {
		cfg.Animation.LevelClearTicks = def.Animation.LevelClearTicks
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = def.Storage.DBPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	return cfg
}
