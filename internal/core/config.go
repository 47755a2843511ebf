package core

import "time"

// DefaultTickRate is the simulation rate used when none is configured.
const DefaultTickRate = 60

// RuntimeConfig describes the terminal a game runs in.
type RuntimeConfig struct {
	ScreenW  int   // Columns
	ScreenH  int   // Rows
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 picks one from the clock
}

// DefaultConfig returns the config of a classic 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// WithDefaults fills in the tick rate and seed when they are unset.
func (c RuntimeConfig) WithDefaults() RuntimeConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// GameState is what the front end needs to know about a running game.
type GameState struct {
	Score     int
	HighScore int
	GameOver  bool // Locked board or finished campaign
	Paused    bool // Also set while the terminal is too small
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
