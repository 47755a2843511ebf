package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateBreakMode    GameStateType = "break_mode"
	StateAnimating    GameStateType = "animating"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "classic" or "campaign"
	Level     int    // Current level (1-indexed), 0 for classic
	Target    int    // Current target tile value
	Score     int
	HighScore int
	Board     Board
	MaxTile   int // Highest tile on board
	UndoLeft  int
	BreakLeft int
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Mode: string(g.mode), State: StatePlaying}
	}
	s := g.session.Snapshot()

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case s.GameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.levelCleared:
		state = StateLevelCleared
	case g.anim.busy():
		state = StateAnimating
	case s.BreakMode:
		state = StateBreakMode
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Level:     s.Level,
		Target:    g.Target(),
		Score:     s.Score,
		HighScore: s.HighScore,
		Board:     s.Board,
		MaxTile:   MaxTile(s.Board),
		UndoLeft:  s.UndoRemaining,
		BreakLeft: s.BreakRemaining,
		State:     state,
	}
}
