package t2048

// Event is a notification emitted by a Session or Game after its state
// changed. The set of events is closed to this package.
type Event interface {
	gameEvent()
}

// Listener receives events synchronously, after the mutation completed.
type Listener func(Event)

// NewGameStarted is emitted once a fresh board with two tiles is ready.
type NewGameStarted struct {
	Board Board
}

func (NewGameStarted) gameEvent() {}

// TileSpawned is emitted when a random tile is placed on the board.
type TileSpawned struct {
	Cell  Cell
	Value int
}

func (TileSpawned) gameEvent() {}

// TilesMerged is emitted after an accepted move that merged at least one pair.
type TilesMerged struct {
	Merges     []MergeEvent
	ScoreDelta int
}

func (TilesMerged) gameEvent() {}

// MoveRejected is emitted when a direction would not change the board.
type MoveRejected struct {
	Direction Direction
}

func (MoveRejected) gameEvent() {}

// GameOver is emitted when the board reaches a terminal state.
type GameOver struct {
	Score     int
	MaxTile   int
	HighScore int
}

func (GameOver) gameEvent() {}

// UndoApplied is emitted after a checkpoint was restored.
type UndoApplied struct {
	Board     Board
	Score     int
	Remaining int // Undo uses left in this game
}

func (UndoApplied) gameEvent() {}

// TileBroken is emitted after a tile was removed in break mode.
type TileBroken struct {
	Cell      Cell
	Value     int
	Remaining int // Break uses left in this game
}

func (TileBroken) gameEvent() {}

// BreakModeChanged is emitted when break mode is entered or left.
type BreakModeChanged struct {
	Active bool
}

func (BreakModeChanged) gameEvent() {}

// HighScoreBeaten is emitted the first time a game's score passes the
// previous best.
type HighScoreBeaten struct {
	Previous int
	Score    int
}

func (HighScoreBeaten) gameEvent() {}

// LevelCleared is emitted in campaign mode when the level target is reached.
type LevelCleared struct {
	Level  int // 1-indexed
	Target int
}

func (LevelCleared) gameEvent() {}

// CampaignWon is emitted after the final campaign level is cleared.
type CampaignWon struct {
	Score   int
	MaxTile int
}

func (CampaignWon) gameEvent() {}

// EventName returns a short stable name for logging.
func EventName(e Event) string {
	switch e.(type) {
	case NewGameStarted:
		return "new_game"
	case TileSpawned:
		return "tile_spawned"
	case TilesMerged:
		return "tiles_merged"
	case MoveRejected:
		return "move_rejected"
	case GameOver:
		return "game_over"
	case UndoApplied:
		return "undo"
	case TileBroken:
		return "tile_broken"
	case BreakModeChanged:
		return "break_mode"
	case HighScoreBeaten:
		return "high_score"
	case LevelCleared:
		return "level_cleared"
	case CampaignWon:
		return "campaign_won"
	default:
		return "unknown"
	}
}
