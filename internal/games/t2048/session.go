package t2048

import (
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Rules are the tunable limits of a game.
type Rules struct {
	Spawn4Prob   float64 // Probability of spawning a 4 instead of a 2
	HistoryDepth int     // Undo checkpoints kept, oldest evicted first
	UndoLimit    int     // Undo uses per game
	BreakLimit   int     // Break uses per game
}

// DefaultRules returns the classic limits.
func DefaultRules() Rules {
	return Rules{
		Spawn4Prob:   0.10,
		HistoryDepth: 10,
		UndoLimit:    3,
		BreakLimit:   3,
	}
}

func (r Rules) normalized() Rules {
	def := DefaultRules()
	if r.Spawn4Prob < 0 {
		r.Spawn4Prob = 0
	}
	if r.Spawn4Prob > 1 {
		r.Spawn4Prob = 1
	}
	if r.HistoryDepth <= 0 {
		r.HistoryDepth = def.HistoryDepth
	}
	r.UndoLimit = max(r.UndoLimit, 0)
	r.BreakLimit = max(r.BreakLimit, 0)
	return r
}

// Checkpoint is a saved pre-move state used by Undo.
type Checkpoint struct {
	Board Board
	Score int
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Rules     Rules
	Seed      int64
	Persister *Persister  // nil keeps the game in memory only
	Logger    *log.Logger // nil discards log output
}

// SessionSnapshot is a read-only copy of the session state.
type SessionSnapshot struct {
	Board          Board
	Score          int
	HighScore      int
	HistoryDepth   int
	UndoUsed       int
	UndoRemaining  int
	BreakUsed      int
	BreakRemaining int
	BreakMode      bool
	GameOver       bool
	Level          int
}

// Session owns one player's game: board, score, undo history and the
// undo and break allowances. All mutation goes through its methods and
// listeners are notified once each operation has completed.
// A Session is not safe for concurrent use.
type Session struct {
	rules      Rules
	rng        *rand.Rand
	persister  *Persister
	persistOff bool
	log        *log.Logger

	listeners []Listener
	pending   []Event

	board     Board
	score     int
	highScore int
	startHigh int // Best score when the current game began
	beaten    bool
	history   []Checkpoint
	undoUsed  int
	breakUsed int
	breakMode bool
	gameOver  bool
	level     int // 0 in classic mode, 1-indexed in campaign
}

// NewSession creates a session with an empty board.
// Call Resume or NewGame before playing.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		rules:     cfg.Rules.normalized(),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		persister: cfg.Persister,
		log:       logger,
	}
}

// Subscribe registers a listener for all future events.
func (s *Session) Subscribe(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

func (s *Session) emit(e Event) {
	s.pending = append(s.pending, e)
}

// flush delivers queued events. Listeners see the final state of the
// operation that produced them.
func (s *Session) flush() {
	for len(s.pending) > 0 {
		events := s.pending
		s.pending = nil
		for _, e := range events {
			for _, l := range s.listeners {
				l(e)
			}
		}
	}
}

// Rules returns the active limits.
func (s *Session) Rules() Rules { return s.rules }

// Board returns a copy of the board.
func (s *Session) Board() Board { return s.board }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// HighScore returns the best score seen so far.
func (s *Session) HighScore() int { return s.highScore }

// GameOver reports whether the current game has ended.
func (s *Session) GameOver() bool { return s.gameOver }

// BreakMode reports whether break mode is active.
func (s *Session) BreakMode() bool { return s.breakMode }

// Level returns the campaign level, 0 in classic mode.
func (s *Session) Level() int { return s.level }

// SetLevel changes the campaign level and saves the game if one is running.
func (s *Session) SetLevel(level int) {
	s.level = level
	if !s.gameOver && MaxTile(s.board) > 0 {
		s.save()
	}
}

// SetSpawn4Prob overrides the spawn probability of a 4.
func (s *Session) SetSpawn4Prob(p float64) {
	s.rules.Spawn4Prob = p
	s.rules = s.rules.normalized()
}

// Resume loads the saved game. It returns true when a game was restored;
// otherwise a new game has been started. Storage problems are logged and
// never returned.
func (s *Session) Resume() bool {
	if hs, err := s.persister.LoadHighScore(); err != nil {
		s.storageFailed("load high score", err)
	} else {
		s.highScore = hs
	}

	st, err := s.persister.LoadState()
	switch {
	case errors.Is(err, ErrNoSnapshot):
	case err != nil:
		s.storageFailed("load snapshot", err)
		s.discardState()
	default:
		if err := s.Restore(st); err != nil {
			s.log.Warn("discarding saved game", "key", s.persister.StateKey(), "err", err)
			s.discardState()
			break
		}
		if IsTerminal(s.board) {
			s.log.Debug("saved game is already over, starting fresh")
			s.discardState()
			break
		}
		return true
	}

	s.NewGame()
	return false
}

// Restore replaces the session state with a persisted record.
// Malformed records are rejected and leave the session untouched.
func (s *Session) Restore(p PersistedState) error {
	if err := p.Validate(s.rules); err != nil {
		return err
	}

	board, _ := rowsToBoard(p.Board)
	history := make([]Checkpoint, 0, len(p.UndoStack))
	for _, cp := range p.UndoStack {
		b, _ := rowsToBoard(cp.Board)
		history = append(history, Checkpoint{Board: b, Score: cp.Score})
	}

	s.board = board
	s.score = p.Score
	s.highScore = max(s.highScore, p.HighScore, p.Score)
	s.startHigh = s.highScore
	s.beaten = false
	s.history = history
	s.undoUsed = p.UndoUsed
	s.breakUsed = p.BreakUsed
	s.breakMode = false
	s.gameOver = false
	s.level = p.Level
	return nil
}

// NewGame clears the board and counters and spawns two tiles.
// The high score and campaign level are kept.
func (s *Session) NewGame() {
	s.board = Board{}
	s.score = 0
	s.history = nil
	s.undoUsed = 0
	s.breakUsed = 0
	s.breakMode = false
	s.gameOver = false
	s.beaten = false
	s.startHigh = s.highScore

	s.spawnTile()
	s.spawnTile()
	s.save()

	s.emit(NewGameStarted{Board: s.board})
	s.flush()
}

// SpawnTile places a 2 or a 4 on a random empty cell.
// On a full board it does nothing and returns false.
func (s *Session) SpawnTile() (Cell, int, bool) {
	c, v, ok := s.spawnTile()
	if ok {
		s.save()
	}
	s.flush()
	return c, v, ok
}

func (s *Session) spawnTile() (Cell, int, bool) {
	empty := EmptyCells(s.board)
	if len(empty) == 0 {
		return Cell{}, 0, false
	}

	cell := empty[s.rng.Intn(len(empty))]
	value := 2
	if s.rng.Float64() < s.rules.Spawn4Prob {
		value = 4
	}
	s.board[cell.Row][cell.Col] = value

	s.emit(TileSpawned{Cell: cell, Value: value})
	return cell, value, true
}

// RecordUndoCheckpoint pushes the current board and score onto the undo
// history, evicting the oldest entry beyond the configured depth.
func (s *Session) RecordUndoCheckpoint() {
	s.history = append(s.history, Checkpoint{Board: s.board, Score: s.score})
	if over := len(s.history) - s.rules.HistoryDepth; over > 0 {
		s.history = append([]Checkpoint(nil), s.history[over:]...)
	}
}

// Undo restores the most recent checkpoint. It is a no-op when the
// history is empty, the undo allowance is spent, or the game is over.
func (s *Session) Undo() bool {
	if s.gameOver || len(s.history) == 0 || s.undoUsed >= s.rules.UndoLimit {
		return false
	}

	last := len(s.history) - 1
	cp := s.history[last]
	s.history = s.history[:last]
	s.board = cp.Board
	s.score = cp.Score
	s.undoUsed++
	s.save()

	s.emit(UndoApplied{Board: s.board, Score: s.score, Remaining: s.rules.UndoLimit - s.undoUsed})
	s.flush()
	return true
}

// BreakTile empties a non-empty cell without changing the score.
func (s *Session) BreakTile(row, col int) bool {
	cell := Cell{Row: row, Col: col}
	if s.gameOver || s.breakUsed >= s.rules.BreakLimit || !cell.InBounds() {
		return false
	}
	value := s.board[row][col]
	if value == 0 {
		return false
	}

	s.board[row][col] = 0
	s.breakUsed++
	s.emit(TileBroken{Cell: cell, Value: value, Remaining: s.rules.BreakLimit - s.breakUsed})

	// A board without tiles could never move again.
	if MaxTile(s.board) == 0 {
		s.spawnTile()
	}
	s.save()
	s.flush()
	return true
}

// IsTerminal reports whether no move can change the board.
func (s *Session) IsTerminal() bool {
	return IsTerminal(s.board)
}

// Move applies a direction. A move that changes nothing is rejected and
// leaves the session untouched. An accepted move checkpoints the previous
// state, adds the merge score, spawns a tile and checks for game over.
func (s *Session) Move(dir Direction) MoveResult {
	if s.gameOver {
		return MoveResult{Board: s.board}
	}

	res := ApplyMove(s.board, dir)
	if !res.Moved {
		s.emit(MoveRejected{Direction: dir})
		s.flush()
		return res
	}

	s.RecordUndoCheckpoint()
	s.board = res.Board
	s.score += res.ScoreDelta
	s.raiseHighScore()

	if len(res.Merges) > 0 {
		s.emit(TilesMerged{Merges: res.Merges, ScoreDelta: res.ScoreDelta})
	}
	s.spawnTile()

	if IsTerminal(s.board) {
		s.finish()
	} else {
		s.save()
	}

	s.flush()
	return res
}

// Finish ends the current game as if the board had locked up.
func (s *Session) Finish() {
	if s.gameOver {
		return
	}
	s.finish()
	s.flush()
}

func (s *Session) finish() {
	s.gameOver = true
	if s.breakMode {
		s.breakMode = false
		s.emit(BreakModeChanged{Active: false})
	}
	s.saveHighScore()
	s.discardState()
	s.emit(GameOver{Score: s.score, MaxTile: MaxTile(s.board), HighScore: s.highScore})
}

func (s *Session) raiseHighScore() {
	if s.score <= s.highScore {
		return
	}
	s.highScore = s.score
	if !s.beaten && s.startHigh > 0 {
		s.beaten = true
		s.emit(HighScoreBeaten{Previous: s.startHigh, Score: s.score})
	}
	s.saveHighScore()
}

// OnDirectionalInput handles a direction from the presentation layer.
// Directions are ignored while break mode is active.
func (s *Session) OnDirectionalInput(dir Direction) MoveResult {
	if s.breakMode {
		return MoveResult{Board: s.board}
	}
	return s.Move(dir)
}

// OnTileSelected breaks the selected tile when break mode is active.
// A successful break leaves break mode.
func (s *Session) OnTileSelected(row, col int) bool {
	if !s.breakMode {
		return false
	}
	if !s.BreakTile(row, col) {
		return false
	}
	s.breakMode = false
	s.emit(BreakModeChanged{Active: false})
	s.flush()
	return true
}

// OnNewGameRequested starts a new game.
func (s *Session) OnNewGameRequested() {
	s.NewGame()
}

// OnUndoRequested undoes the last move if allowed.
func (s *Session) OnUndoRequested() bool {
	return s.Undo()
}

// OnBreakModeRequested toggles break mode. Entering requires a remaining
// break use; the use is spent only when a tile is actually broken.
func (s *Session) OnBreakModeRequested() bool {
	if s.gameOver {
		return false
	}
	if s.breakMode {
		s.breakMode = false
	} else {
		if s.breakUsed >= s.rules.BreakLimit {
			return false
		}
		s.breakMode = true
	}
	s.emit(BreakModeChanged{Active: s.breakMode})
	s.flush()
	return s.breakMode
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		Board:          s.board,
		Score:          s.score,
		HighScore:      s.highScore,
		HistoryDepth:   len(s.history),
		UndoUsed:       s.undoUsed,
		UndoRemaining:  s.rules.UndoLimit - s.undoUsed,
		BreakUsed:      s.breakUsed,
		BreakRemaining: s.rules.BreakLimit - s.breakUsed,
		BreakMode:      s.breakMode,
		GameOver:       s.gameOver,
		Level:          s.level,
	}
}

// History returns a copy of the undo checkpoints, oldest first.
func (s *Session) History() []Checkpoint {
	return append([]Checkpoint(nil), s.history...)
}

// Persisted returns the record written to storage.
func (s *Session) Persisted() PersistedState {
	st := PersistedState{
		Board:     boardToRows(s.board),
		Score:     s.score,
		HighScore: s.highScore,
		UndoStack: make([]PersistedCheckpoint, 0, len(s.history)),
		UndoUsed:  s.undoUsed,
		BreakUsed: s.breakUsed,
		Level:     s.level,
	}
	for _, cp := range s.history {
		st.UndoStack = append(st.UndoStack, PersistedCheckpoint{Board: boardToRows(cp.Board), Score: cp.Score})
	}
	return st
}

func (s *Session) writable() bool {
	return !s.persistOff && s.persister.Enabled()
}

func (s *Session) save() {
	if !s.writable() {
		return
	}
	if err := s.persister.SaveState(s.Persisted()); err != nil {
		s.storageFailed("save snapshot", err)
	}
}

func (s *Session) saveHighScore() {
	if !s.writable() {
		return
	}
	best, err := s.persister.SaveHighScore(s.highScore)
	if err != nil {
		s.storageFailed("save high score", err)
		return
	}
	s.highScore = max(s.highScore, best)
}

func (s *Session) discardState() {
	if !s.writable() {
		return
	}
	if err := s.persister.ClearState(); err != nil {
		s.storageFailed("clear snapshot", err)
	}
}

// storageFailed logs a storage error. Once the store is unavailable the
// session stops writing to it and continues in memory.
func (s *Session) storageFailed(op string, err error) {
	if errors.Is(err, ErrStorageUnavailable) {
		if !s.persistOff {
			s.log.Warn("storage unavailable, continuing in memory", "op", op, "err", err)
		}
		s.persistOff = true
		return
	}
	s.log.Warn("ignoring bad saved data", "op", op, "err", err)
}
