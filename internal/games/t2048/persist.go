package t2048

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// ErrStorageUnavailable wraps any read or write failure of the store.
	ErrStorageUnavailable = errors.New("t2048: storage unavailable")
	// ErrMalformedSnapshot is returned for unparseable or out-of-range records.
	ErrMalformedSnapshot = errors.New("t2048: malformed snapshot")
	// ErrNoSnapshot is returned when no game was saved.
	ErrNoSnapshot = errors.New("t2048: no saved game")
)

// PersistedCheckpoint is one undo history entry as stored.
type PersistedCheckpoint struct {
	Board [][]int `json:"board"`
	Score int     `json:"score"`
}

// PersistedState is the stored form of an in-progress game.
type PersistedState struct {
	Board     [][]int               `json:"board"`
	Score     int                   `json:"score"`
	HighScore int                   `json:"highScore"`
	UndoStack []PersistedCheckpoint `json:"undoStack"`
	UndoUsed  int                   `json:"undoUsed"`
	BreakUsed int                   `json:"breakUsed"`
	Level     int                   `json:"level,omitempty"`
}

func boardToRows(b Board) [][]int {
	rows := make([][]int, BoardSize)
	for y := range BoardSize {
		rows[y] = append([]int(nil), b[y][:]...)
	}
	return rows
}

func rowsToBoard(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != BoardSize {
		return b, fmt.Errorf("%w: board has %d rows", ErrMalformedSnapshot, len(rows))
	}
	for y, row := range rows {
		if len(row) != BoardSize {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrMalformedSnapshot, y, len(row))
		}
		copy(b[y][:], row)
	}
	if !ValidBoard(b) {
		return b, fmt.Errorf("%w: board holds a non power of two", ErrMalformedSnapshot)
	}
	return b, nil
}

// Validate checks shape and ranges against the given rules.
func (p PersistedState) Validate(rules Rules) error {
	if _, err := rowsToBoard(p.Board); err != nil {
		return err
	}
	if p.Score < 0 || p.HighScore < 0 {
		return fmt.Errorf("%w: negative score", ErrMalformedSnapshot)
	}
	if p.UndoUsed < 0 || p.UndoUsed > rules.UndoLimit {
		return fmt.Errorf("%w: undo counter %d outside [0,%d]", ErrMalformedSnapshot, p.UndoUsed, rules.UndoLimit)
	}
	if p.BreakUsed < 0 || p.BreakUsed > rules.BreakLimit {
		return fmt.Errorf("%w: break counter %d outside [0,%d]", ErrMalformedSnapshot, p.BreakUsed, rules.BreakLimit)
	}
	if len(p.UndoStack) > rules.HistoryDepth {
		return fmt.Errorf("%w: undo history too deep", ErrMalformedSnapshot)
	}
	for i, cp := range p.UndoStack {
		if _, err := rowsToBoard(cp.Board); err != nil {
			return fmt.Errorf("undo entry %d: %w", i, err)
		}
		if cp.Score < 0 {
			return fmt.Errorf("%w: undo entry %d has negative score", ErrMalformedSnapshot, i)
		}
	}
	if p.Level < 0 || p.Level > LevelCount() {
		return fmt.Errorf("%w: level %d", ErrMalformedSnapshot, p.Level)
	}
	return nil
}

// Persister reads and writes one player's game record in a key-value store.
// A nil store makes every operation a no-op.
type Persister struct {
	kv     storage.KV
	prefix string
}

// NewPersister returns a persister writing keys under prefix.
func NewPersister(kv storage.KV, prefix string) *Persister {
	return &Persister{kv: kv, prefix: prefix}
}

// StateKey is the key holding the JSON snapshot.
func (p *Persister) StateKey() string { return p.prefix + ":state" }

// HighScoreKey is the key holding the scalar best score.
func (p *Persister) HighScoreKey() string { return p.prefix + ":highScore" }

// Enabled reports whether a backing store is attached.
func (p *Persister) Enabled() bool {
	return p != nil && p.kv != nil
}

// LoadState reads the saved game. ErrNoSnapshot means nothing was saved.
func (p *Persister) LoadState() (PersistedState, error) {
	var st PersistedState
	if !p.Enabled() {
		return st, ErrNoSnapshot
	}
	raw, ok, err := p.kv.Get(p.StateKey())
	if err != nil {
		return st, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if !ok {
		return st, ErrNoSnapshot
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return st, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	return st, nil
}

// SaveState writes the game snapshot.
func (p *Persister) SaveState(st PersistedState) error {
	if !p.Enabled() {
		return nil
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("t2048: encode snapshot: %w", err)
	}
	if err := p.kv.Put(p.StateKey(), string(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// ClearState removes the saved game.
func (p *Persister) ClearState() error {
	if !p.Enabled() {
		return nil
	}
	if err := p.kv.Delete(p.StateKey()); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// LoadHighScore reads the best score. A missing key yields 0.
func (p *Persister) LoadHighScore() (int, error) {
	if !p.Enabled() {
		return 0, nil
	}
	raw, ok, err := p.kv.Get(p.HighScoreKey())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: high score %q", ErrMalformedSnapshot, raw)
	}
	return n, nil
}

// SaveHighScore raises the stored best score to score and returns the
// best now stored, which may be higher when another session wrote it.
func (p *Persister) SaveHighScore(score int) (int, error) {
	if !p.Enabled() {
		return score, nil
	}
	if mkv, ok := p.kv.(storage.MaxKV); ok {
		best, err := mkv.PutMax(p.HighScoreKey(), score)
		if err != nil {
			return score, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return best, nil
	}

	stored, err := p.LoadHighScore()
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		return score, err
	case err == nil && stored >= score:
		return stored, nil
	}
	if err := p.kv.Put(p.HighScoreKey(), strconv.Itoa(score)); err != nil {
		return score, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return score, nil
}
