package t2048

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// recorder collects events emitted by a session.
type recorder struct {
	events []Event
}

func (r *recorder) listen(e Event) { r.events = append(r.events, e) }

func (r *recorder) names() []string {
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = EventName(e)
	}
	return names
}

func (r *recorder) reset() { r.events = nil }

func newTestSession(t *testing.T, rules Rules, kv storage.KV) (*Session, *recorder) {
	t.Helper()
	var p *Persister
	if kv != nil {
		p = NewPersister(kv, "2048")
	}
	s := NewSession(SessionConfig{Rules: rules, Seed: 42, Persister: p})
	rec := &recorder{}
	s.Subscribe(rec.listen)
	return s, rec
}

func countTiles(b Board) int {
	n := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x] != 0 {
				n++
			}
		}
	}
	return n
}

// nearlyLocked turns terminal after moving right and spawning a 2 at (3,0).
var nearlyLocked = Board{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{8, 4, 2, 8},
	{16, 8, 4, 0},
}

var checkerboard = Board{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
}

func TestNewGameSpawnsTwoTiles(t *testing.T) {
	s, rec := newTestSession(t, DefaultRules(), nil)
	s.NewGame()

	board := s.Board()
	if n := countTiles(board); n != 2 {
		t.Fatalf("new game has %d tiles, want 2", n)
	}
	for y := range BoardSize {
		for x := range BoardSize {
			if v := board[y][x]; v != 0 && v != 2 && v != 4 {
				t.Errorf("unexpected tile %d at (%d,%d)", v, y, x)
			}
		}
	}
	if s.Score() != 0 {
		t.Errorf("Score = %d, want 0", s.Score())
	}

	want := []string{"tile_spawned", "tile_spawned", "new_game"}
	if diff := cmp.Diff(want, rec.names()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDeterministicSpawn(t *testing.T) {
	// The same seed produces the same sequence of spawns
	a, _ := newTestSession(t, DefaultRules(), nil)
	b, _ := newTestSession(t, DefaultRules(), nil)
	a.NewGame()
	b.NewGame()

	if a.Board() != b.Board() {
		t.Errorf("Same seed should produce same initial board:\n%v\nvs\n%v", a.Board(), b.Board())
	}
}

func TestSpawnTileFullBoard(t *testing.T) {
	s, rec := newTestSession(t, DefaultRules(), nil)
	s.board = checkerboard

	if _, _, ok := s.SpawnTile(); ok {
		t.Error("SpawnTile on a full board should fail")
	}
	if s.Board() != checkerboard {
		t.Error("full board must not change")
	}
	if len(rec.events) != 0 {
		t.Errorf("no event expected, got %v", rec.names())
	}
}

func TestSpawnTileProbability(t *testing.T) {
	tests := []struct {
		name string
		prob float64
		want int
	}{
		{"always two", 0, 2},
		{"always four", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			rules.Spawn4Prob = tt.prob
			s, _ := newTestSession(t, rules, nil)

			for range BoardSize * BoardSize {
				cell, v, ok := s.SpawnTile()
				if !ok {
					t.Fatal("board filled too early")
				}
				if v != tt.want || s.board[cell.Row][cell.Col] != tt.want {
					t.Fatalf("spawned %d, want %d", v, tt.want)
				}
			}
			if HasEmptyCell(s.Board()) {
				t.Error("sixteen spawns should fill the board")
			}
		})
	}
}

func TestSpawnTileDistribution(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)

	const rounds = 4000
	fours := 0
	seen := map[Cell]int{}
	for range rounds {
		s.board = Board{}
		cell, v, ok := s.SpawnTile()
		if !ok {
			t.Fatal("spawn on an empty board failed")
		}
		if v == 4 {
			fours++
		}
		seen[cell]++
	}

	share := float64(fours) / rounds
	if share < 0.07 || share > 0.13 {
		t.Errorf("share of 4s = %.3f, want about 0.10", share)
	}
	if len(seen) != BoardSize*BoardSize {
		t.Fatalf("spawned on %d cells, want all %d", len(seen), BoardSize*BoardSize)
	}
	// Each cell expects 250 hits
	for c, n := range seen {
		if n < 150 || n > 350 {
			t.Errorf("cell %+v chosen %d times, want about %d", c, n, rounds/(BoardSize*BoardSize))
		}
	}
}

func TestSpawnTileOnlyEmptyCells(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	free := map[Cell]bool{{Row: 1, Col: 2}: true, {Row: 3, Col: 0}: true}

	seen := map[Cell]bool{}
	for range 200 {
		s.board = checkerboard
		for c := range free {
			s.board[c.Row][c.Col] = 0
		}
		cell, _, ok := s.SpawnTile()
		if !ok || !free[cell] {
			t.Fatalf("spawned at %+v, want one of %v", cell, free)
		}
		seen[cell] = true
	}
	if len(seen) != len(free) {
		t.Errorf("only %v chosen out of %v", seen, free)
	}
}

func TestMoveAccepted(t *testing.T) {
	s, rec := newTestSession(t, DefaultRules(), nil)
	s.board = Board{{2, 2, 0, 0}}
	s.score = 10

	res := s.Move(DirLeft)
	if !res.Moved || res.ScoreDelta != 4 {
		t.Fatalf("Move = %+v, want moved with +4", res)
	}
	if s.Score() != 14 {
		t.Errorf("Score = %d, want 14", s.Score())
	}
	if s.board[0][0] != 4 {
		t.Errorf("merged tile missing, board %v", s.board)
	}
	if n := countTiles(s.Board()); n != 2 {
		t.Errorf("board has %d tiles, want merged tile plus spawn", n)
	}

	hist := s.History()
	want := []Checkpoint{{Board: Board{{2, 2, 0, 0}}, Score: 10}}
	if diff := cmp.Diff(want, hist); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"tiles_merged", "tile_spawned"}, rec.names()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	merged := rec.events[0].(TilesMerged)
	if merged.ScoreDelta != 4 || len(merged.Merges) != 1 {
		t.Errorf("TilesMerged = %+v", merged)
	}
}

func TestMoveRejected(t *testing.T) {
	kv := storage.NewMemory()
	s, rec := newTestSession(t, DefaultRules(), kv)
	s.board = Board{{2, 4, 0, 0}}
	s.score = 8

	res := s.Move(DirLeft)
	if res.Moved {
		t.Fatal("move should be rejected")
	}
	if s.Board() != (Board{{2, 4, 0, 0}}) || s.Score() != 8 {
		t.Errorf("rejected move changed state: %v score %d", s.Board(), s.Score())
	}
	if len(s.History()) != 0 {
		t.Error("rejected move must not record a checkpoint")
	}
	if _, ok, _ := kv.Get("2048:state"); ok {
		t.Error("rejected move must not persist")
	}

	if len(rec.events) != 1 {
		t.Fatalf("events = %v, want one MoveRejected", rec.names())
	}
	if ev, ok := rec.events[0].(MoveRejected); !ok || ev.Direction != DirLeft {
		t.Errorf("event = %#v", rec.events[0])
	}
}

func TestUndoRestoresExactState(t *testing.T) {
	s, rec := newTestSession(t, DefaultRules(), nil)
	s.NewGame()
	s.board = Board{
		{2, 2, 4, 0},
		{0, 8, 0, 8},
		{0, 0, 0, 0},
		{4, 0, 0, 0},
	}
	s.score = 120
	before := s.Board()

	if !s.Move(DirLeft).Moved {
		t.Fatal("move should be accepted")
	}
	rec.reset()

	if !s.Undo() {
		t.Fatal("Undo should succeed")
	}
	if s.Board() != before {
		t.Errorf("Undo board:\n%v\nwant\n%v", s.Board(), before)
	}
	if s.Score() != 120 {
		t.Errorf("Undo score = %d, want 120", s.Score())
	}

	if len(rec.events) != 1 {
		t.Fatalf("events = %v", rec.names())
	}
	ev := rec.events[0].(UndoApplied)
	if ev.Remaining != 2 || ev.Score != 120 {
		t.Errorf("UndoApplied = %+v", ev)
	}

	// History is now empty
	if s.Undo() {
		t.Error("Undo on empty history should be a no-op")
	}
}

func TestUndoLimit(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	for i := range 5 {
		s.score = i * 10
		s.RecordUndoCheckpoint()
	}

	for i := range 3 {
		if !s.Undo() {
			t.Fatalf("undo %d should succeed", i+1)
		}
	}
	if s.Undo() {
		t.Error("fourth undo should be refused")
	}
	if got := s.Snapshot().UndoRemaining; got != 0 {
		t.Errorf("UndoRemaining = %d, want 0", got)
	}
	// Checkpoints hold scores 0..40; three pops restore 20
	if s.Score() != 20 {
		t.Errorf("Score = %d, want 20", s.Score())
	}
}

func TestUndoDoesNotLowerHighScore(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	s.board = Board{{64, 64, 0, 0}}

	s.Move(DirLeft)
	if s.HighScore() != 128 {
		t.Fatalf("HighScore = %d, want 128", s.HighScore())
	}
	s.Undo()
	if s.Score() != 0 || s.HighScore() != 128 {
		t.Errorf("after undo score %d best %d, want 0 and 128", s.Score(), s.HighScore())
	}
}

func TestRecordUndoCheckpointEvictsOldest(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	for i := range 12 {
		s.score = i
		s.RecordUndoCheckpoint()
	}

	hist := s.History()
	if len(hist) != 10 {
		t.Fatalf("history length = %d, want 10", len(hist))
	}
	if hist[0].Score != 2 || hist[9].Score != 11 {
		t.Errorf("history spans %d..%d, want 2..11", hist[0].Score, hist[9].Score)
	}
}

func TestCheckpointIsDeepCopy(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	s.board = Board{{2}}
	s.RecordUndoCheckpoint()
	s.board[0][0] = 1024

	if got := s.History()[0].Board[0][0]; got != 2 {
		t.Errorf("checkpoint aliased the live board: %d", got)
	}
}

func TestBreakTile(t *testing.T) {
	s, rec := newTestSession(t, DefaultRules(), nil)
	s.board = Board{
		{2, 0, 0, 0},
		{0, 8, 0, 0},
		{0, 0, 4, 0},
		{0, 0, 0, 16},
	}
	s.score = 50

	if s.BreakTile(0, 1) {
		t.Error("breaking an empty cell should fail")
	}
	if s.BreakTile(-1, 0) || s.BreakTile(0, BoardSize) {
		t.Error("breaking out of bounds should fail")
	}

	if !s.BreakTile(1, 1) {
		t.Fatal("BreakTile(1,1) should succeed")
	}
	if s.board[1][1] != 0 || s.Score() != 50 {
		t.Errorf("after break board %v score %d", s.board, s.Score())
	}
	ev := rec.events[0].(TileBroken)
	if ev.Value != 8 || ev.Remaining != 2 {
		t.Errorf("TileBroken = %+v", ev)
	}

	s.BreakTile(0, 0)
	s.BreakTile(2, 2)
	if s.BreakTile(3, 3) {
		t.Error("fourth break should be refused")
	}
	if s.board[3][3] != 16 {
		t.Error("refused break must not change the board")
	}
}

func TestBreakLastTileRespawns(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	s.board = Board{{0, 0, 32, 0}}

	if !s.BreakTile(0, 2) {
		t.Fatal("break should succeed")
	}
	if countTiles(s.Board()) != 1 {
		t.Errorf("empty board should get a fresh tile, got %v", s.Board())
	}
}

func TestBreakModeFlow(t *testing.T) {
	s, rec := newTestSession(t, DefaultRules(), nil)
	s.board = Board{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 8},
	}

	if s.OnTileSelected(0, 0) {
		t.Error("selection outside break mode should be ignored")
	}

	if !s.OnBreakModeRequested() {
		t.Fatal("entering break mode should succeed")
	}
	if ev := rec.events[len(rec.events)-1].(BreakModeChanged); !ev.Active {
		t.Error("expected BreakModeChanged{Active: true}")
	}

	// Directions are ignored while selecting
	before := s.Board()
	if s.OnDirectionalInput(DirRight).Moved || s.Board() != before {
		t.Error("directions must not move tiles in break mode")
	}

	if s.OnTileSelected(1, 1) {
		t.Error("selecting an empty cell should fail")
	}
	if !s.BreakMode() {
		t.Error("a failed selection keeps break mode")
	}
	if s.Snapshot().BreakUsed != 0 {
		t.Error("entering break mode must not spend a use")
	}

	if !s.OnTileSelected(0, 1) {
		t.Fatal("selecting a tile should break it")
	}
	if s.BreakMode() {
		t.Error("a successful break leaves break mode")
	}
	if s.board[0][1] != 0 || s.Snapshot().BreakUsed != 1 {
		t.Errorf("board %v used %d", s.board, s.Snapshot().BreakUsed)
	}

	// Toggling off without breaking costs nothing
	s.OnBreakModeRequested()
	s.OnBreakModeRequested()
	if s.BreakMode() || s.Snapshot().BreakUsed != 1 {
		t.Error("toggle off should leave break mode unchanged in cost")
	}

	s.breakUsed = s.rules.BreakLimit
	if s.OnBreakModeRequested() {
		t.Error("break mode needs a remaining use")
	}
}

func TestGameOver(t *testing.T) {
	rules := DefaultRules()
	rules.Spawn4Prob = 0
	kv := storage.NewMemory()
	s, rec := newTestSession(t, rules, kv)
	s.board = nearlyLocked
	s.score = 300

	// A stale snapshot must be cleared on game over
	kv.Put("2048:state", "{}")

	res := s.Move(DirRight)
	if !res.Moved {
		t.Fatal("move right should be accepted")
	}
	if !s.GameOver() || !s.IsTerminal() {
		t.Fatalf("expected game over, board %v", s.Board())
	}

	last := rec.events[len(rec.events)-1]
	over, ok := last.(GameOver)
	if !ok {
		t.Fatalf("last event = %#v, want GameOver", last)
	}
	if over.Score != 300 || over.MaxTile != 16 || over.HighScore != 300 {
		t.Errorf("GameOver = %+v", over)
	}

	if _, ok, _ := kv.Get("2048:state"); ok {
		t.Error("snapshot should be cleared on game over")
	}
	if v, _, _ := kv.Get("2048:highScore"); v != "300" {
		t.Errorf("high score key = %q, want 300", v)
	}

	// Everything but a new game is refused
	rec.reset()
	if s.Undo() || s.BreakTile(0, 0) || s.OnBreakModeRequested() {
		t.Error("undo and break must be refused after game over")
	}
	if s.Move(DirLeft).Moved {
		t.Error("moves must be refused after game over")
	}
	if len(rec.events) != 0 {
		t.Errorf("no events expected after game over, got %v", rec.names())
	}

	s.OnNewGameRequested()
	if s.GameOver() || countTiles(s.Board()) != 2 {
		t.Error("new game should reset the session")
	}
	if s.HighScore() != 300 {
		t.Errorf("new game keeps the high score, got %d", s.HighScore())
	}
}

func TestHighScoreBeatenOnce(t *testing.T) {
	kv := storage.NewMemory()
	kv.Put("2048:highScore", "4")
	s, rec := newTestSession(t, DefaultRules(), kv)

	if s.Resume() {
		t.Fatal("nothing to resume")
	}
	if s.HighScore() != 4 {
		t.Fatalf("HighScore = %d, want 4", s.HighScore())
	}

	s.board = Board{{8, 8, 0, 0}, {0, 0, 0, 0}, {2, 2, 0, 0}}
	rec.reset()
	s.Move(DirLeft)
	s.board[3] = [BoardSize]int{4, 4, 0, 0}
	s.Move(DirRight)

	beaten := 0
	for _, e := range rec.events {
		if hb, ok := e.(HighScoreBeaten); ok {
			beaten++
			if hb.Previous != 4 || hb.Score != 20 {
				t.Errorf("HighScoreBeaten = %+v", hb)
			}
		}
	}
	if beaten != 1 {
		t.Errorf("HighScoreBeaten emitted %d times, want 1", beaten)
	}

	want := s.Score()
	if v, _, _ := kv.Get("2048:highScore"); v == "" || s.HighScore() != want {
		t.Errorf("high score key %q, best %d, score %d", v, s.HighScore(), want)
	}
}

func TestSnapshotCounters(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	s.NewGame()

	got := s.Snapshot()
	want := SessionSnapshot{
		Board:          s.Board(),
		UndoRemaining:  3,
		BreakRemaining: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRulesNormalized(t *testing.T) {
	s := NewSession(SessionConfig{Rules: Rules{Spawn4Prob: 2, HistoryDepth: 0, UndoLimit: -1, BreakLimit: 5}})
	got := s.Rules()
	want := Rules{Spawn4Prob: 1, HistoryDepth: 10, UndoLimit: 0, BreakLimit: 5}
	if got != want {
		t.Errorf("Rules = %+v, want %+v", got, want)
	}
}

func TestEventsSeeFinalState(t *testing.T) {
	s := NewSession(SessionConfig{Rules: DefaultRules(), Seed: 7})
	s.board = Board{{2, 2, 0, 0}}

	var scores []int
	s.Subscribe(func(e Event) {
		scores = append(scores, s.Score())
	})
	s.Move(DirLeft)

	for i, sc := range scores {
		if sc != 4 {
			t.Errorf("event %d observed score %d, want 4", i, sc)
		}
	}
}

func TestStorageErrorsAreRecovered(t *testing.T) {
	kv := &flakyKV{data: map[string]string{}, failGet: true, failPut: true}
	s, _ := newTestSession(t, DefaultRules(), kv)

	if s.Resume() {
		t.Fatal("resume should fail over to a new game")
	}
	if countTiles(s.Board()) != 2 {
		t.Fatal("a fresh game should still be playable")
	}

	s.board = Board{{2, 2, 0, 0}}
	if !s.Move(DirLeft).Moved {
		t.Error("moves must work without storage")
	}
	if kv.puts != 0 {
		t.Errorf("writes attempted after read failure: %d", kv.puts)
	}
}

func TestStorageWriteFailureStopsWrites(t *testing.T) {
	kv := &flakyKV{data: map[string]string{}, failPut: true}
	s, _ := newTestSession(t, DefaultRules(), kv)

	s.Resume()
	s.board = Board{{2, 2, 0, 0}}
	s.Move(DirLeft)
	s.Undo()

	if kv.puts != 1 {
		t.Errorf("puts = %d, want exactly one failed attempt", kv.puts)
	}
}

type flakyKV struct {
	data    map[string]string
	failGet bool
	failPut bool
	puts    int
}

var errFlaky = errors.New("disk on fire")

func (f *flakyKV) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errFlaky
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *flakyKV) Put(key, value string) error {
	f.puts++
	if f.failPut {
		return errFlaky
	}
	f.data[key] = value
	return nil
}

func (f *flakyKV) Delete(key string) error {
	if f.failPut {
		return errFlaky
	}
	delete(f.data, key)
	return nil
}
