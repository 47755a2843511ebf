package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func newTestModel(t *testing.T, scores *storage.Store) (Model, *t2048.Game) {
	t.Helper()
	env := registry.Env{
		Store:  storage.NewMemory(),
		Owner:  "tester",
		Config: config.DefaultT2048Config(),
	}
	env.Config.Animation.Enabled = false

	game := t2048.New(env)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	m := NewModel(game, cfg, ModelOptions{Scores: scores, Owner: "tester"})
	m.Init()
	return m, game
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, TickMsg(time.Now()))
	return m
}

func restore(t *testing.T, g *t2048.Game, board [][]int, score int) {
	t.Helper()
	if err := g.Session().Restore(t2048.PersistedState{Board: board, Score: score}); err != nil {
		t.Fatalf("restore: %v", err)
	}
}

// cellPosition finds a screen position inside the given board cell.
func cellPosition(t *testing.T, g *t2048.Game, want t2048.Cell) (int, int) {
	t.Helper()
	for y := range 24 {
		for x := range 80 {
			if c, ok := g.CellAt(x, y); ok && c == want {
				return x, y
			}
		}
	}
	t.Fatalf("cell %+v not on screen", want)
	return 0, 0
}

func TestModelMovesOnKey(t *testing.T) {
	m, g := newTestModel(t, nil)
	restore(t, g, [][]int{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = tick(t, m)

	if g.Session().Board()[0][0] != 4 {
		t.Errorf("left not applied, board %v", g.Session().Board())
	}
	if m.State().Score != 4 {
		t.Errorf("score = %d, want 4", m.State().Score)
	}
}

func TestModelRecordsFinishedGame(t *testing.T) {
	store := openTestStore(t)
	m, g := newTestModel(t, store)
	restore(t, g, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{8, 4, 2, 8},
		{16, 8, 4, 0},
	}, 100)

	m, _ = update(t, m, keyRunes("d"))
	m = tick(t, m)
	if !m.State().GameOver {
		t.Fatal("expected game over")
	}

	// Later ticks must not record the same game again
	m = tick(t, m)

	scores, err := store.TopScores(t2048.ClassicID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Fatalf("recorded %d scores, want 1", len(scores))
	}
	if scores[0].Score != 100 || scores[0].Owner != "tester" || scores[0].MaxTile != 16 {
		t.Errorf("recorded %+v", scores[0])
	}

	m, _ = update(t, m, keyRunes("r"))
	m = tick(t, m)
	if m.State().GameOver {
		t.Error("restart should start a new game")
	}
}

func TestModelResizeKeepsBoard(t *testing.T) {
	m, g := newTestModel(t, nil)
	before := g.Session().Board()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = tick(t, m)

	if g.Session().Board() != before {
		t.Error("resize reset the game")
	}
	if !strings.Contains(m.View(), "Score: 0") {
		t.Error("view missing HUD after resize")
	}
}

func TestModelClickBreaksTile(t *testing.T) {
	m, g := newTestModel(t, nil)
	restore(t, g, [][]int{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 8}, {0, 0, 0, 0}}, 0)

	m, _ = update(t, m, keyRunes("x"))
	m = tick(t, m)
	if !g.Session().BreakMode() {
		t.Fatal("x should enter break mode")
	}

	x, y := cellPosition(t, g, t2048.Cell{Row: 2, Col: 3})
	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	tick(t, m)

	if g.Session().Board()[2][3] != 0 {
		t.Errorf("clicked tile not broken, board %v", g.Session().Board())
	}
}

func TestModelBackToMenu(t *testing.T) {
	m, _ := newTestModel(t, nil)

	// Back is ignored while playing
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("back accepted during play")
	}

	m, _ = update(t, m, keyRunes("p"))
	m = tick(t, m)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("back from pause should leave the game")
	}
	if cmd != nil {
		t.Error("embedded model should not quit the program")
	}
	if next := tick(t, m); next.State() != m.State() {
		t.Error("ticks after leaving must not step the game")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := update(t, m, keyRunes("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
	select {
	case <-m.sink.Done():
	default:
		t.Error("event sink not closed")
	}
}
