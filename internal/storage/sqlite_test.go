package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreCloseReleasesGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	store, err := Open(filepath.Join(t.TempDir(), "leak.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Put("k", "v"); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreKV(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("2048:state"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want false, nil", ok, err)
	}

	if err := store.Put("2048:state", `{"score":4}`); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put("2048:state", `{"score":8}`); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}

	v, ok, err := store.Get("2048:state")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if v != `{"score":8}` {
		t.Errorf("Get() = %q, want overwritten value", v)
	}

	if err := store.Delete("2048:state"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := store.Get("2048:state"); ok {
		t.Error("key should be gone after Delete")
	}

	// Deleting a missing key is fine
	if err := store.Delete("2048:state"); err != nil {
		t.Errorf("Delete(missing) failed: %v", err)
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	store := openTestStore(t)

	store.Put("alice/2048:state", "a")
	store.Put("alice/2048:highScore", "1")
	store.Put("alice_x/2048:state", "b")
	store.Put("bob/2048:state", "c")

	n, err := store.DeletePrefix("alice/")
	if err != nil {
		t.Fatalf("DeletePrefix() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeletePrefix() removed %d keys, want 2", n)
	}

	// Underscore must not act as a wildcard
	if _, ok, _ := store.Get("alice_x/2048:state"); !ok {
		t.Error("alice_x key should survive")
	}
	if _, ok, _ := store.Get("bob/2048:state"); !ok {
		t.Error("bob key should survive")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("2048", "", s, 64); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	// Different mode
	if _, err := store.SaveScore("2048_campaign", "alice", 500, 128); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	campaign, err := store.TopScores("2048_campaign", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(campaign) != 1 || campaign[0].Owner != "alice" || campaign[0].MaxTile != 128 {
		t.Errorf("campaign scores = %+v", campaign)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", "", (i+1)*100, 0)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("2048", "", 100, 0)
	store.SaveScore("2048", "", 300, 0)
	store.SaveScore("2048", "", 200, 0)

	high, err = store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("2048", "", 100, 0)
	store.SaveScore("2048", "", 200, 0)
	store.SaveScore("2048_campaign", "", 300, 0)

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	classic, _ := store.TopScores("2048", 10)
	if len(classic) != 0 {
		t.Errorf("Expected 0 classic scores after clear, got %d", len(classic))
	}

	campaign, _ := store.TopScores("2048_campaign", 10)
	if len(campaign) != 1 {
		t.Errorf("Campaign scores should not be affected by clearing classic")
	}
}

func TestStoreClearOwnerScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("2048", "alice", 100, 8)
	store.SaveScore("2048", "bob", 200, 16)
	store.SaveScore("2048_campaign", "alice", 300, 32)

	if err := store.ClearOwnerScores("2048", "alice"); err != nil {
		t.Fatalf("ClearOwnerScores() failed: %v", err)
	}

	classic, _ := store.TopScores("2048", 10)
	if len(classic) != 1 || classic[0].Owner != "bob" {
		t.Errorf("classic scores = %+v, want only bob's", classic)
	}
	campaign, _ := store.TopScores("2048_campaign", 10)
	if len(campaign) != 1 {
		t.Error("alice's campaign score should be kept")
	}
}

func TestStorePutMax(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		value int
		want  int
	}{
		{64, 64},
		{8, 64},
		{1024, 1024},
		{1024, 1024},
	}
	for _, tt := range tests {
		got, err := store.PutMax("alice/2048:highScore", tt.value)
		if err != nil {
			t.Fatalf("PutMax(%d) failed: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("PutMax(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
	if v, _, _ := store.Get("alice/2048:highScore"); v != "1024" {
		t.Errorf("stored %q, want 1024", v)
	}

	store.Put("bob/2048:highScore", "lots")
	if got, err := store.PutMax("bob/2048:highScore", 4); err != nil || got != 4 {
		t.Errorf("PutMax over garbage = %d, %v; want 4", got, err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveScore("2048", "", 100, 64)
	store.SaveScore("2048", "", 300, 256)

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 {
		t.Errorf("GamesCount = %d, want 2", stats.GamesCount)
	}
	if stats.HighScore != 300 || stats.BestTile != 256 {
		t.Errorf("HighScore/BestTile = %d/%d, want 300/256", stats.HighScore, stats.BestTile)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
}

func TestMemoryKV(t *testing.T) {
	m := NewMemory()

	if _, ok, err := m.Get("a"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	m.Put("a", "1")
	if v, ok, _ := m.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}

	m.Delete("a")
	if _, ok, _ := m.Get("a"); ok {
		t.Error("a should be deleted")
	}

	for _, step := range []struct{ value, want int }{{16, 16}, {4, 16}, {32, 32}} {
		if got, err := m.PutMax("best", step.value); err != nil || got != step.want {
			t.Errorf("PutMax(%d) = %d, %v; want %d", step.value, got, err, step.want)
		}
	}

	m.Close()
	if err := m.Put("a", "2"); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after Close = %v, want ErrClosed", err)
	}
	if _, _, err := m.Get("a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}
