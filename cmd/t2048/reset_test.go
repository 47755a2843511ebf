package main

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

func TestClearScores(t *testing.T) {
	tests := []struct {
		name  string
		owner string
		want  []string
	}{
		{"one owner", "alice", []string{"bob"}},
		{"everyone", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
			if err != nil {
				t.Fatal(err)
			}
			defer store.Close()

			store.SaveScore("2048", "alice", 100, 8)
			store.SaveScore("2048", "bob", 50, 4)

			if err := clearScores(store, "2048", tt.owner); err != nil {
				t.Fatalf("clearScores: %v", err)
			}

			entries, _ := store.TopScores("2048", 10)
			var got []string
			for _, e := range entries {
				got = append(got, e.Owner)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && got[0] != tt.want[0]) {
				t.Errorf("left owners %v, want %v", got, tt.want)
			}
		})
	}
}
