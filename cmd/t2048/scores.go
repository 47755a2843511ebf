package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [classic|campaign]",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for a mode, with the biggest tile of
each game and the player who finished it.

Examples:
  t2048 scores
  t2048 scores campaign --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	gameID, err := resolveMode(name)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	game, err := registry.Create(gameID, registry.Env{Config: cfg})
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play a game to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %s\n", "Rank", "Score", "Tile", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %s\n", "----", "-----", "----", "------", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-12s  %s\n",
			i+1, entry.Score, entry.MaxTile, entry.Owner, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Games: %d  Best: %d  Best tile: %d  Average: %.0f\n",
			stats.GamesCount, stats.HighScore, stats.BestTile, stats.AvgScore)
	}
	return nil
}
