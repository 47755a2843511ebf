package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagResetOwner  string
	flagResetScores bool
)

var resetCmd = &cobra.Command{
	Use:   "reset [classic|campaign]",
	Short: "Forget saved games and best scores",
	Long: `Delete the saved game and best score of a mode, or of both modes when
no mode is given. Use --owner to reset an SSH player's records and
--scores to also clear the score table. With --owner only that player's
rows are removed from the score table; without it the whole table for the
mode is cleared.

Examples:
  t2048 reset
  t2048 reset campaign
  t2048 reset --owner alice
  t2048 reset classic --scores`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	resetCmd.Flags().StringVar(&flagResetOwner, "owner", "", "SSH user whose records to reset")
	resetCmd.Flags().BoolVar(&flagResetScores, "scores", false, "Also clear the score table")
}

func runReset(cmd *cobra.Command, args []string) error {
	modes := []string{t2048.ClassicID, t2048.CampaignID}
	if len(args) > 0 {
		gameID, err := resolveMode(args[0])
		if err != nil {
			return err
		}
		modes = []string{gameID}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	env := registry.Env{Owner: flagResetOwner}
	var removed int64
	for _, gameID := range modes {
		n, err := store.DeletePrefix(env.KeyPrefix(gameID) + ":")
		if err != nil {
			return err
		}
		removed += n

		if flagResetScores {
			if err := clearScores(store, gameID, flagResetOwner); err != nil {
				return err
			}
		}
	}

	fmt.Printf("Removed %d saved records.\n", removed)
	switch {
	case flagResetScores && flagResetOwner != "":
		fmt.Printf("Scores of %s cleared.\n", flagResetOwner)
	case flagResetScores:
		fmt.Println("Score table cleared.")
	}
	return nil
}

// clearScores removes the owner's rows, or every row when owner is empty.
func clearScores(store *storage.Store, gameID, owner string) error {
	if owner != "" {
		return store.ClearOwnerScores(gameID, owner)
	}
	return store.ClearScores(gameID)
}
