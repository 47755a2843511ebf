package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [classic|campaign]",
	Short: "Play a game mode",
	Long: `Start playing. Classic is the endless game; campaign has 10 levels
with rising target tiles. A saved game of the mode is resumed.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  U                - Undo (3 per game)
  X                - Break mode: pick a tile to remove (3 per game)
  Enter/Click      - Break the selected tile
  N                - New game
  P                - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit

Examples:
  t2048 play
  t2048 play campaign
  t2048 play campaign --level 5
  t2048 play --difficulty hard
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start from (0 resumes the saved campaign)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	gameID, err := resolveMode(name)
	if err != nil {
		return err
	}
	if flagLevel < 0 || flagLevel > t2048.LevelCount() {
		return fmt.Errorf("level must be between 1 and %d", t2048.LevelCount())
	}
	if flagLevel > 0 && gameID != t2048.CampaignID {
		gameID = t2048.CampaignID
	}

	a, err := newApp(logToFile)
	if err != nil {
		return err
	}
	defer a.Close()

	game, err := registry.Create(gameID, a.env(flagLevel))
	if err != nil {
		return err
	}

	return tui.Run(game, runtimeConfig(), tui.ModelOptions{
		Scores: a.store,
		Owner:  localOwner(),
		Logger: a.logger,
	})
}
