package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a game ends, press Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - High scores
  Q            - Quit

Examples:
  t2048 menu
  t2048 menu --fps 30
  t2048 menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	a, err := newApp(logToFile)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := runtimeConfig()
	owner := localOwner()

	for {
		menuResult, err := tui.RunMenu(a.store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(a.store, tui.ScoreboardOptions{
				Player: owner,
				Width:  cfg.ScreenW,
				Height: cfg.ScreenH,
			})
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(menuResult.GameID, a.env(menuResult.StartLevel))
		if err != nil {
			return fmt.Errorf("creating game: %w", err)
		}

		a.logger.Info("game started", "game", game.ID(), "level", menuResult.StartLevel)

		if err := tui.Run(game, cfg, tui.ModelOptions{
			Scores: a.store,
			Owner:  owner,
			Logger: a.logger,
		}); err != nil {
			return fmt.Errorf("running game: %w", err)
		}
	}
}
