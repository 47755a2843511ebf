package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all game modes",
	Long:  `Shows the registered game modes and the campaign levels.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No game modes available.")
		return
	}

	fmt.Println("Game modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Campaign levels:")
	for _, lvl := range t2048.Campaign() {
		fmt.Printf("  %2d. %-18s  target %d\n", lvl.Number, lvl.Name, lvl.Target)
	}

	fmt.Println()
	fmt.Println("Run 't2048 play [classic|campaign]' to play.")
}

// resolveMode maps a mode name or registry ID to a registry ID.
func resolveMode(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "classic":
		return t2048.ClassicID, nil
	case "campaign":
		return t2048.CampaignID, nil
	}
	if registry.Exists(name) {
		return name, nil
	}
	return "", fmt.Errorf("unknown mode %q (run 't2048 list' to see available modes)", name)
}
