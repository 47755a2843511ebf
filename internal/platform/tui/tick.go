// Package tui runs the 2048 game in a terminal: the Bubble Tea models for
// the game, menu and scoreboard, key and mouse mapping, and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// maxTickRate bounds the simulation rate. Faster ticks only burn CPU.
const maxTickRate = 240

// TickMsg asks the model to advance the game by one step.
type TickMsg time.Time

// tickInterval returns the time between ticks at rate ticks per second.
func tickInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = core.DefaultTickRate
	}
	return time.Second / time.Duration(min(rate, maxTickRate))
}

// tickCmd schedules the next tick.
func tickCmd(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
