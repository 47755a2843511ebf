// Package t2048 implements the 2048 sliding tile puzzle: a pure grid
// transform, a session that owns one game with undo and tile breaking,
// persistence of the session, and a classic and a campaign mode.
package t2048

// Level is one stage of the campaign. It is cleared once a tile of value
// Target is on the board.
type Level struct {
	Number int // 1-indexed
	Name   string
	Target int
	Spawn4 float64 // Chance a spawned tile is a 4, before difficulty scaling
}

// Cleared reports whether b holds the level's target tile.
func (l Level) Cleared(b Board) bool {
	return MaxTile(b) >= l.Target
}

// Spawn-4 chances rise from level 6 on. 8192 is the highest target that is
// realistic on a 4x4 board, so the last levels differ only in spawn odds.
var campaign = [...]Level{
	{Number: 1, Name: "Warm-up", Target: 128, Spawn4: 0.10},
	{Number: 2, Name: "Getting Started", Target: 256, Spawn4: 0.10},
	{Number: 3, Name: "Building Momentum", Target: 512, Spawn4: 0.10},
	{Number: 4, Name: "The Climb", Target: 1024, Spawn4: 0.10},
	{Number: 5, Name: "Classic 2048", Target: 2048, Spawn4: 0.10},
	{Number: 6, Name: "Beyond Limits", Target: 4096, Spawn4: 0.12},
	{Number: 7, Name: "Master Class", Target: 8192, Spawn4: 0.15},
	{Number: 8, Name: "Expert Challenge", Target: 8192, Spawn4: 0.18},
	{Number: 9, Name: "Grandmaster", Target: 8192, Spawn4: 0.20},
	{Number: 10, Name: "Ultimate Champion", Target: 8192, Spawn4: 0.25},
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(campaign)
}

// LevelAt returns campaign level n, counting from 1.
func LevelAt(n int) (Level, bool) {
	if n < 1 || n > len(campaign) {
		return Level{}, false
	}
	return campaign[n-1], true
}

// Campaign returns a copy of all campaign levels in order.
func Campaign() []Level {
	return append([]Level(nil), campaign[:]...)
}
