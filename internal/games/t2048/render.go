package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 4

	boardW = BoardSize*cellWidth + 1  // +1 for right border
	boardH = BoardSize*cellHeight + 1 // +1 for bottom border

	// Minimum size: the controls line is wider than the board
	minScreenW = 60
	minScreenH = hudHeight + 1 + boardH + 3
)

// tileColors maps tile values to colors, from warm small tiles to cool big ones.
var tileColors = map[int]core.Color{
	2:    core.ColorPurple,
	4:    core.ColorPink,
	8:    core.ColorBrightYellow,
	16:   core.ColorMint,
	32:   core.ColorCyan,
	64:   core.ColorMagenta,
	128:  core.ColorOrange,
	256:  core.ColorTeal,
	512:  core.ColorBrightCyan,
	1024: core.ColorBrightRed,
	2048: core.ColorViolet,
}

// TileColor returns the display color of a tile value.
func TileColor(v int) core.Color {
	if c, ok := tileColors[v]; ok {
		return c
	}
	return core.ColorBrightWhite
}

// boardOrigin returns the top-left corner of the grid.
func (g *Game) boardOrigin() (int, int) {
	return (g.screenW - boardW) / 2, hudHeight + 1
}

// cellRect returns the interior of a board cell in screen coordinates.
func (g *Game) cellRect(c Cell) core.Rect {
	bx, by := g.boardOrigin()
	return core.NewRect(bx+c.Col*cellWidth, by+c.Row*cellHeight, cellWidth+1, cellHeight+1).Inset(1)
}

// CellAt maps a screen position to the board cell under it.
func (g *Game) CellAt(x, y int) (Cell, bool) {
	for row := range BoardSize {
		for col := range BoardSize {
			c := Cell{Row: row, Col: col}
			if g.cellRect(c).Contains(x, y) {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Check screen size
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.session == nil {
		return
	}

	boardX, boardY := g.boardOrigin()

	g.renderHUD(dst, boardX)
	g.renderGrid(dst, boardX, boardY)

	if g.anim.phase == phaseSlide {
		g.renderSlide(dst, boardX, boardY)
	} else {
		g.renderTiles(dst)
	}

	if g.session.BreakMode() {
		g.renderCursor(dst)
	}

	dst.DrawTextCentered(boardY+boardH+1, g.Controls(), core.ColorGray)

	g.renderOverlays(dst, boardX, boardY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	x := (g.screenW - len(msg)) / 2
	y := g.screenH / 2
	dst.DrawText(x, y, msg)

	hint := fmt.Sprintf("Need %dx%d", minScreenW, minScreenH)
	hintX := (g.screenW - len(hint)) / 2
	dst.DrawText(hintX, y+1, hint)
}

// renderHUD draws score, allowances and mode info.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	snap := g.session.Snapshot()

	// Title
	title := g.Title()
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	// Score and best
	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", snap.Score))
	best := fmt.Sprintf("Best: %d", snap.HighScore)
	dst.DrawText(boardX+boardW-len(best), 1, best)

	// Level/Target info (campaign) or Max tile (classic)
	var infoStr string
	if g.mode == ModeCampaign {
		infoStr = fmt.Sprintf("Level %d/%d  Target: %d", snap.Level, LevelCount(), g.Target())
	} else {
		infoStr = fmt.Sprintf("Max: %d", MaxTile(snap.Board))
	}
	dst.DrawText(boardX, 2, infoStr)

	// Allowances
	dst.DrawText(boardX, 3, fmt.Sprintf("Undo: %d  Break: %d", snap.UndoRemaining, snap.BreakRemaining))
	if snap.BreakMode {
		mode := "BREAK MODE"
		dst.DrawTextColor(boardX+boardW-len(mode), 3, mode, core.ColorBrightRed)
	}
}

// renderGrid draws the 4x4 cell borders.
func (g *Game) renderGrid(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			// Draw corner/intersection
			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == BoardSize:
				corner = '┐'
			case y == BoardSize && x == 0:
				corner = '└'
			case y == BoardSize && x == BoardSize:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == BoardSize:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == BoardSize:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColor(px, py, corner, core.ColorGray)

			// Draw horizontal line to the right
			if x < BoardSize {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}

			// Draw vertical line down
			if y < BoardSize {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// drawTile writes a centered value inside a cell interior.
func drawTile(dst *core.Screen, r core.Rect, value int) {
	valStr := strconv.Itoa(value)
	dst.DrawTextColor(r.CenterX(len(valStr)), r.Y, valStr, TileColor(value))
}

// renderTiles draws the settled board, hiding the popping tile at first.
func (g *Game) renderTiles(dst *core.Screen) {
	board := g.session.Board()
	for y := range BoardSize {
		for x := range BoardSize {
			val := board[y][x]
			if val == 0 {
				continue
			}
			c := Cell{Row: y, Col: x}
			r := g.cellRect(c)

			if g.anim.popping(c) {
				dst.SetColor(r.CenterX(1), r.Y, '·', TileColor(val))
				continue
			}
			drawTile(dst, r, val)
		}
	}
}

// renderSlide draws tiles at their interpolated positions.
func (g *Game) renderSlide(dst *core.Screen, boardX, boardY int) {
	t := g.anim.progress()
	for _, s := range g.anim.sliding {
		row, col := s.position(t)
		r := core.NewRect(
			boardX+int(math.Round(col*cellWidth)),
			boardY+int(math.Round(row*cellHeight)),
			cellWidth+1, cellHeight+1,
		).Inset(1)
		drawTile(dst, r, s.Value)
	}
}

// renderCursor brackets the selected cell in break mode.
func (g *Game) renderCursor(dst *core.Screen) {
	r := g.cellRect(g.cursor)
	dst.SetColor(r.X, r.Y, '[', core.ColorBrightRed)
	dst.SetColor(r.Right()-1, r.Y, ']', core.ColorBrightRed)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.levelCleared {
		level := g.session.Level()
		targetStr := fmt.Sprintf("Target %d reached!", g.Target())
		if level >= LevelCount() {
			g.drawOverlay(dst, centerX, centerY, targetStr, "Final level complete!")
		} else {
			nextStr := fmt.Sprintf("Next: Level %d", level+1)
			g.drawOverlay(dst, centerX, centerY, targetStr, nextStr)
		}
		return
	}

	if g.won {
		g.drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!", "You are the champion!", "Press R to restart")
		return
	}

	if g.session.GameOver() {
		maxStr := fmt.Sprintf("Max tile: %d", MaxTile(g.session.Board()))
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", maxStr, "Press R to restart")
		return
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	// Find max line width
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	// Draw box
	box := core.NewRect(0, 0, maxLen+4, len(lines)+2)
	box.X = centerX - box.W/2
	box.Y = centerY - box.H/2

	// Clear area behind overlay
	dst.DrawRect(box, ' ')
	dst.DrawBoxColor(box, core.ColorBrightWhite)

	// Draw text
	for i, line := range lines {
		x := centerX - len(line)/2
		dst.DrawText(x, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	if g.session != nil && g.session.BreakMode() {
		return "Arrows: Select | Enter/Click: Break | Esc: Cancel"
	}
	return "Arrows/WASD: Move | U: Undo | X: Break | N: New | Q: Quit"
}
