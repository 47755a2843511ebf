package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// ScreenRenderer turns a Screen buffer into styled terminal output.
// SSH sessions get their own renderer so color detection follows the
// client terminal rather than the server's.
type ScreenRenderer struct {
	r      *lipgloss.Renderer
	styles map[core.Color]lipgloss.Style
	plain  lipgloss.Style
}

// NewScreenRenderer builds styles for r. A nil r uses the default renderer.
func NewScreenRenderer(r *lipgloss.Renderer) *ScreenRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	palette := core.Palette()
	styles := make(map[core.Color]lipgloss.Style, len(palette))
	for _, c := range palette {
		styles[c] = r.NewStyle().Foreground(lipgloss.Color(c.ANSI()))
	}
	return &ScreenRenderer{r: r, styles: styles, plain: r.NewStyle()}
}

var defaultScreenRenderer = NewScreenRenderer(nil)

// Lipgloss returns the lipgloss renderer behind sr. A nil sr yields nil.
func (sr *ScreenRenderer) Lipgloss() *lipgloss.Renderer {
	if sr == nil {
		return nil
	}
	return sr.r
}

// RenderScreen converts a Screen buffer using the default renderer.
func RenderScreen(s *core.Screen) string {
	return defaultScreenRenderer.Render(s)
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (sr *ScreenRenderer) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := sr.styles[startColor]
			if !ok {
				style = sr.plain
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
