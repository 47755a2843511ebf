package core

// Color is the foreground color of a screen cell. Front ends map it to a
// terminal color with ANSI.
type Color uint8

// Colors used by the board, the HUD and the overlays. The tile colors follow
// the classic 2048 palette as closely as 256 colors allow.
const (
	ColorDefault Color = iota
	ColorMagenta
	ColorCyan
	ColorBrightRed
	ColorBrightYellow
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorPurple
	ColorPink
	ColorMint
	ColorTeal
	ColorViolet
)

var ansiCodes = [...]string{
	ColorDefault:      "",
	ColorMagenta:      "5",
	ColorCyan:         "6",
	ColorBrightRed:    "9",
	ColorBrightYellow: "11",
	ColorBrightCyan:   "14",
	ColorBrightWhite:  "15",
	ColorOrange:       "208",
	ColorGray:         "245",
	ColorPurple:       "135",
	ColorPink:         "198",
	ColorMint:         "157",
	ColorTeal:         "43",
	ColorViolet:       "55",
}

// ANSI returns the ANSI 256-color code of c, or "" for the terminal's
// default color.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}

// Palette returns every color that has an ANSI code.
func Palette() []Color {
	colors := make([]Color, 0, len(ansiCodes)-1)
	for c := range ansiCodes {
		if ansiCodes[c] != "" {
			colors = append(colors, Color(c))
		}
	}
	return colors
}
