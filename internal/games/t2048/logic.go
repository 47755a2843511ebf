package t2048

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	default:
		return 0, false
	}
}

// BoardSize is the board dimension.
const BoardSize = 4

// Board represents a 4x4 game board. Zero is an empty cell.
type Board [BoardSize][BoardSize]int

// Line is one row or column oriented so that index 0 is the compress edge.
type Line [BoardSize]int

// Cell addresses a board position.
type Cell struct {
	Row, Col int
}

// InBounds reports whether the cell lies on the board.
func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// LineMerge records one merge inside a line by line index.
type LineMerge struct {
	First  int // Index of the tile nearer the compress edge
	Second int // Index of the tile absorbed into it
	Dest   int // Index the doubled tile lands on
	Value  int // Resulting value
}

// LineSlide records where a tile of the original line ended up.
type LineSlide struct {
	From   int
	To     int
	Value  int  // Value before any merge
	Merged bool // Tile took part in a merge
}

// LineResult is the outcome of compressing one line.
type LineResult struct {
	Line   Line
	Score  int
	Merges []LineMerge
	Slides []LineSlide // One entry per non-zero tile of the input line
}

// CompressLine slides a line toward index 0 and merges equal tiles once.
// For each tile it looks ahead past empty cells to the next tile; equal values
// merge into one doubled tile and both are consumed, so a merged tile never
// merges again within the same move and ties favor the compress edge.
func CompressLine(line Line) LineResult {
	var res LineResult
	write := 0

	for i := 0; i < BoardSize; {
		v := line[i]
		if v == 0 {
			i++
			continue
		}

		j := i + 1
		for j < BoardSize && line[j] == 0 {
			j++
		}

		if j < BoardSize && line[j] == v {
			merged := v * 2
			res.Line[write] = merged
			res.Score += merged
			res.Merges = append(res.Merges, LineMerge{First: i, Second: j, Dest: write, Value: merged})
			res.Slides = append(res.Slides,
				LineSlide{From: i, To: write, Value: v, Merged: true},
				LineSlide{From: j, To: write, Value: v, Merged: true},
			)
			write++
			i = j + 1
			continue
		}

		res.Line[write] = v
		res.Slides = append(res.Slides, LineSlide{From: i, To: write, Value: v})
		write++
		i++
	}

	return res
}

// MergeEvent describes a single merge in board coordinates.
// It drives score accrual and animation and is never persisted.
type MergeEvent struct {
	Sources [2]Cell
	Dest    Cell
	Value   int
}

// TileMove represents a tile movement from one position to another.
type TileMove struct {
	From   Cell
	To     Cell
	Value  int  // Original value (before merge)
	Merged bool // Whether this tile merged with another
}

// MoveResult is the outcome of applying a direction to a whole board.
type MoveResult struct {
	Board      Board
	Moved      bool
	ScoreDelta int
	Merges     []MergeEvent
	Slides     []TileMove
}

// lineCell maps index i of line k to a board cell for the given direction.
// Right and Down read their lines reversed so the compress edge is index 0.
func lineCell(dir Direction, k, i int) Cell {
	switch dir {
	case DirRight:
		return Cell{Row: k, Col: BoardSize - 1 - i}
	case DirUp:
		return Cell{Row: i, Col: k}
	case DirDown:
		return Cell{Row: BoardSize - 1 - i, Col: k}
	default:
		return Cell{Row: k, Col: i}
	}
}

// ApplyMove slides the whole board in the given direction.
// If no line changes, Moved is false and Board equals the input.
func ApplyMove(board Board, dir Direction) MoveResult {
	res := MoveResult{Board: board}

	switch dir {
	case DirUp, DirDown, DirLeft, DirRight:
	default:
		return res
	}

	for k := range BoardSize {
		var line Line
		for i := range BoardSize {
			c := lineCell(dir, k, i)
			line[i] = board[c.Row][c.Col]
		}

		lr := CompressLine(line)
		if lr.Line == line {
			continue
		}

		res.Moved = true
		res.ScoreDelta += lr.Score
		for i := range BoardSize {
			c := lineCell(dir, k, i)
			res.Board[c.Row][c.Col] = lr.Line[i]
		}
		for _, m := range lr.Merges {
			res.Merges = append(res.Merges, MergeEvent{
				Sources: [2]Cell{lineCell(dir, k, m.First), lineCell(dir, k, m.Second)},
				Dest:    lineCell(dir, k, m.Dest),
				Value:   m.Value,
			})
		}
		for _, s := range lr.Slides {
			res.Slides = append(res.Slides, TileMove{
				From:   lineCell(dir, k, s.From),
				To:     lineCell(dir, k, s.To),
				Value:  s.Value,
				Merged: s.Merged,
			})
		}
	}

	// Unchanged lines still hold tiles; animate them in place.
	if res.Moved {
		res.Slides = appendStill(res.Slides, board)
	} else {
		res.Slides = nil
	}

	return res
}

// appendStill adds a stationary TileMove for every tile not already listed.
func appendStill(slides []TileMove, board Board) []TileMove {
	var seen [BoardSize][BoardSize]bool
	for _, s := range slides {
		seen[s.From.Row][s.From.Col] = true
	}
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] == 0 || seen[y][x] {
				continue
			}
			c := Cell{Row: y, Col: x}
			slides = append(slides, TileMove{From: c, To: c, Value: board[y][x]})
		}
	}
	return slides
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(board Board) []Cell {
	var cells []Cell
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] == 0 {
				cells = append(cells, Cell{Row: y, Col: x})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any adjacent tiles hold equal values.
func HasPossibleMerge(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			val := board[y][x]
			if x < BoardSize-1 && board[y][x+1] == val {
				return true
			}
			if y < BoardSize-1 && board[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// IsTerminal returns true if the board is full and nothing can merge.
func IsTerminal(board Board) bool {
	return !HasEmptyCell(board) && !HasPossibleMerge(board)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(board Board) int {
	maxVal := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] > maxVal {
				maxVal = board[y][x]
			}
		}
	}
	return maxVal
}

// IsTileValue reports whether v is a legal tile: a power of two >= 2.
func IsTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// ValidBoard reports whether every cell is empty or a legal tile.
func ValidBoard(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			if v := board[y][x]; v != 0 && !IsTileValue(v) {
				return false
			}
		}
	}
	return true
}
