package board

import "sort"

const (
	Width  = 10
	Height = 20
)

// Grid is a value copy of every cell, indexed [row][column].
type Grid [Height][Width]Cell

// Board is the fixed-size playfield. Its dimensions never change.
type Board struct {
	cells Grid
}

// New creates an empty board.
func New() *Board {
	return &Board{}
}

func (b *Board) Width() int  { return Width }
func (b *Board) Height() int { return Height }

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// At returns the cell at (x, y). ok is false outside the board.
func (b *Board) At(x, y int) (Cell, bool) {
	if !InBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[y][x], true
}

// Set writes a cell, normalising it so an empty cell never keeps a type or item.
// Invalid filled cells and out of range positions are ignored.
func (b *Board) Set(x, y int, c Cell) bool {
	if !InBounds(x, y) {
		return false
	}
	if !c.Filled {
		c = Cell{}
	}
	if !c.Valid() {
		return false
	}
	b.cells[y][x] = c
	return true
}

// SetItem attaches or removes an item marker on a filled cell.
func (b *Board) SetItem(x, y int, item Item) bool {
	if !InBounds(x, y) || !b.cells[y][x].Filled {
		return false
	}
	b.cells[y][x].Item = item
	return true
}

// Occupied reports whether (x, y) is filled. Positions above the board are
// open, every other position off the board counts as occupied.
func (b *Board) Occupied(x, y int) bool {
	if x < 0 || x >= Width || y >= Height {
		return true
	}
	if y < 0 {
		return false
	}
	return b.cells[y][x].Filled
}

// IsRowFull reports whether every cell of row is filled.
func (b *Board) IsRowFull(row int) bool {
	if row < 0 || row >= Height {
		return false
	}
	for x := range Width {
		if !b.cells[row][x].Filled {
			return false
		}
	}
	return true
}

// FullRows returns the full rows in ascending order.
func (b *Board) FullRows() []int {
	var rows []int
	for y := range Height {
		if b.IsRowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// BombRows returns, in ascending order, the rows holding at least one bomb marker.
func (b *Board) BombRows() []int {
	var rows []int
	for y := range Height {
		for x := range Width {
			if b.cells[y][x].Item == ItemBomb {
				rows = append(rows, y)
				break
			}
		}
	}
	return rows
}

// ClearRequest returns the ascending, deduplicated union of full and bomb rows.
func (b *Board) ClearRequest() []int {
	return normalizeRows(append(b.FullRows(), b.BombRows()...))
}

// ClearRows removes the given rows with gravity and reports how many were
// full and how many were removed only because of a bomb marker. Out of range
// and duplicate indices are ignored.
//
// Rows are processed from the bottom-most upward. Each removal shifts the rows
// above it down by one, so the remaining targets move down with them.
func (b *Board) ClearRows(rows []int) (full, bomb int) {
	targets := normalizeRows(rows)
	for _, row := range targets {
		if b.IsRowFull(row) {
			full++
		} else {
			bomb++
		}
	}

	removed := 0
	for i := len(targets) - 1; i >= 0; i-- {
		b.RemoveRow(targets[i] + removed)
		removed++
	}
	return full, bomb
}

// RemoveRow deletes one row, shifting every row above it down and inserting an
// empty row at the top.
func (b *Board) RemoveRow(row int) bool {
	if row < 0 || row >= Height {
		return false
	}
	for y := row; y > 0; y-- {
		b.cells[y] = b.cells[y-1]
	}
	b.cells[0] = [Width]Cell{}
	return true
}

// ClearArea empties the square of cells within radius of center and returns
// the positions that were filled.
func (b *Board) ClearArea(center Point, radius int) []Point {
	var cleared []Point
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			if !InBounds(x, y) || !b.cells[y][x].Filled {
				continue
			}
			b.cells[y][x] = Cell{}
			cleared = append(cleared, Point{X: x, Y: y})
		}
	}
	return cleared
}

// FilledCount returns the number of filled cells.
func (b *Board) FilledCount() int {
	n := 0
	for y := range Height {
		for x := range Width {
			if b.cells[y][x].Filled {
				n++
			}
		}
	}
	return n
}

// Grid returns a copy of the cells.
func (b *Board) Grid() Grid {
	return b.cells
}

// Overwrite replaces every cell with g. Invalid cells are stored empty.
func (b *Board) Overwrite(g Grid) {
	for y := range Height {
		for x := range Width {
			c := g[y][x]
			if !c.Filled || !c.Valid() {
				c = Cell{}
			}
			b.cells[y][x] = c
		}
	}
}

// Reset empties the board.
func (b *Board) Reset() {
	b.cells = Grid{}
}

func normalizeRows(rows []int) []int {
	if len(rows) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(rows))
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		if r < 0 || r >= Height || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}
