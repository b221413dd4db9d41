package board_test

import (
	"fmt"
	"testing"

	"github.com/plus3/blockfall/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(b *board.Board, row int, typeID int) {
	for x := range board.Width {
		b.Set(x, row, board.Filled(typeID))
	}
}

func TestCellInvariant(t *testing.T) {
	b := board.New()

	assert.False(t, b.Set(0, 0, board.Cell{Filled: true, Type: board.TypeCount}))
	assert.True(t, b.Set(0, 0, board.Cell{Filled: false, Type: 3, Item: board.ItemBomb}))

	c, ok := b.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, board.Cell{}, c, "empty cell must not keep a type or item")

	assert.False(t, b.SetItem(0, 0, board.ItemBomb), "empty cells cannot carry items")
	assert.False(t, b.Set(board.Width, 0, board.Filled(1)))

	_, ok = b.At(-1, 0)
	assert.False(t, ok)
}

func TestIsRowFull(t *testing.T) {
	b := board.New()
	fillRow(b, 19, 2)
	b.Set(4, 18, board.Filled(1))

	assert.True(t, b.IsRowFull(19))
	assert.False(t, b.IsRowFull(18))
	assert.False(t, b.IsRowFull(-1))
	assert.False(t, b.IsRowFull(board.Height))
	assert.Equal(t, []int{19}, b.FullRows())
}

func TestClearRequestUnion(t *testing.T) {
	b := board.New()
	fillRow(b, 19, 0)
	fillRow(b, 15, 0)
	b.Set(2, 17, board.Filled(4))
	b.SetItem(2, 17, board.ItemBomb)
	b.SetItem(5, 15, board.ItemBomb)

	assert.Equal(t, []int{15, 17}, b.BombRows())
	assert.Equal(t, []int{15, 17, 19}, b.ClearRequest(), "full and bomb rows are a set union")
}

func TestClearRowsFullAndBombCounts(t *testing.T) {
	b := board.New()
	fillRow(b, 19, 0)
	b.Set(0, 17, board.Filled(3))
	b.Set(1, 17, board.Filled(3))
	b.SetItem(1, 17, board.ItemBomb)
	b.Set(6, 16, board.Filled(5))

	rows := b.ClearRequest()
	require.Equal(t, []int{17, 19}, rows)

	full, bomb := b.ClearRows(rows)
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, bomb)
	assert.Equal(t, 1, b.FilledCount())

	c, _ := b.At(6, 18)
	assert.Equal(t, board.Filled(5), c, "row 16 moves down by two")
	assert.Empty(t, b.BombRows())
}

func TestClearRowsShiftProperty(t *testing.T) {
	tests := []struct {
		name string
		rows []int
	}{
		{"single bottom", []int{19}},
		{"two adjacent", []int{18, 19}},
		{"gapped", []int{12, 15, 19}},
		{"unsorted with duplicates", []int{19, 12, 19, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New()
			for _, r := range tt.rows {
				fillRow(b, r, 6)
			}
			// marker cells above every cleared row, one per column offset
			for y := 0; y < 12; y++ {
				b.Set(y%board.Width, y, board.Filled(y%board.TypeCount))
			}
			before := b.Grid()
			prior := b.FilledCount()

			full, bomb := b.ClearRows(tt.rows)
			distinct := map[int]bool{}
			for _, r := range tt.rows {
				distinct[r] = true
			}
			assert.Equal(t, len(distinct), full)
			assert.Equal(t, 0, bomb)
			assert.Equal(t, prior-len(distinct)*board.Width, b.FilledCount())

			after := b.Grid()
			for y := 0; y < 12; y++ {
				assert.Equal(t, before[y], after[y+len(distinct)], "row %d shifts by %d", y, len(distinct))
			}
			for y := 0; y < len(distinct); y++ {
				assert.Equal(t, [board.Width]board.Cell{}, after[y], "row %d is inserted empty", y)
			}
		})
	}
}

func TestClearRowsIgnoresOutOfRange(t *testing.T) {
	b := board.New()
	fillRow(b, 19, 1)

	full, bomb := b.ClearRows([]int{-3, board.Height, 40})
	assert.Zero(t, full)
	assert.Zero(t, bomb)
	assert.Equal(t, board.Width, b.FilledCount())
}

func TestClearArea(t *testing.T) {
	b := board.New()
	for y := 17; y < board.Height; y++ {
		fillRow(b, y, 2)
	}

	cleared := b.ClearArea(board.Point{X: 0, Y: 19}, 1)
	assert.Len(t, cleared, 4, "corner neighbourhood is clipped to the board")

	cleared = b.ClearArea(board.Point{X: 5, Y: 18}, 1)
	assert.Len(t, cleared, 9)
	assert.Equal(t, 3*board.Width-13, b.FilledCount())
}

func TestBlockRotationCarriesItem(t *testing.T) {
	bl := board.NewBlock(0).WithItem(board.ItemCleanup, 0)
	start, ok := bl.ItemCell()
	require.True(t, ok)

	turned := bl
	for range 4 {
		turned = turned.Rotated(true)
		cell, ok := turned.ItemCell()
		require.True(t, ok)
		assert.Contains(t, turned.Cells(), cell, "item stays on an occupied cell")
	}
	end, _ := turned.ItemCell()
	assert.Equal(t, start, end)
	assert.Equal(t, 0, turned.Rotation)

	back := bl.Rotated(true).Rotated(false)
	assert.Equal(t, bl.Cells(), back.Cells())
}

func TestBlockSpawnAndPlace(t *testing.T) {
	b := board.New()
	for typeID := range board.TypeCount {
		bl := board.NewBlock(typeID)
		assert.True(t, bl.Fits(b), "type %d fits an empty board", typeID)
		for _, p := range bl.Cells() {
			assert.GreaterOrEqual(t, p.Y, 0)
		}
	}

	bl := board.NewBlock(1).WithItem(board.ItemBomb, 2)
	for bl.Moved(0, 1).Fits(b) {
		bl = bl.Moved(0, 1)
	}
	placed, above := b.Place(bl)
	assert.False(t, above)
	assert.Len(t, placed, 4)
	assert.Equal(t, []int{19}, b.BombRows())

	for x := range board.Width {
		for y := range board.Height {
			b.Set(x, y, board.Filled(0))
		}
	}
	assert.False(t, board.NewBlock(2).Fits(b))
}

func ExampleBoard_ClearRows() {
	b := board.New()
	for x := range board.Width {
		b.Set(x, 19, board.Filled(0))
	}
	b.Set(3, 17, board.Filled(2))
	b.SetItem(3, 17, board.ItemBomb)

	rows := b.ClearRequest()
	full, bomb := b.ClearRows(rows)
	fmt.Println(rows, full, bomb, b.FilledCount())
	// Output: [17 19] 1 1 0
}
