package board_test

import (
	"strings"
	"testing"

	"github.com/plus3/blockfall/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshotOverlaysFallingBlock(t *testing.T) {
	b := board.New()
	b.Set(0, 19, board.Filled(4))
	falling := board.NewBlock(1)

	s := board.EncodeSnapshot(b, &falling)
	tokens := strings.Split(s, ",")
	require.Len(t, tokens, board.Width*board.Height)

	assert.Equal(t, "4", tokens[19*board.Width])
	for _, p := range falling.Cells() {
		assert.Equal(t, "1", tokens[p.Y*board.Width+p.X])
	}
	assert.Equal(t, "-1", tokens[10*board.Width+5])

	// the falling block is overlaid on the wire only
	assert.Equal(t, 1, b.FilledCount())
}

func TestApplySnapshot(t *testing.T) {
	src := board.New()
	src.Set(2, 18, board.Filled(6))
	src.Set(9, 0, board.Filled(0))
	src.SetItem(2, 18, board.ItemBomb)

	dst := board.New()
	dst.Set(5, 5, board.Filled(3))
	require.NoError(t, dst.ApplySnapshot(board.EncodeSnapshot(src, nil)))

	assert.Equal(t, 2, dst.FilledCount(), "receipt overwrites the whole board")
	c, _ := dst.At(2, 18)
	assert.Equal(t, board.Filled(6), c, "item markers are not carried")
}

func TestApplySnapshotMalformed(t *testing.T) {
	dst := board.New()
	dst.Set(1, 1, board.Filled(2))
	before := dst.Grid()

	tests := map[string]string{
		"short":       "1,2,3",
		"empty":       "",
		"bad token":   strings.Repeat("0,", board.Width*board.Height-1) + "x",
		"type range":  strings.Repeat("0,", board.Width*board.Height-1) + "7",
		"below empty": strings.Repeat("0,", board.Width*board.Height-1) + "-2",
		"long":        strings.Repeat("0,", board.Width*board.Height) + "0",
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			err := dst.ApplySnapshot(s)
			assert.ErrorIs(t, err, board.ErrMalformedSnapshot)
			assert.Equal(t, before, dst.Grid(), "prior state is retained")
		})
	}
}
