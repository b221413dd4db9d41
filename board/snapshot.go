package board

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedSnapshot is returned for snapshots that cannot be applied as a whole.
var ErrMalformedSnapshot = errors.New("malformed board snapshot")

// EmptyToken marks an empty cell in a snapshot.
const EmptyToken = -1

// EncodeSnapshot renders the board as Width*Height comma-separated type ids in
// row-major order, -1 for empty cells. Cells of the falling block, when given,
// are overlaid with its type id.
func EncodeSnapshot(b *Board, falling *Block) string {
	g := b.Grid()
	if falling != nil {
		for _, p := range falling.Cells() {
			if InBounds(p.X, p.Y) {
				g[p.Y][p.X] = Filled(falling.Type)
			}
		}
	}

	var sb strings.Builder
	sb.Grow(Width * Height * 3)
	for y := range Height {
		for x := range Width {
			if y > 0 || x > 0 {
				sb.WriteByte(',')
			}
			if g[y][x].Filled {
				sb.WriteString(strconv.Itoa(g[y][x].Type))
			} else {
				sb.WriteString(strconv.Itoa(EmptyToken))
			}
		}
	}
	return sb.String()
}

// DecodeSnapshot parses a snapshot into a grid. Wrong token counts and tokens
// outside -1..TypeCount-1 fail with ErrMalformedSnapshot; nothing is returned
// partially.
func DecodeSnapshot(s string) (Grid, error) {
	var g Grid
	tokens := strings.Split(strings.TrimSpace(s), ",")
	if len(tokens) != Width*Height {
		return Grid{}, ErrMalformedSnapshot
	}
	for i, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || v < EmptyToken || v >= TypeCount {
			return Grid{}, ErrMalformedSnapshot
		}
		if v == EmptyToken {
			continue
		}
		g[i/Width][i%Width] = Filled(v)
	}
	return g, nil
}

// ApplySnapshot overwrites the whole board from an encoded snapshot. On error
// the board is left unchanged.
func (b *Board) ApplySnapshot(s string) error {
	g, err := DecodeSnapshot(s)
	if err != nil {
		return err
	}
	b.Overwrite(g)
	return nil
}
