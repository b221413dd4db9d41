package effect

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
)

// Weighted is one row of an item table.
type Weighted struct {
	Item   board.Item
	Weight int
}

// Table draws items from a fixed discrete distribution.
type Table struct {
	entries []Weighted
	total   int
}

// NewTable builds a table, skipping empty items and non-positive weights.
func NewTable(entries ...Weighted) Table {
	t := Table{}
	for _, e := range entries {
		if e.Item == board.ItemNone || e.Weight <= 0 {
			continue
		}
		t.entries = append(t.entries, e)
		t.total += e.Weight
	}
	return t
}

// DefaultTable is the stock item distribution.
func DefaultTable() Table {
	return NewTable(
		Weighted{Item: board.ItemLineClear, Weight: 20},
		Weighted{Item: board.ItemCleanup, Weight: 20},
		Weighted{Item: board.ItemBomb, Weight: 20},
		Weighted{Item: board.ItemSpeedDown, Weight: 15},
		Weighted{Item: board.ItemSpeedUp, Weight: 15},
		Weighted{Item: board.ItemVisionBlock, Weight: 10},
	)
}

func (t Table) Empty() bool { return t.total == 0 }

// Entries returns a copy of the table rows.
func (t Table) Entries() []Weighted {
	return append([]Weighted(nil), t.entries...)
}

// Pick draws one item. An empty table yields ItemNone.
func (t Table) Pick(r *rand.Rand) board.Item {
	if t.total == 0 {
		return board.ItemNone
	}
	n := r.IntN(t.total)
	for _, e := range t.entries {
		if n < e.Weight {
			return e.Item
		}
		n -= e.Weight
	}
	return t.entries[len(t.entries)-1].Item
}

// Probability returns the chance of drawing item.
func (t Table) Probability(item board.Item) float64 {
	if t.total == 0 {
		return 0
	}
	w := 0
	for _, e := range t.entries {
		if e.Item == item {
			w += e.Weight
		}
	}
	return float64(w) / float64(t.total)
}
