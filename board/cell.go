// Package board holds the playfield model: a fixed grid of cells, the falling
// block, row detection and removal, and the versus-mode snapshot codec.
package board

// Item is a marker carried by a cell or by one cell of a falling block.
type Item uint8

const (
	ItemNone Item = iota
	ItemBomb
	ItemLineClear
	ItemCleanup
	ItemSpeedDown
	ItemSpeedUp
	ItemVisionBlock

	itemCount
)

var itemNames = [...]string{
	ItemNone:        "NONE",
	ItemBomb:        "BOMB",
	ItemLineClear:   "LINE_CLEAR",
	ItemCleanup:     "CLEANUP",
	ItemSpeedDown:   "SPEED_DOWN",
	ItemSpeedUp:     "SPEED_UP",
	ItemVisionBlock: "VISION_BLOCK",
}

func (i Item) String() string {
	if i >= itemCount {
		return "UNKNOWN"
	}
	return itemNames[i]
}

// ParseItem returns the item with the given name.
func ParseItem(name string) (Item, bool) {
	for i, n := range itemNames {
		if n == name {
			return Item(i), true
		}
	}
	return ItemNone, false
}

// TypeCount is the number of block types; valid type ids are 0..TypeCount-1.
const TypeCount = 7

// Cell is one grid position. An empty cell has Type 0 and no Item.
type Cell struct {
	Filled bool
	Type   int
	Item   Item
}

// Valid reports whether the cell satisfies the filled/type/item invariant.
func (c Cell) Valid() bool {
	if !c.Filled {
		return c.Item == ItemNone
	}
	return c.Type >= 0 && c.Type < TypeCount
}

// Filled returns a filled cell of the given block type.
func Filled(typeID int) Cell {
	return Cell{Filled: true, Type: typeID}
}

// Point is a grid coordinate, X is the column and Y the row (0 at the top).
type Point struct {
	X, Y int
}
