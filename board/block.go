package board

// Shape is a square occupancy matrix indexed [row][column].
type Shape [][]bool

var shapes = [TypeCount]Shape{
	{ // I
		{false, false, false, false},
		{true, true, true, true},
		{false, false, false, false},
		{false, false, false, false},
	},
	{ // O
		{false, false, false, false},
		{false, true, true, false},
		{false, true, true, false},
		{false, false, false, false},
	},
	{ // T
		{false, false, false, false},
		{false, true, false, false},
		{true, true, true, false},
		{false, false, false, false},
	},
	{ // S
		{false, false, false, false},
		{false, true, true, false},
		{true, true, false, false},
		{false, false, false, false},
	},
	{ // Z
		{false, false, false, false},
		{true, true, false, false},
		{false, true, true, false},
		{false, false, false, false},
	},
	{ // J
		{false, false, false, false},
		{true, false, false, false},
		{true, true, true, false},
		{false, false, false, false},
	},
	{ // L
		{false, false, false, false},
		{false, false, true, false},
		{true, true, true, false},
		{false, false, false, false},
	},
}

// SpawnPoint is where a new block's shape matrix is placed. Every shape leaves
// its first matrix row empty, so the block's top cells land on row 0.
var SpawnPoint = Point{X: 3, Y: -1}

// Block is the falling block. It is a value: moves and rotations return a new
// Block and leave the receiver untouched.
type Block struct {
	Type     int
	Shape    Shape
	Rotation int
	Pos      Point

	// Item is carried by the shape-local cell ItemAt when not ItemNone.
	Item   Item
	ItemAt Point
}

// NewBlock returns a block of the given type at the spawn point.
func NewBlock(typeID int) Block {
	if typeID < 0 || typeID >= TypeCount {
		typeID = 0
	}
	return Block{
		Type:  typeID,
		Shape: copyShape(shapes[typeID]),
		Pos:   SpawnPoint,
	}
}

// Local returns the occupied shape-local coordinates in row-major order.
func (bl Block) Local() []Point {
	var pts []Point
	for i := range bl.Shape {
		for j, v := range bl.Shape[i] {
			if v {
				pts = append(pts, Point{X: j, Y: i})
			}
		}
	}
	return pts
}

// Cells returns the board coordinates the block occupies.
func (bl Block) Cells() []Point {
	local := bl.Local()
	for i := range local {
		local[i].X += bl.Pos.X
		local[i].Y += bl.Pos.Y
	}
	return local
}

// ItemCell returns the board coordinate of the carried item.
func (bl Block) ItemCell() (Point, bool) {
	if bl.Item == ItemNone {
		return Point{}, false
	}
	return Point{X: bl.Pos.X + bl.ItemAt.X, Y: bl.Pos.Y + bl.ItemAt.Y}, true
}

// WithItem attaches item to the index-th occupied cell (row-major order).
func (bl Block) WithItem(item Item, index int) Block {
	local := bl.Local()
	if len(local) == 0 || item == ItemNone {
		return bl
	}
	if index < 0 {
		index = 0
	}
	bl.Item = item
	bl.ItemAt = local[index%len(local)]
	return bl
}

// Moved returns the block shifted by (dx, dy).
func (bl Block) Moved(dx, dy int) Block {
	bl.Pos.X += dx
	bl.Pos.Y += dy
	return bl
}

// Rotated returns the block turned a quarter clockwise or counter-clockwise.
// The carried item rotates with its cell.
func (bl Block) Rotated(clockwise bool) Block {
	size := len(bl.Shape)
	rotated := make(Shape, size)
	for i := range rotated {
		rotated[i] = make([]bool, size)
	}

	for i := range size {
		for j := range size {
			if clockwise {
				rotated[j][size-1-i] = bl.Shape[i][j]
			} else {
				rotated[size-1-j][i] = bl.Shape[i][j]
			}
		}
	}

	if bl.Item != ItemNone {
		r, c := bl.ItemAt.Y, bl.ItemAt.X
		if clockwise {
			bl.ItemAt = Point{X: size - 1 - r, Y: c}
		} else {
			bl.ItemAt = Point{X: r, Y: size - 1 - c}
		}
	}

	bl.Shape = rotated
	if clockwise {
		bl.Rotation = (bl.Rotation + 1) % 4
	} else {
		bl.Rotation = (bl.Rotation + 3) % 4
	}
	return bl
}

// Fits reports whether the block can occupy its position on b.
func (bl Block) Fits(b *Board) bool {
	for _, p := range bl.Cells() {
		if b.Occupied(p.X, p.Y) {
			return false
		}
	}
	return true
}

// Place writes the block into the board and returns the cells it filled.
// above is true when part of the block rests above row 0; those cells are
// dropped and the caller treats the placement as a top-out.
func (b *Board) Place(bl Block) (placed []Point, above bool) {
	itemCell, hasItem := bl.ItemCell()
	for _, p := range bl.Cells() {
		if p.Y < 0 {
			above = true
			continue
		}
		c := Filled(bl.Type)
		if hasItem && p == itemCell {
			c.Item = bl.Item
		}
		if b.Set(p.X, p.Y, c) {
			placed = append(placed, p)
		}
	}
	return placed, above
}

func copyShape(s Shape) Shape {
	out := make(Shape, len(s))
	for i := range s {
		out[i] = make([]bool, len(s[i]))
		copy(out[i], s[i])
	}
	return out
}
