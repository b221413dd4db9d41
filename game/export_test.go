package game

import "github.com/plus3/blockfall/board"

// SetCurrent replaces the falling block.
func (p *Player) SetCurrent(bl board.Block) {
	p.current = bl
	p.hasCurrent = true
}
