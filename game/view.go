package game

import (
	"time"

	"github.com/plus3/blockfall/blink"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
)

// ActiveEffect is a live effect as the renderer sees it.
type ActiveEffect struct {
	Kind      effect.Kind
	Activator effect.PlayerID
	Remaining time.Duration
}

// View is a read-only render model of one player. It shares nothing with the
// session and stays valid after the next tick.
type View struct {
	Player effect.PlayerID
	// Cells is the board with the falling block overlaid.
	Cells   board.Grid
	Falling []board.Point
	Dim     [board.Height][board.Width]bool

	VisionBlocked   bool
	SpeedItemActive bool
	DropInterval    time.Duration

	Score int
	Lines int
	Next  int
	// Hold is -1 when nothing is held.
	Hold int

	Effects  []ActiveEffect
	Clearing blink.State

	Suspended bool
	Paused    bool
	GameOver  bool
}

// View builds the render model for a local player.
func (s *Session) View(id effect.PlayerID) (View, bool) {
	p, ok := s.Player(id)
	if !ok {
		return View{}, false
	}

	v := View{
		Player:          id,
		Cells:           p.board.Grid(),
		VisionBlocked:   p.visionBlocked,
		SpeedItemActive: p.speedItem,
		DropInterval:    p.FallSpeed(),
		Score:           p.score,
		Lines:           p.lines,
		Next:            p.next,
		Hold:            p.hold,
		Clearing:        p.animator.State(),
		Suspended:       p.Suspended(),
		Paused:          s.paused,
		GameOver:        p.over,
	}

	if p.hasCurrent {
		itemCell, hasItem := p.current.ItemCell()
		for _, pt := range p.current.Cells() {
			if !board.InBounds(pt.X, pt.Y) {
				continue
			}
			c := board.Filled(p.current.Type)
			if hasItem && pt == itemCell {
				c.Item = p.current.Item
			}
			v.Cells[pt.Y][pt.X] = c
			v.Falling = append(v.Falling, pt)
		}
	}

	for y := range board.Height {
		for x := range board.Width {
			v.Dim[y][x] = p.animator.IsDim(y) || p.flash.IsDim(board.Point{X: x, Y: y})
		}
	}

	now := s.engine.Now()
	for _, inst := range s.engine.Active() {
		if inst.Target != id {
			continue
		}
		v.Effects = append(v.Effects, ActiveEffect{
			Kind:      inst.Kind,
			Activator: inst.Activator,
			Remaining: inst.Remaining(now),
		})
	}
	return v, true
}

// MirrorView returns the remote opponent's board as last received.
func (s *Session) MirrorView() (board.Grid, bool) {
	if s.mirror == nil {
		return board.Grid{}, false
	}
	return s.mirror.Grid(), true
}
