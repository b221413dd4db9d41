package game

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/plus3/blockfall/blink"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/speed"
)

// rotation kicks tried in order when a rotation collides in place.
var kicks = []int{0, -1, 1, -2, 2}

// Player is one local board with its falling block, drop speed and clear
// animation. It is the effect.Target the session hands to the effect engine.
type Player struct {
	id      effect.PlayerID
	session *Session
	board   *board.Board
	rng     *rand.Rand
	bag     []int

	current    board.Block
	hasCurrent bool
	next       int
	hold       int
	holdItem   board.Item
	holdUsed   bool

	sched *speed.Scheduler
	// override holds an effect interval below the scheduler floor.
	override time.Duration
	dropAcc  time.Duration

	animator *blink.Animator
	flash    blink.Flash

	score         int
	lines         int
	fullSinceItem int
	itemPending   bool

	visionBlocked bool
	speedItem     bool
	over          bool
}

func newPlayer(s *Session, id effect.PlayerID) *Player {
	p := &Player{
		id:      id,
		session: s,
		board:   board.New(),
		rng:     rand.New(rand.NewPCG(s.cfg.Seed, uint64(id))),
		hold:    -1,
	}
	p.sched = speed.NewScheduler(s.cfg.Speed, s.cfg.Difficulty)
	p.sched.Suspended = func() bool {
		return s.engine.SpeedModified(id)
	}
	p.sched.OnIncrease = func(interval time.Duration) {
		s.logger.Printf("[session] player %d drop interval now %v", id, interval)
		if fn := s.listener.OnSpeedIncrease; fn != nil {
			fn(id, interval)
		}
	}
	p.animator = blink.NewAnimator(p.commitRows)
	p.next = p.draw()
	return p
}

func (p *Player) ID() effect.PlayerID { return p.id }
func (p *Player) Board() *board.Board { return p.board }

// FallSpeed is the current drop interval, including effect overrides.
func (p *Player) FallSpeed() time.Duration {
	if p.override > 0 {
		return p.override
	}
	return p.sched.Interval()
}

// SetFallSpeed sets the drop interval. Values below the scheduler floor are
// held as an override until the next call at or above the floor.
func (p *Player) SetFallSpeed(d time.Duration) {
	if d < p.sched.Floor() {
		p.override = d
		return
	}
	p.override = 0
	p.sched.SetInterval(d)
}

func (p *Player) SetSpeedItemActive(active bool) { p.speedItem = active }
func (p *Player) SetVisionBlocked(blocked bool)  { p.visionBlocked = blocked }

func (p *Player) AwardLines(n int) {
	p.score += n * p.session.cfg.Scoring.Line
	p.lines += n
}

func (p *Player) AwardPoints(points int) { p.score += points }

func (p *Player) FlashCells(cells []board.Point) {
	p.flash.Start(cells, blink.CleanupFlashDuration)
}

func (p *Player) Score() int              { return p.score }
func (p *Player) Lines() int              { return p.lines }
func (p *Player) Next() int               { return p.next }
func (p *Player) VisionBlocked() bool     { return p.visionBlocked }
func (p *Player) SpeedItemActive() bool   { return p.speedItem }
func (p *Player) GameOver() bool          { return p.over }
func (p *Player) Speed() *speed.Scheduler { return p.sched }
func (p *Player) ClearState() blink.State { return p.animator.State() }

// Current returns the falling block, if any.
func (p *Player) Current() (board.Block, bool) {
	return p.current, p.hasCurrent
}

// Held returns the held block type, if any.
func (p *Player) Held() (int, bool) {
	return p.hold, p.hold >= 0
}

// Suspended reports whether movement and drop processing are on hold.
func (p *Player) Suspended() bool {
	return p.animator.Active() || p.flash.Active()
}

// draw takes the next type from a shuffled bag of all seven.
func (p *Player) draw() int {
	if len(p.bag) == 0 {
		p.bag = []int{0, 1, 2, 3, 4, 5, 6}
		p.rng.Shuffle(len(p.bag), func(i, j int) {
			p.bag[i], p.bag[j] = p.bag[j], p.bag[i]
		})
	}
	t := p.bag[0]
	p.bag = p.bag[1:]
	return t
}

func (p *Player) spawn() {
	bl := board.NewBlock(p.next)
	p.next = p.draw()
	if p.itemPending {
		p.itemPending = false
		if item := p.session.cfg.Table.Pick(p.rng); item != board.ItemNone {
			bl = bl.WithItem(item, p.rng.IntN(len(bl.Local())))
		}
	}
	p.enter(bl)
}

func (p *Player) enter(bl board.Block) {
	p.dropAcc = 0
	if !bl.Fits(p.board) {
		p.hasCurrent = false
		p.session.gameOver(p)
		return
	}
	p.current = bl
	p.hasCurrent = true
	p.sched.OnBlockSpawned()
}

func (p *Player) move(dx int) Result {
	moved := p.current.Moved(dx, 0)
	if !moved.Fits(p.board) {
		return Rejected
	}
	p.current = moved
	return Accepted
}

func (p *Player) rotate() Result {
	rotated := p.current.Rotated(true)
	for _, dx := range kicks {
		if kicked := rotated.Moved(dx, 0); kicked.Fits(p.board) {
			p.current = kicked
			return Accepted
		}
	}
	return Rejected
}

// stepDown moves the block one row, locking it when it cannot fall.
func (p *Player) stepDown() bool {
	moved := p.current.Moved(0, 1)
	if moved.Fits(p.board) {
		p.current = moved
		return true
	}
	p.lock()
	return false
}

func (p *Player) softDrop() Result {
	if p.stepDown() {
		p.score += p.session.cfg.Scoring.SoftDrop
		p.dropAcc = 0
	}
	return Accepted
}

func (p *Player) hardDrop() Result {
	rows := 0
	for {
		moved := p.current.Moved(0, 1)
		if !moved.Fits(p.board) {
			break
		}
		p.current = moved
		rows++
	}
	p.score += rows * p.session.cfg.Scoring.HardDrop
	p.lock()
	return Accepted
}

func (p *Player) swapHold() Result {
	if p.holdUsed {
		return Rejected
	}
	cur := p.current
	p.hasCurrent = false
	if p.hold < 0 {
		p.hold, p.holdItem = cur.Type, cur.Item
		p.spawn()
	} else {
		bl := board.NewBlock(p.hold).WithItem(p.holdItem, 0)
		p.hold, p.holdItem = cur.Type, cur.Item
		p.enter(bl)
	}
	p.holdUsed = true
	return Accepted
}

// lock places the falling block, fires any effect item it carried and then
// either starts the clear animation or spawns the next block.
func (p *Player) lock() {
	if !p.hasCurrent {
		return
	}
	bl := p.current
	p.hasCurrent = false
	p.holdUsed = false

	placed, above := p.board.Place(bl)
	if above {
		p.session.gameOver(p)
		return
	}

	if at, ok := bl.ItemCell(); ok && slices.Contains(placed, at) {
		p.activateItem(bl.Item, at)
	}

	if rows := p.board.ClearRequest(); p.animator.Start(rows) {
		return
	}
	p.spawn()
}

func (p *Player) activateItem(item board.Item, at board.Point) {
	kind, ok := effect.FromItem(item)
	if !ok {
		return
	}
	p.board.SetItem(at.X, at.Y, board.ItemNone)
	outcome := p.session.engine.Activate(kind, p.id, at)
	p.session.logger.Printf("[session] player %d picked up %s: %s", p.id, kind, outcome)
}

func (p *Player) commitRows(rows []int) {
	full, bomb := p.board.ClearRows(rows)
	cfg := p.session.cfg

	p.score += (full + bomb) * cfg.Scoring.Line
	p.lines += full + bomb
	p.sched.OnLinesCleared(full)

	if cfg.Items {
		p.fullSinceItem += full
		for p.fullSinceItem >= cfg.ItemEvery {
			p.fullSinceItem -= cfg.ItemEvery
			p.itemPending = true
		}
	}

	p.session.logger.Printf("[session] player %d cleared %d full and %d bomb rows", p.id, full, bomb)
	if fn := p.session.listener.OnLinesCleared; fn != nil {
		fn(p.id, full, bomb)
	}
	p.spawn()
}

// halt stops every presentation and drop timer without committing anything.
func (p *Player) halt() {
	p.animator.Stop()
	p.flash.Stop()
	p.dropAcc = 0
}
