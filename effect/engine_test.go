package effect_test

import (
	"testing"
	"time"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

type fakeTarget struct {
	id            effect.PlayerID
	board         *board.Board
	fall          time.Duration
	speedItem     bool
	vision        bool
	lines, points int
	flashed       []board.Point
	fallHistory   []time.Duration
}

func newFakeTarget(id effect.PlayerID) *fakeTarget {
	return &fakeTarget{id: id, board: board.New(), fall: 1000 * ms}
}

func (f *fakeTarget) ID() effect.PlayerID        { return f.id }
func (f *fakeTarget) Board() *board.Board        { return f.board }
func (f *fakeTarget) FallSpeed() time.Duration   { return f.fall }
func (f *fakeTarget) SetSpeedItemActive(a bool)  { f.speedItem = a }
func (f *fakeTarget) SetVisionBlocked(b bool)    { f.vision = b }
func (f *fakeTarget) AwardLines(n int)           { f.lines += n }
func (f *fakeTarget) AwardPoints(p int)          { f.points += p }
func (f *fakeTarget) FlashCells(c []board.Point) { f.flashed = append(f.flashed, c...) }

func (f *fakeTarget) SetFallSpeed(d time.Duration) {
	f.fall = d
	f.fallHistory = append(f.fallHistory, d)
}

func soloEngine(t *testing.T) (*effect.Engine, *fakeTarget) {
	t.Helper()
	e := effect.NewEngine(effect.Options{})
	p := newFakeTarget(effect.Player1)
	e.Attach(p)
	return e, p
}

func versusEngine(t *testing.T) (*effect.Engine, *fakeTarget, *fakeTarget) {
	t.Helper()
	e := effect.NewEngine(effect.Options{Versus: true})
	p1 := newFakeTarget(effect.Player1)
	p2 := newFakeTarget(effect.Player2)
	e.Attach(p1)
	e.Attach(p2)
	return e, p1, p2
}

func TestKeyEncoding(t *testing.T) {
	k := effect.NewKey(effect.Player2, effect.VisionBlock)
	assert.Equal(t, effect.Player2, k.Target())
	assert.Equal(t, effect.VisionBlock, k.Kind())
	assert.NotEqual(t, k, effect.NewKey(effect.Player1, effect.VisionBlock))
}

func TestKindContract(t *testing.T) {
	assert.Zero(t, effect.LineClear.Duration())
	assert.Zero(t, effect.Cleanup.Duration())
	assert.Equal(t, 5*time.Second, effect.SpeedDown.Duration())
	assert.Equal(t, 5*time.Second, effect.SpeedUp.Duration())
	assert.Equal(t, 5*time.Second, effect.VisionBlock.Duration())

	for _, k := range effect.Kinds() {
		back, ok := effect.FromItem(k.Item())
		require.True(t, ok)
		assert.Equal(t, k, back)
	}
	_, ok := effect.FromItem(board.ItemBomb)
	assert.False(t, ok, "bomb is a board marker, not an effect")
}

func TestSpeedDownRestoresOnExpiry(t *testing.T) {
	e, p := soloEngine(t)

	require.Equal(t, effect.Activated, e.Activate(effect.SpeedDown, effect.Player1, board.Point{}))
	assert.Equal(t, 1500*ms, p.fall)
	assert.True(t, p.speedItem)
	assert.True(t, e.SpeedModified(effect.Player1))

	assert.Empty(t, e.Advance(4999*ms))
	assert.True(t, e.IsActive(effect.SpeedDown, effect.Player1))

	ended := e.Advance(1 * ms)
	require.Len(t, ended, 1)
	assert.Equal(t, effect.SpeedDown, ended[0].Kind)
	assert.False(t, e.IsActive(effect.SpeedDown, effect.Player1))
	assert.Equal(t, 1000*ms, p.fall)
	assert.False(t, p.speedItem)
	assert.False(t, e.SpeedModified(effect.Player1))
}

func TestActivateIsIdempotentWhileActive(t *testing.T) {
	e, p := soloEngine(t)

	e.Activate(effect.SpeedUp, effect.Player1, board.Point{})
	e.Advance(2 * time.Second)
	before, ok := e.Instance(effect.SpeedUp, effect.Player1)
	require.True(t, ok)
	pending := e.Pending()

	assert.Equal(t, effect.AlreadyActive, e.Activate(effect.SpeedUp, effect.Player1, board.Point{}))
	after, ok := e.Instance(effect.SpeedUp, effect.Player1)
	require.True(t, ok)
	assert.Equal(t, before, after, "start time and duration are unchanged")
	assert.Equal(t, pending, e.Pending(), "no second timer is scheduled")
	assert.Equal(t, []time.Duration{100 * ms}, p.fallHistory)

	e.Advance(3 * time.Second)
	assert.Equal(t, 1000*ms, p.fall, "restores the interval saved by the first activation")
}

func TestDeactivateIsIdempotent(t *testing.T) {
	e, p := soloEngine(t)

	assert.False(t, e.Deactivate(effect.VisionBlock, effect.Player1))

	e.Activate(effect.VisionBlock, effect.Player1, board.Point{})
	assert.True(t, p.vision)
	assert.True(t, e.Deactivate(effect.VisionBlock, effect.Player1))
	assert.False(t, p.vision)
	assert.False(t, e.Deactivate(effect.VisionBlock, effect.Player1))

	// the stale expiry must not end a later activation early
	e.Advance(1 * time.Second)
	e.Activate(effect.VisionBlock, effect.Player1, board.Point{})
	assert.Empty(t, e.Advance(4*time.Second))
	assert.True(t, p.vision)
	assert.Len(t, e.Advance(1*time.Second), 1)
	assert.False(t, p.vision)
}

func TestVersusTargetSwap(t *testing.T) {
	tests := []struct {
		activator effect.PlayerID
		target    effect.PlayerID
	}{
		{effect.Player1, effect.Player2},
		{effect.Player2, effect.Player1},
	}

	for _, tt := range tests {
		e, p1, p2 := versusEngine(t)
		players := map[effect.PlayerID]*fakeTarget{effect.Player1: p1, effect.Player2: p2}
		victim := players[tt.target]
		source := players[tt.activator]

		require.Equal(t, effect.Activated, e.Activate(effect.SpeedUp, tt.activator, board.Point{}))
		inst, ok := e.Instance(effect.SpeedUp, tt.target)
		require.True(t, ok)
		assert.Equal(t, tt.target, inst.Target)
		assert.Equal(t, tt.activator, inst.Activator)
		assert.Equal(t, 300*ms, victim.fall, "versus SPEED_UP interval")
		assert.Equal(t, 1000*ms, source.fall)
		assert.False(t, e.IsActive(effect.SpeedUp, tt.activator))

		e.Advance(effect.TimedDuration)
		assert.Equal(t, 1000*ms, victim.fall)
	}
}

func TestSelfTargetedKindsInVersus(t *testing.T) {
	e, p1, p2 := versusEngine(t)

	e.Activate(effect.SpeedDown, effect.Player2, board.Point{})
	assert.Equal(t, 1500*ms, p2.fall)
	assert.Equal(t, 1000*ms, p1.fall)

	for x := range board.Width {
		p2.board.Set(x, 19, board.Filled(1))
	}
	assert.Equal(t, effect.Completed, e.Activate(effect.LineClear, effect.Player2, board.Point{X: 3, Y: 19}))
	assert.Zero(t, p2.board.FilledCount())
	assert.Equal(t, 1, p2.lines)
	assert.Zero(t, p1.lines)
}

func TestVisionBlockConvertsItemCell(t *testing.T) {
	e, p1, p2 := versusEngine(t)
	p1.board.Set(4, 18, board.Filled(5))
	p1.board.SetItem(4, 18, board.ItemVisionBlock)

	e.Activate(effect.VisionBlock, effect.Player1, board.Point{X: 4, Y: 18})
	assert.True(t, p2.vision)
	assert.False(t, p1.vision)

	c, _ := p1.board.At(4, 18)
	assert.Equal(t, board.Filled(5), c, "item cell keeps its pre-item type")

	e.Advance(effect.TimedDuration)
	assert.False(t, p2.vision)
	c, _ = p1.board.At(4, 18)
	assert.Equal(t, board.Filled(5), c, "conversion is permanent")
}

func TestCleanupClearsNeighbourhood(t *testing.T) {
	e, p := soloEngine(t)
	for y := 16; y < board.Height; y++ {
		for x := range board.Width {
			p.board.Set(x, y, board.Filled(2))
		}
	}

	assert.Equal(t, effect.Completed, e.Activate(effect.Cleanup, effect.Player1, board.Point{X: 5, Y: 18}))
	assert.Equal(t, 40-9, p.board.FilledCount())
	assert.Equal(t, 90, p.points)
	assert.Len(t, p.flashed, 9)
	assert.False(t, e.IsActive(effect.Cleanup, effect.Player1), "instant effects end in the same call")
}

func TestSpeedEffectsSupersedeEachOther(t *testing.T) {
	var reasons []effect.EndReason
	e := effect.NewEngine(effect.Options{
		OnEnd: func(_ effect.Instance, r effect.EndReason) { reasons = append(reasons, r) },
	})
	p := newFakeTarget(effect.Player1)
	e.Attach(p)

	e.Activate(effect.SpeedDown, effect.Player1, board.Point{})
	e.Advance(1 * time.Second)
	e.Activate(effect.SpeedUp, effect.Player1, board.Point{})

	assert.False(t, e.IsActive(effect.SpeedDown, effect.Player1))
	assert.True(t, e.IsActive(effect.SpeedUp, effect.Player1))
	assert.Equal(t, 100*ms, p.fall)
	assert.Equal(t, []effect.EndReason{effect.EndSuperseded}, reasons)

	e.Advance(10 * time.Second)
	assert.Equal(t, 1000*ms, p.fall, "base interval survives overlapping speed items")
	assert.False(t, p.speedItem)
}

func TestShutdownRestoresEverything(t *testing.T) {
	e, p1, p2 := versusEngine(t)
	e.Activate(effect.SpeedUp, effect.Player1, board.Point{})
	e.Activate(effect.VisionBlock, effect.Player1, board.Point{})
	e.Activate(effect.SpeedDown, effect.Player1, board.Point{})
	e.Activate(effect.VisionBlock, effect.Player2, board.Point{})
	require.Len(t, e.Active(), 4)

	assert.Equal(t, 4, e.Shutdown())
	assert.Empty(t, e.Active())
	assert.Zero(t, e.Pending())
	assert.Equal(t, 1000*ms, p1.fall)
	assert.Equal(t, 1000*ms, p2.fall)
	assert.False(t, p1.vision)
	assert.False(t, p2.vision)
	assert.False(t, p1.speedItem)
	assert.False(t, p2.speedItem)

	assert.Zero(t, e.Shutdown())
	assert.Equal(t, effect.Rejected, e.Activate(effect.SpeedDown, effect.Player1, board.Point{}))
	assert.Empty(t, e.Advance(time.Minute))
}

func TestForwardToRemoteOpponent(t *testing.T) {
	e := effect.NewEngine(effect.Options{Versus: true})
	p1 := newFakeTarget(effect.Player1)
	e.Attach(p1)

	assert.Equal(t, effect.Rejected, e.Activate(effect.SpeedUp, effect.Player1, board.Point{}))

	var sent []effect.Kind
	e.SetForwarder(func(k effect.Kind, target effect.PlayerID) bool {
		assert.Equal(t, effect.Player2, target)
		sent = append(sent, k)
		return true
	})
	assert.Equal(t, effect.Forwarded, e.Activate(effect.VisionBlock, effect.Player1, board.Point{}))
	assert.Equal(t, []effect.Kind{effect.VisionBlock}, sent)
	assert.False(t, p1.vision)

	assert.Equal(t, effect.Activated, e.ActivateOn(effect.SpeedUp, effect.Player1))
	assert.Equal(t, 300*ms, p1.fall)
}
