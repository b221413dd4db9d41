package effect

import (
	"time"

	"github.com/plus3/blockfall/board"
)

const (
	SlowInterval       = 1500 * time.Millisecond
	FastInterval       = 100 * time.Millisecond
	VersusFastInterval = 300 * time.Millisecond

	CleanupRadius     = 1
	CleanupCellPoints = 10
)

// Context is what an effect sees when it applies. Activator is nil for
// effects forwarded from a remote opponent.
type Context struct {
	Activator Target
	Target    Target
	Origin    board.Point
}

// Undo reverses a timed effect. Instant effects return nil.
type Undo func()

// Effect is one variant of the effect sum type.
type Effect interface {
	Kind() Kind
	Apply(c Context) Undo
}

// New returns the variant for kind. Versus mode changes SPEED_UP's interval.
func New(kind Kind, versus bool) (Effect, bool) {
	switch kind {
	case LineClear:
		return lineClear{}, true
	case Cleanup:
		return cleanup{}, true
	case SpeedDown:
		return speedChange{kind: SpeedDown, interval: SlowInterval}, true
	case SpeedUp:
		if versus {
			return speedChange{kind: SpeedUp, interval: VersusFastInterval}, true
		}
		return speedChange{kind: SpeedUp, interval: FastInterval}, true
	case VisionBlock:
		return visionBlock{}, true
	default:
		return nil, false
	}
}

type lineClear struct{}

func (lineClear) Kind() Kind { return LineClear }

func (lineClear) Apply(c Context) Undo {
	if c.Target.Board().RemoveRow(c.Origin.Y) {
		c.Target.AwardLines(1)
	}
	return nil
}

type cleanup struct{}

func (cleanup) Kind() Kind { return Cleanup }

func (cleanup) Apply(c Context) Undo {
	cleared := c.Target.Board().ClearArea(c.Origin, CleanupRadius)
	if len(cleared) > 0 {
		c.Target.AwardPoints(len(cleared) * CleanupCellPoints)
		c.Target.FlashCells(cleared)
	}
	return nil
}

type speedChange struct {
	kind     Kind
	interval time.Duration
}

func (s speedChange) Kind() Kind { return s.kind }

func (s speedChange) Apply(c Context) Undo {
	t := c.Target
	prior := t.FallSpeed()
	t.SetFallSpeed(s.interval)
	t.SetSpeedItemActive(true)
	return func() {
		t.SetFallSpeed(prior)
		t.SetSpeedItemActive(false)
	}
}

type visionBlock struct{}

func (visionBlock) Kind() Kind { return VisionBlock }

func (visionBlock) Apply(c Context) Undo {
	// The item cell on the activator's board becomes a plain block of its
	// original type. This conversion is not undone.
	if c.Activator != nil {
		c.Activator.Board().SetItem(c.Origin.X, c.Origin.Y, board.ItemNone)
	}
	t := c.Target
	t.SetVisionBlocked(true)
	return func() {
		t.SetVisionBlocked(false)
	}
}
