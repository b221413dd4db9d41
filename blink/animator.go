// Package blink implements the line-clear animation: a fixed six-phase blink
// over the rows pending removal, followed by a single commit.
package blink

import (
	"slices"
	"time"
)

const (
	PhaseLength = 150 * time.Millisecond
	Phases      = 6
	Duration    = PhaseLength * Phases
)

// State is the animator's lifecycle position.
type State uint8

const (
	Idle State = iota
	Blinking
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Blinking:
		return "Blinking"
	case Committing:
		return "Committing"
	default:
		return "Unknown"
	}
}

// IsDimPhase reports whether cells under animation render dimmed at elapsed.
// Phases 0, 2 and 4 are dim; nothing is dim once the animation is over.
func IsDimPhase(elapsed time.Duration) bool {
	if elapsed < 0 {
		return false
	}
	phase := int(elapsed / PhaseLength)
	return phase < Phases && phase%2 == 0
}

// CommitFunc removes the animated rows. It runs exactly once per animation,
// while the animator is in the Committing state.
type CommitFunc func(rows []int)

// Animator is the clear animation state machine. It is driven by Advance from
// the owning goroutine and is not safe for concurrent use.
type Animator struct {
	state   State
	rows    []int
	elapsed time.Duration
	commit  CommitFunc
}

// NewAnimator creates an idle animator that calls commit when an animation ends.
func NewAnimator(commit CommitFunc) *Animator {
	return &Animator{commit: commit}
}

// Start begins blinking rows. It is rejected when rows is empty or an
// animation is already running.
func (a *Animator) Start(rows []int) bool {
	if a.state != Idle || len(rows) == 0 {
		return false
	}
	a.state = Blinking
	a.rows = slices.Clone(rows)
	a.elapsed = 0
	return true
}

// Advance moves the animation forward by dt. It returns true on the call that
// commits the rows.
func (a *Animator) Advance(dt time.Duration) bool {
	if a.state != Blinking {
		return false
	}
	a.elapsed += dt
	if a.elapsed < Duration {
		return false
	}

	a.state = Committing
	rows := a.rows
	if a.commit != nil {
		a.commit(rows)
	}
	a.reset()
	return true
}

// Stop abandons a running animation without committing it.
func (a *Animator) Stop() {
	a.reset()
}

func (a *Animator) reset() {
	a.state = Idle
	a.rows = nil
	a.elapsed = 0
}

func (a *Animator) State() State           { return a.state }
func (a *Animator) Active() bool           { return a.state != Idle }
func (a *Animator) Elapsed() time.Duration { return a.elapsed }

// Rows returns a copy of the rows being animated.
func (a *Animator) Rows() []int {
	return slices.Clone(a.rows)
}

// IsDim reports whether cells of row render dimmed right now.
func (a *Animator) IsDim(row int) bool {
	if a.state != Blinking {
		return false
	}
	return slices.Contains(a.rows, row) && IsDimPhase(a.elapsed)
}
