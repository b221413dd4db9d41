package blink

import (
	"slices"
	"time"

	"github.com/plus3/blockfall/board"
)

// CleanupFlashDuration is how long the cleanup presentation lasts: two phases.
const CleanupFlashDuration = 2 * PhaseLength

// Flash is a timed presentation over a set of cells. It holds no board state
// and commits nothing; while it is active the session suspends movement input.
type Flash struct {
	cells     []board.Point
	remaining time.Duration
	elapsed   time.Duration
}

// Start shows cells for d, replacing any running flash.
func (f *Flash) Start(cells []board.Point, d time.Duration) {
	if d <= 0 {
		f.Stop()
		return
	}
	f.cells = slices.Clone(cells)
	f.remaining = d
	f.elapsed = 0
}

// Advance moves the flash forward and reports whether it just finished.
func (f *Flash) Advance(dt time.Duration) bool {
	if f.remaining <= 0 {
		return false
	}
	f.remaining -= dt
	f.elapsed += dt
	if f.remaining > 0 {
		return false
	}
	f.Stop()
	return true
}

func (f *Flash) Stop() {
	f.cells = nil
	f.remaining = 0
	f.elapsed = 0
}

func (f *Flash) Active() bool { return f.remaining > 0 }

// IsDim reports whether the cell at p renders dimmed.
func (f *Flash) IsDim(p board.Point) bool {
	if !f.Active() {
		return false
	}
	return slices.Contains(f.cells, p) && IsDimPhase(f.elapsed)
}
