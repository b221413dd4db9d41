package blink_test

import (
	"testing"
	"time"

	"github.com/plus3/blockfall/blink"
	"github.com/plus3/blockfall/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDimPhase(t *testing.T) {
	ms := time.Millisecond
	dim := []time.Duration{0, 149 * ms, 300 * ms, 449 * ms, 600 * ms, 749 * ms}
	normal := []time.Duration{150 * ms, 299 * ms, 450 * ms, 599 * ms, 750 * ms, 899 * ms}
	over := []time.Duration{900 * ms, 1050 * ms, 10 * time.Second}

	for _, e := range dim {
		assert.True(t, blink.IsDimPhase(e), "dim at %s", e)
	}
	for _, e := range normal {
		assert.False(t, blink.IsDimPhase(e), "normal at %s", e)
	}
	for _, e := range over {
		assert.False(t, blink.IsDimPhase(e), "idle at %s", e)
	}
	assert.False(t, blink.IsDimPhase(-time.Millisecond))
}

func TestAnimatorLifecycle(t *testing.T) {
	var committed [][]int
	var stateDuringCommit blink.State
	var a *blink.Animator
	a = blink.NewAnimator(func(rows []int) {
		stateDuringCommit = a.State()
		committed = append(committed, rows)
	})

	assert.False(t, a.Start(nil), "empty clear request does not animate")
	require.True(t, a.Start([]int{17, 19}))
	assert.False(t, a.Start([]int{3}), "second start while blinking is rejected")
	assert.Equal(t, blink.Blinking, a.State())

	assert.True(t, a.IsDim(17))
	assert.False(t, a.IsDim(18))

	step := 50 * time.Millisecond
	for range 17 {
		assert.False(t, a.Advance(step))
	}
	assert.Empty(t, committed)
	assert.Equal(t, 850*time.Millisecond, a.Elapsed())
	assert.False(t, a.IsDim(17), "phase 5 is normal")

	assert.True(t, a.Advance(step))
	require.Len(t, committed, 1)
	assert.Equal(t, []int{17, 19}, committed[0])
	assert.Equal(t, blink.Committing, stateDuringCommit)
	assert.Equal(t, blink.Idle, a.State())
	assert.False(t, a.Active())

	assert.False(t, a.Advance(time.Second), "idle animator never commits again")
	assert.Len(t, committed, 1)
}

func TestAnimatorStopDoesNotCommit(t *testing.T) {
	commits := 0
	a := blink.NewAnimator(func([]int) { commits++ })
	a.Start([]int{19})
	a.Advance(400 * time.Millisecond)
	a.Stop()

	assert.False(t, a.Active())
	assert.False(t, a.Advance(time.Second))
	assert.Zero(t, commits)
	assert.Empty(t, a.Rows())
}

func TestFlash(t *testing.T) {
	var f blink.Flash
	cells := []board.Point{{X: 1, Y: 2}, {X: 2, Y: 2}}

	f.Start(cells, blink.CleanupFlashDuration)
	assert.True(t, f.Active())
	assert.True(t, f.IsDim(board.Point{X: 1, Y: 2}))
	assert.False(t, f.IsDim(board.Point{X: 5, Y: 5}))

	assert.False(t, f.Advance(200*time.Millisecond))
	assert.False(t, f.IsDim(board.Point{X: 1, Y: 2}), "second phase renders normally")
	assert.True(t, f.Advance(100*time.Millisecond))
	assert.False(t, f.Active())
	assert.False(t, f.Advance(time.Second))
}
