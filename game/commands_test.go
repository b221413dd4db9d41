package game_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	var c game.Commands
	assert.False(t, c.Defer(nil))

	ran := 0
	require.True(t, c.Defer(func() { ran++ }))
	require.True(t, c.Defer(func() { ran++ }))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Flush())
	assert.Equal(t, 2, ran)
	assert.Zero(t, c.Len())

	c.Defer(func() { ran++ })
	assert.Equal(t, 1, c.Discard())
	assert.False(t, c.Defer(func() { ran++ }), "discarded buffer rejects work")
	assert.Zero(t, c.Flush())
	assert.Equal(t, 2, ran)
}

type deferringSystem struct {
	order []string
}

func (d *deferringSystem) Execute(frame *game.Frame) {
	d.order = append(d.order, "execute")
	frame.Commands.Defer(func() {
		d.order = append(d.order, "deferred")
		frame.Commands.Defer(func() { d.order = append(d.order, "requeued") })
	})
}

func TestDeferredWorkRunsAfterSystems(t *testing.T) {
	s, _ := newSolo(t, testConfig())
	sys := &deferringSystem{}
	s.Register(sys)

	s.Tick(16 * ms)
	assert.Equal(t, []string{"execute", "deferred"}, sys.order)

	s.Tick(16 * ms)
	assert.Equal(t, []string{"execute", "deferred", "execute", "requeued", "deferred"}, sys.order,
		"work queued during a flush waits for the next tick")

	require.Equal(t, 4, s.Stats().SystemCount)
	assert.Equal(t, "deferringSystem", s.Stats().Systems[3].Name)
}

type tickCounter struct {
	ticks int
	last  time.Duration
}

func (c *tickCounter) Execute(frame *game.Frame) {
	c.ticks++
	c.last = frame.Now
}

// Custom systems run after the built-in ones on every unpaused tick.
func ExampleSession_Register() {
	s := game.NewSession(game.Config{Seed: 1})
	defer s.Close()

	counter := &tickCounter{}
	s.Register(counter)

	s.Tick(100 * time.Millisecond)
	s.Tick(100 * time.Millisecond)
	s.HandleAction(effect.Player1, game.Pause)
	s.Tick(100 * time.Millisecond)

	fmt.Println(counter.ticks, counter.last)
	// Output: 2 200ms
}
