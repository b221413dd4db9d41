package speed_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/plus3/blockfall/speed"
	"github.com/stretchr/testify/assert"
)

const ms = time.Millisecond

func TestDecrementByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty speed.Difficulty
		want       time.Duration
	}{
		{speed.Easy, 160 * ms},
		{speed.Normal, 200 * ms},
		{speed.Hard, 240 * ms},
	}
	for _, tt := range tests {
		t.Run(tt.difficulty.String(), func(t *testing.T) {
			s := speed.NewScheduler(speed.DefaultConfig(), tt.difficulty)
			assert.Equal(t, tt.want, s.Decrement())
		})
	}
}

func TestFloorClamp(t *testing.T) {
	s := speed.NewScheduler(speed.DefaultConfig(), speed.Normal)

	var seen []time.Duration
	s.OnIncrease = func(d time.Duration) { seen = append(seen, d) }

	for range 6 {
		assert.True(t, s.OnLinesCleared(1))
	}
	assert.Equal(t,
		[]time.Duration{800 * ms, 600 * ms, 400 * ms, 400 * ms, 400 * ms, 400 * ms},
		seen)
	assert.Equal(t, s.Floor(), s.Interval())
}

func TestBlockCounterThreshold(t *testing.T) {
	s := speed.NewScheduler(speed.DefaultConfig(), speed.Normal)

	for range 4 {
		assert.False(t, s.OnBlockSpawned())
	}
	blocks, lines := s.Counters()
	assert.Equal(t, 4, blocks)
	assert.Zero(t, lines)

	assert.True(t, s.OnBlockSpawned())
	assert.Equal(t, 800*ms, s.Interval())
	blocks, lines = s.Counters()
	assert.Zero(t, blocks, "both counters reset on a step")
	assert.Zero(t, lines)
}

func TestSuspendedWhileSpeedEffectActive(t *testing.T) {
	s := speed.NewScheduler(speed.DefaultConfig(), speed.Normal)
	suspended := true
	s.Suspended = func() bool { return suspended }

	for range 7 {
		assert.False(t, s.OnBlockSpawned())
	}
	assert.False(t, s.OnLinesCleared(2))
	assert.Equal(t, 1000*ms, s.Interval())

	suspended = false
	assert.True(t, s.OnBlockSpawned(), "accumulated counts apply once the gate lifts")
	assert.Equal(t, 800*ms, s.Interval())
}

func TestResetAndSetInterval(t *testing.T) {
	s := speed.NewScheduler(speed.DefaultConfig(), speed.Hard)
	s.OnLinesCleared(1)
	s.OnBlockSpawned()

	s.SetInterval(100 * ms)
	assert.Equal(t, 400*ms, s.Interval(), "interval never goes below the floor")
	s.SetInterval(1500 * ms)
	assert.Equal(t, 1500*ms, s.Interval())

	s.Reset()
	assert.Equal(t, 1000*ms, s.Interval())
	blocks, lines := s.Counters()
	assert.Zero(t, blocks)
	assert.Zero(t, lines)
}

func TestParseDifficulty(t *testing.T) {
	d, err := speed.ParseDifficulty("HARD")
	assert.NoError(t, err)
	assert.Equal(t, speed.Hard, d)

	_, err = speed.ParseDifficulty("nightmare")
	assert.Error(t, err)

	var u speed.Difficulty
	assert.NoError(t, u.UnmarshalText([]byte("easy")))
	assert.Equal(t, speed.Easy, u)
}

func ExampleScheduler() {
	s := speed.NewScheduler(speed.DefaultConfig(), speed.Normal)
	for range 4 {
		s.OnLinesCleared(1)
		fmt.Println(s.Interval())
	}
	// Output:
	// 800ms
	// 600ms
	// 400ms
	// 400ms
}
