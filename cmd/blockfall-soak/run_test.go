package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/speed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoakFindsNoViolations(t *testing.T) {
	for _, mode := range []game.Mode{game.Solo, game.LocalVersus} {
		t.Run(mode.String(), func(t *testing.T) {
			report := &Report{Mode: mode}
			opts := Options{
				Sessions:   3,
				Workers:    2,
				Mode:       mode,
				Difficulty: speed.Hard,
				Items:      true,
				ItemEvery:  1,
				Seed:       9,
				Ticks:      3000,
			}
			require.NoError(t, soak(context.Background(), opts, report))
			report.TickTime.Finalize()

			assert.Equal(t, int64(9000), report.TotalTicks)
			assert.Equal(t, int64(9000), report.TickTime.Count)
			assert.Positive(t, report.Games)
			assert.Zero(t, report.ViolationCount, report.Violations)
			assert.NotEmpty(t, report.Systems)

			var buf bytes.Buffer
			require.NoError(t, report.Generate(&buf))
			assert.Contains(t, buf.String(), "# Blockfall Soak Report")
		})
	}
}

func TestStats(t *testing.T) {
	s := newStats(1)
	for _, ms := range []int{5, 1, 3, 2, 4} {
		s.Add(time.Duration(ms) * time.Millisecond)
	}
	other := newStats(2)
	other.Add(10 * time.Millisecond)
	s.Merge(other)
	s.Finalize()

	assert.Equal(t, int64(6), s.Count)
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 10*time.Millisecond, s.Max)
	assert.Equal(t, 25*time.Millisecond/6, s.Avg)
	assert.Equal(t, 4*time.Millisecond, s.P50)
}

func TestMergeSystems(t *testing.T) {
	a := []game.SystemStats{{Name: "DropSystem", ExecutionCount: 2, MinDuration: 2, MaxDuration: 4, TotalDuration: 6}}
	b := []game.SystemStats{
		{Name: "DropSystem", ExecutionCount: 2, MinDuration: 1, MaxDuration: 3, TotalDuration: 4},
		{Name: "ClearSystem", ExecutionCount: 1, MinDuration: 1, MaxDuration: 1, TotalDuration: 1},
	}
	merged := mergeSystems(a, b)
	require.Len(t, merged, 2)
	assert.Equal(t, int64(4), merged[0].ExecutionCount)
	assert.Equal(t, time.Duration(1), merged[0].MinDuration)
	assert.Equal(t, time.Duration(4), merged[0].MaxDuration)
	assert.Equal(t, time.Duration(10)/4, merged[0].AvgDuration)
	assert.Equal(t, "ClearSystem", merged[1].Name)
}
