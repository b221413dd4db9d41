package debugui_test

import (
	"testing"
	"time"

	"github.com/plus3/blockfall/debugui"
	"github.com/stretchr/testify/assert"
)

func TestFrameHistory(t *testing.T) {
	h := debugui.NewFrameHistory(3)
	assert.Zero(t, h.Average())

	h.Push(10 * time.Millisecond)
	h.Push(20 * time.Millisecond)
	assert.Equal(t, 2, h.Len())
	assert.InDelta(t, 15.0, h.Average(), 1e-6)

	h.Push(30 * time.Millisecond)
	h.Push(40 * time.Millisecond)
	assert.Equal(t, 3, h.Len(), "history wraps at capacity")
	assert.InDelta(t, 30.0, h.Average(), 1e-6)
}
