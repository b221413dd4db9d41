package game

import "sync"

// Commands buffers work that must run on the session goroutine. Other
// goroutines queue with Defer; the session runs the queue at the end of each
// tick with Flush. Work queued during a flush runs on the next one.
type Commands struct {
	mu     sync.Mutex
	defers []func()
	closed bool
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues fn. It reports false once the buffer has been discarded.
func (c *Commands) Defer(fn func()) bool {
	if fn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.defers = append(c.defers, fn)
	return true
}

// Flush runs every queued function in queue order and resets the buffer.
func (c *Commands) Flush() int {
	c.mu.Lock()
	pending := c.defers
	c.defers = nil
	c.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Discard drops everything queued and rejects later Defer calls.
func (c *Commands) Discard() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.defers)
	c.defers = nil
	c.closed = true
	return n
}

// Len returns the number of queued functions.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.defers)
}
