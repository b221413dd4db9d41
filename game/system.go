package game

import "time"

// System is one step of a session tick. Systems run in registration order on
// the session goroutine and may hold state that persists between ticks.
type System interface {
	Execute(frame *Frame)
}

// Frame is what a system sees during one tick.
type Frame struct {
	// Delta is the session time that passed since the previous tick.
	Delta time.Duration
	// Now is the session clock after this tick's advance. It does not move
	// while the session is paused.
	Now      time.Duration
	Session  *Session
	Commands *Commands
}

func newFrame(dt, now time.Duration, s *Session) *Frame {
	return &Frame{
		Delta:    dt,
		Now:      now,
		Session:  s,
		Commands: s.commands,
	}
}
