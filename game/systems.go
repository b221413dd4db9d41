package game

// ExpirySystem advances the effect engine clock and ends due effects.
type ExpirySystem struct {
	Expired int
}

func (s *ExpirySystem) Execute(frame *Frame) {
	s.Expired += len(frame.Session.engine.Advance(frame.Delta))
}

// ClearSystem advances each player's clear animation and cleanup blink. The
// animation commits its rows and spawns the next block when it completes.
type ClearSystem struct {
	Commits int
}

func (s *ClearSystem) Execute(frame *Frame) {
	for _, p := range frame.Session.players {
		if frame.Session.over {
			return
		}
		p.flash.Advance(frame.Delta)
		if p.animator.Advance(frame.Delta) {
			s.Commits++
		}
	}
}

// DropSystem moves falling blocks down one row per elapsed drop interval.
// Players whose input is suspended do not accumulate drop time.
type DropSystem struct {
	Steps int
}

func (s *DropSystem) Execute(frame *Frame) {
	sess := frame.Session
	for _, p := range sess.players {
		if sess.over || p.over || !p.hasCurrent || p.Suspended() {
			continue
		}
		p.dropAcc += frame.Delta
		for !sess.over && p.hasCurrent && !p.Suspended() {
			interval := p.FallSpeed()
			if interval <= 0 || p.dropAcc < interval {
				break
			}
			p.dropAcc -= interval
			p.stepDown()
			s.Steps++
		}
	}
}
