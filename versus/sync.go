package versus

import (
	"time"

	"github.com/plus3/blockfall/game"
)

// DefaultSnapshotInterval is how often the local board is streamed.
const DefaultSnapshotInterval = 100 * time.Millisecond

// SyncSystem streams the local player's board to the opponent.
type SyncSystem struct {
	Peer     *Peer
	Interval time.Duration

	Sent    int
	Dropped int
	acc     time.Duration
}

func (s *SyncSystem) Execute(frame *game.Frame) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSnapshotInterval
	}
	s.acc += frame.Delta
	if s.acc < interval {
		return
	}
	s.acc = 0

	snap, ok := frame.Session.Snapshot(s.Peer.Local())
	if !ok {
		return
	}
	if err := s.Peer.SendSnapshot(snap); err != nil {
		s.Dropped++
		return
	}
	s.Sent++
}
