package effect

import (
	"time"

	"github.com/plus3/blockfall/board"
)

// PlayerID names a board. Solo play uses Player1 only.
type PlayerID uint8

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other versus player.
func (p PlayerID) Opponent() PlayerID {
	if p == Player2 {
		return Player1
	}
	return Player2
}

// Target is what an effect is allowed to touch on a player. The session
// implements it once per game mode and hands it to the Engine explicitly.
type Target interface {
	ID() PlayerID
	Board() *board.Board

	FallSpeed() time.Duration
	SetFallSpeed(d time.Duration)
	SetSpeedItemActive(active bool)
	SetVisionBlocked(blocked bool)

	// AwardLines scores n line-clear-equivalents.
	AwardLines(n int)
	AwardPoints(points int)
	// FlashCells starts the cleanup-blink presentation over cells.
	FlashCells(cells []board.Point)
}
