// Package effect runs timed and instant gameplay modifiers ("items") against
// player boards. Every activation is paired with exactly one deactivation,
// whether by expiry, by supersession or by a forced shutdown.
package effect

import (
	"time"

	"github.com/plus3/blockfall/board"
)

// Kind identifies an effect variant.
type Kind uint8

const (
	LineClear Kind = iota
	Cleanup
	SpeedDown
	SpeedUp
	VisionBlock

	kindCount
)

// TimedDuration is the lifetime of every non-instant effect.
const TimedDuration = 5 * time.Second

var kindItems = [kindCount]board.Item{
	LineClear:   board.ItemLineClear,
	Cleanup:     board.ItemCleanup,
	SpeedDown:   board.ItemSpeedDown,
	SpeedUp:     board.ItemSpeedUp,
	VisionBlock: board.ItemVisionBlock,
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, 0, kindCount)
	for k := range kindCount {
		ks = append(ks, k)
	}
	return ks
}

func (k Kind) Valid() bool { return k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return "UNKNOWN"
	}
	return k.Item().String()
}

// Item is the board marker that triggers this kind.
func (k Kind) Item() board.Item {
	if !k.Valid() {
		return board.ItemNone
	}
	return kindItems[k]
}

// FromItem maps a board marker to its effect kind. Bomb markers and empty
// markers have no effect kind.
func FromItem(item board.Item) (Kind, bool) {
	for k, it := range kindItems {
		if it == item {
			return Kind(k), true
		}
	}
	return 0, false
}

// ParseKind returns the kind with the given wire name.
func ParseKind(name string) (Kind, bool) {
	item, ok := board.ParseItem(name)
	if !ok {
		return 0, false
	}
	return FromItem(item)
}

// Duration is zero for instant kinds.
func (k Kind) Duration() time.Duration {
	switch k {
	case SpeedDown, SpeedUp, VisionBlock:
		return TimedDuration
	default:
		return 0
	}
}

func (k Kind) Instant() bool { return k.Duration() == 0 }

// ModifiesSpeed reports whether the kind changes the drop interval. Automatic
// speed increases are suspended on a target while such an effect is active.
func (k Kind) ModifiesSpeed() bool {
	return k == SpeedDown || k == SpeedUp
}

// TargetsOpponent reports whether, in versus mode, the kind lands on the
// activating player's opponent.
func (k Kind) TargetsOpponent() bool {
	return k == SpeedUp || k == VisionBlock
}
