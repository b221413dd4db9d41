package game

import (
	"fmt"
	"strings"
)

// Action is a discrete input from the input collaborator.
type Action uint8

const (
	MoveLeft Action = iota
	MoveRight
	MoveDown
	Rotate
	HardDrop
	Pause
	Hold
	Exit
)

var actionNames = [...]string{
	MoveLeft:  "MOVE_LEFT",
	MoveRight: "MOVE_RIGHT",
	MoveDown:  "MOVE_DOWN",
	Rotate:    "ROTATE",
	HardDrop:  "HARD_DROP",
	Pause:     "PAUSE",
	Hold:      "HOLD",
	Exit:      "EXIT",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", a)
}

// ParseAction returns the action with the given name.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if strings.EqualFold(name, s) {
			return Action(i), true
		}
	}
	return 0, false
}

// AlwaysAccepted reports whether the action bypasses input suspension.
func (a Action) AlwaysAccepted() bool {
	return a == Pause || a == Exit
}

// Result is what the session did with an action.
type Result uint8

const (
	// Accepted changed the session.
	Accepted Result = iota
	// Rejected was not applicable: blocked move, spent hold, unknown player, game over.
	Rejected
	// Suspended arrived while a clear animation or cleanup blink was running.
	Suspended
	// Paused arrived while the session was paused.
	Paused
	// Closed arrived after teardown.
	Closed
)

func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Suspended:
		return "suspended"
	case Paused:
		return "paused"
	default:
		return "closed"
	}
}
