package main

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
)

// Held keys repeat after repeatDelay ticks, then every repeatInterval ticks.
const (
	repeatDelay    = 10
	repeatInterval = 3
)

type binding struct {
	key    ebiten.Key
	action game.Action
	repeat bool
}

type keymap struct {
	player   effect.PlayerID
	bindings []binding
}

var (
	arrowKeys = []binding{
		{ebiten.KeyArrowLeft, game.MoveLeft, true},
		{ebiten.KeyArrowRight, game.MoveRight, true},
		{ebiten.KeyArrowDown, game.MoveDown, true},
		{ebiten.KeyArrowUp, game.Rotate, false},
		{ebiten.KeySpace, game.HardDrop, false},
		{ebiten.KeyC, game.Hold, false},
	}
	leftHandKeys = []binding{
		{ebiten.KeyA, game.MoveLeft, true},
		{ebiten.KeyD, game.MoveRight, true},
		{ebiten.KeyS, game.MoveDown, true},
		{ebiten.KeyW, game.Rotate, false},
		{ebiten.KeyShiftLeft, game.HardDrop, false},
		{ebiten.KeyQ, game.Hold, false},
	}
	rightHandKeys = []binding{
		{ebiten.KeyArrowLeft, game.MoveLeft, true},
		{ebiten.KeyArrowRight, game.MoveRight, true},
		{ebiten.KeyArrowDown, game.MoveDown, true},
		{ebiten.KeyArrowUp, game.Rotate, false},
		{ebiten.KeyEnter, game.HardDrop, false},
		{ebiten.KeyShiftRight, game.Hold, false},
	}
	sessionKeys = []binding{
		{ebiten.KeyP, game.Pause, false},
		{ebiten.KeyEscape, game.Exit, false},
	}
)

// keymapsFor returns the per-player bindings for a session. Two local players
// split the keyboard; otherwise the local player gets the arrow layout.
func keymapsFor(mode game.Mode, local effect.PlayerID) []keymap {
	if mode == game.LocalVersus {
		return []keymap{
			{player: effect.Player1, bindings: slices.Concat(leftHandKeys, sessionKeys)},
			{player: effect.Player2, bindings: rightHandKeys},
		}
	}
	return []keymap{{player: local, bindings: slices.Concat(arrowKeys, sessionKeys)}}
}

// fires reports whether a key held for ticks should trigger this tick.
func fires(ticks int, repeat bool) bool {
	if ticks == 1 {
		return true
	}
	if !repeat || ticks < repeatDelay {
		return false
	}
	return (ticks-repeatDelay)%repeatInterval == 0
}

// pressed collects the actions triggered this tick, in binding order.
func (k keymap) pressed() []game.Action {
	var actions []game.Action
	for _, b := range k.bindings {
		if fires(inpututil.KeyPressDuration(b.key), b.repeat) {
			actions = append(actions, b.action)
		}
	}
	return actions
}
