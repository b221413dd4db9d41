package game

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/speed"
)

// Mode selects how many boards a session owns and where the opponent lives.
type Mode uint8

const (
	// Solo is one local player.
	Solo Mode = iota
	// LocalVersus is two players sharing one session.
	LocalVersus
	// NetVersus is one local player whose opponent is mirrored from snapshots.
	NetVersus
)

func (m Mode) String() string {
	switch m {
	case LocalVersus:
		return "local-versus"
	case NetVersus:
		return "net-versus"
	default:
		return "solo"
	}
}

// Versus reports whether effects use versus targeting.
func (m Mode) Versus() bool { return m != Solo }

// ParseMode returns the mode with the given name. An empty name is Solo.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solo":
		return Solo, nil
	case "local-versus", "local":
		return LocalVersus, nil
	case "net-versus", "net":
		return NetVersus, nil
	default:
		return Solo, fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Scoring holds the point values the session awards.
type Scoring struct {
	// Line is awarded per line-clear-equivalent, full or bomb.
	Line     int
	SoftDrop int
	HardDrop int
}

func DefaultScoring() Scoring {
	return Scoring{Line: 100, SoftDrop: 1, HardDrop: 2}
}

// Listener receives session events on the session goroutine. Any hook may be nil.
type Listener struct {
	OnSpeedIncrease func(player effect.PlayerID, interval time.Duration)
	OnLinesCleared  func(player effect.PlayerID, full, bomb int)
	OnEffectStart   func(inst effect.Instance)
	OnEffectEnd     func(inst effect.Instance, reason effect.EndReason)
	OnGameOver      func(loser effect.PlayerID)
}

// Config is everything a session needs, passed once at construction.
type Config struct {
	Mode Mode
	// Local is the player this process controls in NetVersus. Player1 otherwise.
	Local effect.PlayerID

	Difficulty speed.Difficulty
	Speed      speed.Config
	Scoring    Scoring

	// Items turns on item blocks: every ItemEvery full rows, the next block
	// carries one marker drawn from Table.
	Items     bool
	ItemEvery int
	Table     effect.Table

	// Seed makes block order and item draws reproducible.
	Seed uint64

	Logger   *log.Logger
	Listener Listener
}

// DefaultConfig is a solo session at normal difficulty with items on.
func DefaultConfig() Config {
	return Config{
		Mode:       Solo,
		Local:      effect.Player1,
		Difficulty: speed.Normal,
		Speed:      speed.DefaultConfig(),
		Scoring:    DefaultScoring(),
		Items:      true,
		ItemEvery:  10,
		Table:      effect.DefaultTable(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Mode != NetVersus || c.Local != effect.Player2 {
		c.Local = effect.Player1
	}
	if c.Scoring == (Scoring{}) {
		c.Scoring = def.Scoring
	}
	if c.ItemEvery <= 0 {
		c.ItemEvery = def.ItemEvery
	}
	if c.Items && c.Table.Empty() {
		c.Table = def.Table
	}
	return c
}
