package speed

import (
	"fmt"
	"strings"
)

// Difficulty is the tier that scales the drop interval decrement.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Normal
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", uint8(d))
	}
}

// Percent is the share of the NORMAL decrement applied at this tier.
func (d Difficulty) Percent() int {
	switch d {
	case Easy:
		return 80
	case Hard:
		return 120
	default:
		return 100
	}
}

// Multiplier is Percent as a factor: 0.8, 1.0 or 1.2.
func (d Difficulty) Multiplier() float64 {
	return float64(d.Percent()) / 100
}

// ParseDifficulty accepts the tier names case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "", "normal":
		return Normal, nil
	case "hard":
		return Hard, nil
	default:
		return Normal, fmt.Errorf("unknown difficulty %q", s)
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
