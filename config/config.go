// Package config loads the YAML game configuration and persists user
// settings and best scores.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/speed"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk configuration.
type Config struct {
	Mode       game.Mode        `yaml:"mode"`
	Difficulty speed.Difficulty `yaml:"difficulty"`
	// Seed fixes block order; zero picks a random seed per session.
	Seed uint64 `yaml:"seed,omitempty"`

	Speed   SpeedConfig   `yaml:"speed"`
	Items   ItemsConfig   `yaml:"items"`
	Scoring ScoringConfig `yaml:"scoring"`
	Network NetworkConfig `yaml:"network"`
}

type SpeedConfig struct {
	Initial       time.Duration `yaml:"initial"`
	Floor         time.Duration `yaml:"floor"`
	Decrement     time.Duration `yaml:"decrement"`
	BlocksPerStep int           `yaml:"blocks_per_step"`
	LinesPerStep  int           `yaml:"lines_per_step"`
}

type ItemsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Every is the number of full rows between item blocks.
	Every int          `yaml:"every"`
	Table []ItemWeight `yaml:"table"`
}

// ItemWeight is one row of the item table, by item name (e.g. SPEED_UP, BOMB).
type ItemWeight struct {
	Item   string `yaml:"item"`
	Weight int    `yaml:"weight"`
}

type ScoringConfig struct {
	Line     int `yaml:"line"`
	SoftDrop int `yaml:"soft_drop"`
	HardDrop int `yaml:"hard_drop"`
}

type NetworkConfig struct {
	// Listen is the host address for a networked match.
	Listen string `yaml:"listen"`
	// Peer is the ws:// URL a joining player dials.
	Peer             string        `yaml:"peer,omitempty"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
}

// Default returns the stock configuration.
func Default() Config {
	sc := speed.DefaultConfig()
	gc := game.DefaultConfig()

	var table []ItemWeight
	for _, w := range gc.Table.Entries() {
		table = append(table, ItemWeight{Item: w.Item.String(), Weight: w.Weight})
	}

	return Config{
		Mode:       game.Solo,
		Difficulty: speed.Normal,
		Speed: SpeedConfig{
			Initial:       sc.Initial,
			Floor:         sc.Floor,
			Decrement:     sc.Decrement,
			BlocksPerStep: sc.BlocksPerStep,
			LinesPerStep:  sc.LinesPerStep,
		},
		Items: ItemsConfig{
			Enabled: gc.Items,
			Every:   gc.ItemEvery,
			Table:   table,
		},
		Scoring: ScoringConfig{
			Line:     gc.Scoring.Line,
			SoftDrop: gc.Scoring.SoftDrop,
			HardDrop: gc.Scoring.HardDrop,
		},
		Network: NetworkConfig{
			Listen:           ":7777",
			SnapshotInterval: 100 * time.Millisecond,
		},
	}
}

// Load reads and validates the file at path. Fields missing from the file
// keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write stores cfg as YAML at path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports the first problem with cfg, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	s := c.Speed
	switch {
	case s.Floor <= 0:
		return fmt.Errorf("%w: speed.floor must be positive", ErrInvalidConfig)
	case s.Initial < s.Floor:
		return fmt.Errorf("%w: speed.initial %v is below the floor %v", ErrInvalidConfig, s.Initial, s.Floor)
	case s.Decrement <= 0:
		return fmt.Errorf("%w: speed.decrement must be positive", ErrInvalidConfig)
	case s.BlocksPerStep <= 0 || s.LinesPerStep <= 0:
		return fmt.Errorf("%w: speed steps must be positive", ErrInvalidConfig)
	case c.Difficulty > speed.Hard:
		return fmt.Errorf("%w: unknown difficulty %d", ErrInvalidConfig, c.Difficulty)
	case c.Network.SnapshotInterval <= 0:
		return fmt.Errorf("%w: network.snapshot_interval must be positive", ErrInvalidConfig)
	case c.Scoring.Line < 0 || c.Scoring.SoftDrop < 0 || c.Scoring.HardDrop < 0:
		return fmt.Errorf("%w: scores must not be negative", ErrInvalidConfig)
	}

	if !c.Items.Enabled {
		return nil
	}
	if c.Items.Every <= 0 {
		return fmt.Errorf("%w: items.every must be positive", ErrInvalidConfig)
	}
	total := 0
	for _, w := range c.Items.Table {
		item, ok := board.ParseItem(w.Item)
		if !ok || item == board.ItemNone {
			return fmt.Errorf("%w: unknown item %q", ErrInvalidConfig, w.Item)
		}
		if w.Weight < 0 {
			return fmt.Errorf("%w: item %s has a negative weight", ErrInvalidConfig, w.Item)
		}
		total += w.Weight
	}
	if total == 0 {
		return fmt.Errorf("%w: item table has no weight", ErrInvalidConfig)
	}
	return nil
}

// Table builds the weighted item table. Unknown names are skipped.
func (c Config) Table() effect.Table {
	var entries []effect.Weighted
	for _, w := range c.Items.Table {
		if item, ok := board.ParseItem(w.Item); ok {
			entries = append(entries, effect.Weighted{Item: item, Weight: w.Weight})
		}
	}
	return effect.NewTable(entries...)
}

// Session turns the file configuration into a session configuration.
func (c Config) Session(logger *log.Logger) game.Config {
	return game.Config{
		Mode:       c.Mode,
		Local:      effect.Player1,
		Difficulty: c.Difficulty,
		Speed: speed.Config{
			Initial:       c.Speed.Initial,
			Floor:         c.Speed.Floor,
			Decrement:     c.Speed.Decrement,
			BlocksPerStep: c.Speed.BlocksPerStep,
			LinesPerStep:  c.Speed.LinesPerStep,
		},
		Scoring: game.Scoring{
			Line:     c.Scoring.Line,
			SoftDrop: c.Scoring.SoftDrop,
			HardDrop: c.Scoring.HardDrop,
		},
		Items:     c.Items.Enabled,
		ItemEvery: c.Items.Every,
		Table:     c.Table(),
		Seed:      c.Seed,
		Logger:    logger,
	}
}
