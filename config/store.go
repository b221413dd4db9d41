package config

import (
	"fmt"
	"io"
	"log"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/speed"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	settingsObject   = "settings"
	settingsProperty = "user"
)

// Settings is what the player changed from the menu plus their records.
type Settings struct {
	Difficulty speed.Difficulty `yaml:"difficulty"`
	Mode       game.Mode        `yaml:"mode"`
	// Best holds the best solo score per difficulty name.
	Best map[string]int `yaml:"best"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Difficulty: speed.Normal,
		Mode:       game.Solo,
		Best:       map[string]int{},
	}
}

// Store persists Settings through gdata. A Store without a gdata manager
// keeps settings in memory only.
type Store struct {
	manager  *gdata.Manager
	settings Settings
	logger   *log.Logger
}

// OpenStore opens the gdata storage for appName. When storage is unavailable
// it returns a memory-only store together with the error.
func OpenStore(appName string, logger *log.Logger) (*Store, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil, logger), fmt.Errorf("failed to open settings storage: %w", err)
	}
	s := NewStore(manager, logger)
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// NewStore wraps manager, which may be nil, with default settings loaded.
func NewStore(manager *gdata.Manager, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		manager:  manager,
		settings: DefaultSettings(),
		logger:   logger,
	}
}

// Persistent reports whether settings survive a restart.
func (s *Store) Persistent() bool { return s.manager != nil }

// Load replaces the in-memory settings with the stored ones. Missing or
// unreadable data leaves the defaults in place.
func (s *Store) Load() error {
	s.settings = DefaultSettings()
	if s.manager == nil {
		return nil
	}
	if !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.Best == nil {
		loaded.Best = map[string]int{}
	}
	s.settings = loaded
	s.logger.Printf("[config] settings loaded")
	return nil
}

// Save writes the settings. It is a no-op for memory-only stores.
func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	out := s.settings
	out.Best = make(map[string]int, len(s.settings.Best))
	for k, v := range s.settings.Best {
		out.Best[k] = v
	}
	return out
}

func (s *Store) SetDifficulty(d speed.Difficulty) { s.settings.Difficulty = d }
func (s *Store) SetMode(m game.Mode)              { s.settings.Mode = m }

// Best returns the best score recorded at d.
func (s *Store) Best(d speed.Difficulty) int {
	return s.settings.Best[d.String()]
}

// RecordScore keeps score if it beats the best at d and reports whether it did.
func (s *Store) RecordScore(d speed.Difficulty, score int) bool {
	if score <= s.settings.Best[d.String()] {
		return false
	}
	s.settings.Best[d.String()] = score
	return true
}
