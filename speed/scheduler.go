// Package speed converts spawn and line-clear counts into a progressively
// shorter drop interval.
package speed

import "time"

// Config holds the scheduler parameters before the difficulty multiplier.
type Config struct {
	Initial       time.Duration
	Floor         time.Duration
	Decrement     time.Duration
	BlocksPerStep int
	LinesPerStep  int
}

// DefaultConfig returns the NORMAL tuning: 1000ms start, 400ms floor, 200ms steps
// every 5 blocks or every cleared line.
func DefaultConfig() Config {
	return Config{
		Initial:       1000 * time.Millisecond,
		Floor:         400 * time.Millisecond,
		Decrement:     200 * time.Millisecond,
		BlocksPerStep: 5,
		LinesPerStep:  1,
	}
}

// Scheduler tracks the drop interval of one player. It is owned by the
// session goroutine.
type Scheduler struct {
	initial       time.Duration
	floor         time.Duration
	decrement     time.Duration
	blocksPerStep int
	linesPerStep  int

	interval time.Duration
	blocks   int
	lines    int

	// Suspended, when set and returning true, holds back automatic increases.
	Suspended func() bool
	// OnIncrease is called with the new interval after each automatic step.
	OnIncrease func(interval time.Duration)
}

// NewScheduler creates a scheduler. The decrement is scaled by the difficulty
// multiplier once, here; zero fields take their DefaultConfig values.
func NewScheduler(cfg Config, d Difficulty) *Scheduler {
	def := DefaultConfig()
	if cfg.Initial <= 0 {
		cfg.Initial = def.Initial
	}
	if cfg.Floor <= 0 {
		cfg.Floor = def.Floor
	}
	if cfg.Decrement <= 0 {
		cfg.Decrement = def.Decrement
	}
	if cfg.BlocksPerStep <= 0 {
		cfg.BlocksPerStep = def.BlocksPerStep
	}
	if cfg.LinesPerStep <= 0 {
		cfg.LinesPerStep = def.LinesPerStep
	}
	if cfg.Initial < cfg.Floor {
		cfg.Initial = cfg.Floor
	}

	return &Scheduler{
		initial:       cfg.Initial,
		floor:         cfg.Floor,
		decrement:     cfg.Decrement * time.Duration(d.Percent()) / 100,
		blocksPerStep: cfg.BlocksPerStep,
		linesPerStep:  cfg.LinesPerStep,
		interval:      cfg.Initial,
	}
}

// OnBlockSpawned counts a spawn and reports whether the interval stepped down.
func (s *Scheduler) OnBlockSpawned() bool {
	s.blocks++
	return s.evaluate()
}

// OnLinesCleared counts n full rows and reports whether the interval stepped down.
func (s *Scheduler) OnLinesCleared(n int) bool {
	if n <= 0 {
		return false
	}
	s.lines += n
	return s.evaluate()
}

func (s *Scheduler) evaluate() bool {
	if s.blocks < s.blocksPerStep && s.lines < s.linesPerStep {
		return false
	}
	if s.Suspended != nil && s.Suspended() {
		return false
	}

	s.interval = max(s.interval-s.decrement, s.floor)
	s.blocks = 0
	s.lines = 0
	if s.OnIncrease != nil {
		s.OnIncrease(s.interval)
	}
	return true
}

// Reset restores the counters and the configured initial interval.
func (s *Scheduler) Reset() {
	s.blocks = 0
	s.lines = 0
	s.interval = s.initial
}

// SetInterval overrides the interval, clamped at the floor.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.interval = max(d, s.floor)
}

func (s *Scheduler) Interval() time.Duration  { return s.interval }
func (s *Scheduler) Floor() time.Duration     { return s.floor }
func (s *Scheduler) Decrement() time.Duration { return s.decrement }

// Counters returns the blocks and lines counted since the last step.
func (s *Scheduler) Counters() (blocks, lines int) {
	return s.blocks, s.lines
}
