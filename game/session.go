// Package game is the orchestrator: it owns the boards, routes input and
// placement events to the clear animator, effect engine and speed scheduler,
// and advances every timer from a single tick on one goroutine.
package game

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
)

// ErrNoOpponent is returned for remote-opponent calls on a session that has
// no mirrored opponent board.
var ErrNoOpponent = errors.New("game: session has no remote opponent")

// Session is one game from start to teardown.
//
// All methods except Post must be called from the goroutine that drives Tick.
type Session struct {
	cfg      Config
	logger   *log.Logger
	listener Listener

	players []*Player
	mirror  *board.Board

	engine    *effect.Engine
	scheduler *Scheduler
	commands  *Commands

	now    time.Duration
	paused bool
	over   bool
	closed bool
	loser  effect.PlayerID
}

// NewSession creates the boards for cfg.Mode and spawns the first blocks.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Session{
		cfg:       cfg,
		logger:    logger,
		listener:  cfg.Listener,
		scheduler: NewScheduler(),
		commands:  newCommands(),
	}
	s.engine = effect.NewEngine(effect.Options{
		Versus:  cfg.Mode.Versus(),
		Logger:  logger,
		OnStart: s.effectStarted,
		OnEnd:   s.effectEnded,
	})

	switch cfg.Mode {
	case LocalVersus:
		s.addPlayer(effect.Player1)
		s.addPlayer(effect.Player2)
	case NetVersus:
		s.addPlayer(cfg.Local)
		s.mirror = board.New()
	default:
		s.addPlayer(effect.Player1)
	}

	s.scheduler.Register(&ExpirySystem{})
	s.scheduler.Register(&ClearSystem{})
	s.scheduler.Register(&DropSystem{})

	for _, p := range s.players {
		p.spawn()
	}
	s.logger.Printf("[session] started %s at %s, seed %d", cfg.Mode, cfg.Difficulty, cfg.Seed)
	return s
}

func (s *Session) addPlayer(id effect.PlayerID) {
	p := newPlayer(s, id)
	s.players = append(s.players, p)
	s.engine.Attach(p)
}

// Register appends a system that runs after the built-in ones on every tick.
func (s *Session) Register(system System) {
	s.scheduler.Register(system)
}

// Tick advances the session clock by dt, runs every system and then the
// queued commands. Systems do not run while paused or after game over;
// queued commands always do.
func (s *Session) Tick(dt time.Duration) {
	if s.closed {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if !s.paused && !s.over {
		s.now += dt
		s.scheduler.Once(newFrame(dt, s.now, s))
	}
	s.commands.Flush()
}

// Run ticks the session at interval with wall-clock deltas until ctx is
// cancelled or the session closes, then tears it down.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	defer s.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			s.Tick(dt)
			if s.closed {
				return
			}
		}
	}
}

// Post queues fn to run on the session goroutine at the end of the next tick.
// It is safe for concurrent use and reports false after Close.
func (s *Session) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	return s.commands.Defer(func() {
		if !s.closed {
			fn()
		}
	})
}

// HandleAction applies one input action for player.
func (s *Session) HandleAction(player effect.PlayerID, a Action) Result {
	if s.closed {
		return Closed
	}
	switch a {
	case Exit:
		s.Close()
		return Accepted
	case Pause:
		s.paused = !s.paused
		s.logger.Printf("[session] paused=%t", s.paused)
		return Accepted
	}

	if s.over {
		return Rejected
	}
	if s.paused {
		return Paused
	}
	p, ok := s.Player(player)
	if !ok {
		return Rejected
	}
	if p.Suspended() {
		return Suspended
	}
	if !p.hasCurrent {
		return Rejected
	}

	switch a {
	case MoveLeft:
		return p.move(-1)
	case MoveRight:
		return p.move(1)
	case MoveDown:
		return p.softDrop()
	case Rotate:
		return p.rotate()
	case HardDrop:
		return p.hardDrop()
	case Hold:
		return p.swapHold()
	default:
		return Rejected
	}
}

// Close tears the session down: it stops the clear and drop timers,
// force-deactivates every live effect so its restoration runs, and discards
// all queued commands. It returns the number of effects it ended. Calling it
// again does nothing.
func (s *Session) Close() int {
	if s.closed {
		return 0
	}
	for _, p := range s.players {
		p.halt()
	}
	ended := s.engine.Shutdown()
	dropped := s.commands.Discard()
	s.closed = true
	s.logger.Printf("[session] closed: %d effects ended, %d commands dropped", ended, dropped)
	return ended
}

func (s *Session) gameOver(p *Player) {
	p.over = true
	if s.over {
		return
	}
	s.finish(p.id)
}

// OpponentLost ends a networked match in the local player's favour.
func (s *Session) OpponentLost() {
	if s.over || s.closed || s.mirror == nil {
		return
	}
	s.finish(s.cfg.Local.Opponent())
}

func (s *Session) finish(loser effect.PlayerID) {
	s.over = true
	s.loser = loser
	for _, p := range s.players {
		p.halt()
	}
	s.logger.Printf("[session] game over, player %d lost", loser)
	if fn := s.listener.OnGameOver; fn != nil {
		fn(loser)
	}
}

// Player returns the local player with id.
func (s *Session) Player(id effect.PlayerID) (*Player, bool) {
	for _, p := range s.players {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns the local players in id order.
func (s *Session) Players() []*Player {
	return append([]*Player(nil), s.players...)
}

// Snapshot encodes player's board with the falling block overlaid.
func (s *Session) Snapshot(id effect.PlayerID) (string, bool) {
	p, ok := s.Player(id)
	if !ok {
		return "", false
	}
	var falling *board.Block
	if p.hasCurrent {
		cur := p.current
		falling = &cur
	}
	return board.EncodeSnapshot(p.board, falling), true
}

// ApplySnapshot overwrites the mirrored opponent board. Malformed snapshots
// are dropped and the previous mirror is kept.
func (s *Session) ApplySnapshot(snapshot string) error {
	if s.mirror == nil {
		return ErrNoOpponent
	}
	if err := s.mirror.ApplySnapshot(snapshot); err != nil {
		s.logger.Printf("[session] dropped opponent snapshot: %v", err)
		return err
	}
	return nil
}

// ApplyRemoteEffect activates an effect the remote opponent aimed at the
// local player.
func (s *Session) ApplyRemoteEffect(kind effect.Kind) effect.Outcome {
	if s.mirror == nil || s.over {
		return effect.Rejected
	}
	outcome := s.engine.ActivateOn(kind, s.cfg.Local)
	s.logger.Printf("[session] remote %s: %s", kind, outcome)
	return outcome
}

// SetForwarder routes opponent-targeted effects to a remote peer.
func (s *Session) SetForwarder(f effect.Forwarder) {
	s.engine.SetForwarder(f)
}

func (s *Session) effectStarted(inst effect.Instance) {
	s.logger.Printf("[session] %s started on player %d for %v", inst.Kind, inst.Target, inst.Duration)
	if fn := s.listener.OnEffectStart; fn != nil {
		fn(inst)
	}
}

func (s *Session) effectEnded(inst effect.Instance, reason effect.EndReason) {
	if reason != effect.EndInstant {
		s.logger.Printf("[session] %s ended on player %d: %s", inst.Kind, inst.Target, reason)
	}
	if fn := s.listener.OnEffectEnd; fn != nil {
		fn(inst, reason)
	}
}

// Mirror returns the remote opponent's last received board, if any.
func (s *Session) Mirror() (*board.Board, bool) {
	return s.mirror, s.mirror != nil
}

func (s *Session) Config() Config             { return s.cfg }
func (s *Session) Mode() Mode                 { return s.cfg.Mode }
func (s *Session) Local() effect.PlayerID     { return s.cfg.Local }
func (s *Session) Engine() *effect.Engine     { return s.engine }
func (s *Session) Now() time.Duration         { return s.now }
func (s *Session) Paused() bool               { return s.paused }
func (s *Session) Closed() bool               { return s.closed }
func (s *Session) Stats() *SchedulerStats     { return s.scheduler.Stats() }
func (s *Session) PendingCommands() int       { return s.commands.Len() }

// Over reports whether the match has ended and which player lost.
func (s *Session) Over() (bool, effect.PlayerID) {
	return s.over, s.loser
}
