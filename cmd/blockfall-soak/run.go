package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/plus3/blockfall/blink"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/speed"
	"golang.org/x/sync/errgroup"
)

const (
	tickStep     = 16 * time.Millisecond
	maxGameTicks = 50_000
)

var randomActions = []game.Action{
	game.MoveLeft, game.MoveLeft,
	game.MoveRight, game.MoveRight,
	game.MoveDown,
	game.Rotate, game.Rotate,
	game.HardDrop,
	game.Hold,
}

type Options struct {
	Sessions   int
	Workers    int
	Mode       game.Mode
	Difficulty speed.Difficulty
	Items      bool
	ItemEvery  int
	Seed       uint64
	// Ticks caps each session slot; zero runs until the context is done.
	Ticks int64
}

type slotResult struct {
	ticks     int64
	games     int
	lines     int
	bestScore int
	tickTime  Stats
	effects   map[string]int
	systems   []game.SystemStats

	violationCount int
	violations     []string
}

func (r *slotResult) violate(format string, args ...any) {
	r.violationCount++
	if len(r.violations) < maxViolations {
		r.violations = append(r.violations, fmt.Sprintf(format, args...))
	}
}

// soak runs opts.Sessions independent slots, each playing games back to back
// with random input, and merges their results into report.
func soak(ctx context.Context, opts Options, report *Report) error {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))

	for slot := range opts.Sessions {
		g.Go(func() error {
			res := runSlot(ctx, opts, slot)
			mu.Lock()
			report.merge(res)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func runSlot(ctx context.Context, opts Options, slot int) slotResult {
	rng := rand.New(rand.NewPCG(opts.Seed, uint64(slot)))
	res := slotResult{
		tickTime: newStats(opts.Seed + uint64(slot)),
		effects:  make(map[string]int),
	}

	for n := 0; ; n++ {
		if ctx.Err() != nil || (opts.Ticks > 0 && res.ticks >= opts.Ticks) {
			return res
		}
		seed := opts.Seed<<16 ^ uint64(slot)<<32 ^ uint64(n+1)
		playGame(ctx, opts, seed, rng, &res)
	}
}

func playGame(ctx context.Context, opts Options, seed uint64, rng *rand.Rand, res *slotResult) {
	cfg := game.DefaultConfig()
	cfg.Mode = opts.Mode
	cfg.Difficulty = opts.Difficulty
	cfg.Items = opts.Items
	if opts.ItemEvery > 0 {
		cfg.ItemEvery = opts.ItemEvery
	}
	cfg.Seed = seed
	cfg.Listener = game.Listener{
		OnLinesCleared: func(_ effect.PlayerID, full, bomb int) { res.lines += full + bomb },
		OnEffectStart:  func(inst effect.Instance) { res.effects[inst.Kind.String()]++ },
	}

	s := game.NewSession(cfg)
	players := s.Players()
	res.games++

	for i := 0; i < maxGameTicks; i++ {
		if i%64 == 0 && ctx.Err() != nil {
			break
		}
		if opts.Ticks > 0 && res.ticks >= opts.Ticks {
			break
		}

		p := players[rng.IntN(len(players))]
		if s.Paused() {
			if rng.IntN(20) == 0 {
				s.HandleAction(p.ID(), game.Pause)
			}
		} else if rng.IntN(500) == 0 {
			s.HandleAction(p.ID(), game.Pause)
		} else if rng.IntN(3) == 0 {
			s.HandleAction(p.ID(), randomActions[rng.IntN(len(randomActions))])
		}

		start := time.Now()
		s.Tick(tickStep)
		res.tickTime.Add(time.Since(start))
		res.ticks++

		checkInvariants(s, res)
		if over, _ := s.Over(); over {
			break
		}
	}

	for _, p := range players {
		res.bestScore = max(res.bestScore, p.Score())
	}
	res.systems = mergeSystems(res.systems, s.Stats().Systems)

	s.Close()
	if n := len(s.Engine().Active()); n != 0 {
		res.violate("seed %d: %d effects active after close", seed, n)
	}
}

func checkInvariants(s *game.Session, res *slotResult) {
	if over, _ := s.Over(); over {
		return
	}
	engine := s.Engine()
	for _, p := range s.Players() {
		b := p.Board()
		for y := range board.Height {
			for x := range board.Width {
				if c, _ := b.At(x, y); !c.Valid() {
					res.violate("seed %d: player %d cell (%d,%d) invalid: %+v", s.Config().Seed, p.ID(), x, y, c)
				}
			}
		}
		if p.ClearState() == blink.Idle {
			if rows := b.ClearRequest(); len(rows) > 0 {
				res.violate("seed %d: player %d has uncleared rows %v while idle", s.Config().Seed, p.ID(), rows)
			}
		}
		if p.FallSpeed() < p.Speed().Floor() && !engine.SpeedModified(p.ID()) {
			res.violate("seed %d: player %d interval %s below floor without a speed effect", s.Config().Seed, p.ID(), p.FallSpeed())
		}
	}
}
