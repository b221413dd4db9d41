package effect

import (
	"io"
	"log"
	"slices"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/board"
)

// Outcome reports what an activation request did.
type Outcome uint8

const (
	// Activated started a timed instance.
	Activated Outcome = iota
	// Completed ran an instant effect through activate and deactivate.
	Completed
	// AlreadyActive left the live instance untouched.
	AlreadyActive
	// Forwarded handed the effect to a remote opponent.
	Forwarded
	// Rejected did nothing: unknown kind, unknown target, or engine shut down.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Activated:
		return "activated"
	case Completed:
		return "completed"
	case AlreadyActive:
		return "already-active"
	case Forwarded:
		return "forwarded"
	default:
		return "rejected"
	}
}

// EndReason says why an instance was deactivated.
type EndReason uint8

const (
	EndInstant EndReason = iota
	EndExpired
	EndSuperseded
	EndCancelled
	EndShutdown
)

func (r EndReason) String() string {
	switch r {
	case EndInstant:
		return "instant"
	case EndExpired:
		return "expired"
	case EndSuperseded:
		return "superseded"
	case EndCancelled:
		return "cancelled"
	default:
		return "shutdown"
	}
}

// Instance is one activation of an effect against a target.
type Instance struct {
	Kind      Kind
	Duration  time.Duration
	Active    bool
	Start     time.Duration
	Target    PlayerID
	Activator PlayerID

	undo Undo
	gen  uint64
}

// Remaining returns the time left before expiry at now.
func (i Instance) Remaining(now time.Duration) time.Duration {
	if !i.Active {
		return 0
	}
	return max(i.Start+i.Duration-now, 0)
}

// Forwarder delivers an effect to a target that lives in another process.
type Forwarder func(kind Kind, target PlayerID) bool

// Options configures an Engine.
type Options struct {
	// Versus switches target resolution and SPEED_UP tuning to versus rules.
	Versus bool
	Logger *log.Logger

	OnStart func(Instance)
	OnEnd   func(Instance, EndReason)
}

// Engine is the registry of live effect instances and their expiry queue.
//
// The engine keeps its own clock, advanced by the owning session's tick, and
// expires instances from that tick only. It must not be shared across goroutines.
type Engine struct {
	versus  bool
	logger  *log.Logger
	onStart func(Instance)
	onEnd   func(Instance, EndReason)

	targets   map[PlayerID]Target
	forward   Forwarder
	instances *intmap.Map[Key, *Instance]
	queue     expiryQueue

	now    time.Duration
	gen    uint64
	closed bool
}

// NewEngine creates an engine with no targets attached.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		versus:    opts.Versus,
		logger:    logger,
		onStart:   opts.OnStart,
		onEnd:     opts.OnEnd,
		targets:   make(map[PlayerID]Target),
		instances: intmap.New[Key, *Instance](16),
	}
}

// Attach registers a local target under its ID.
func (e *Engine) Attach(t Target) {
	e.targets[t.ID()] = t
}

// SetForwarder routes effects aimed at non-local targets.
func (e *Engine) SetForwarder(f Forwarder) {
	e.forward = f
}

func (e *Engine) Versus() bool        { return e.versus }
func (e *Engine) Now() time.Duration { return e.now }
func (e *Engine) Closed() bool        { return e.closed }

// Resolve returns the player that kind lands on when activator triggers it.
func (e *Engine) Resolve(kind Kind, activator PlayerID) PlayerID {
	if e.versus && kind.TargetsOpponent() {
		return activator.Opponent()
	}
	return activator
}

// Activate triggers kind for activator, with origin the item's cell on the
// activator's board. Activating a kind already live on the resolved target
// is a no-op.
func (e *Engine) Activate(kind Kind, activator PlayerID, origin board.Point) Outcome {
	if e.closed || !kind.Valid() {
		return Rejected
	}
	src, ok := e.targets[activator]
	if !ok {
		e.logger.Printf("[effect] %s from unknown player %d", kind, activator)
		return Rejected
	}

	targetID := e.Resolve(kind, activator)
	dst, ok := e.targets[targetID]
	if !ok {
		if e.forward != nil && e.forward(kind, targetID) {
			e.logger.Printf("[effect] %s forwarded to player %d", kind, targetID)
			return Forwarded
		}
		e.logger.Printf("[effect] %s has no target %d", kind, targetID)
		return Rejected
	}

	return e.start(kind, activator, Context{Activator: src, Target: dst, Origin: origin})
}

// ActivateOn applies kind directly to a local target, bypassing resolution.
// It is used for effects a remote opponent triggered.
func (e *Engine) ActivateOn(kind Kind, target PlayerID) Outcome {
	if e.closed || !kind.Valid() {
		return Rejected
	}
	dst, ok := e.targets[target]
	if !ok {
		return Rejected
	}
	return e.start(kind, 0, Context{Target: dst})
}

func (e *Engine) start(kind Kind, activator PlayerID, c Context) Outcome {
	targetID := c.Target.ID()
	key := NewKey(targetID, kind)
	if inst, ok := e.instances.Get(key); ok && inst.Active {
		e.logger.Printf("[effect] %s already active on player %d", kind, targetID)
		return AlreadyActive
	}

	if kind.ModifiesSpeed() {
		// Two live speed effects would restore each other's saved interval
		// out of order, so a new one ends the other kind first.
		for _, other := range Kinds() {
			if other != kind && other.ModifiesSpeed() {
				e.deactivate(NewKey(targetID, other), EndSuperseded)
			}
		}
	}

	fx, ok := New(kind, e.versus)
	if !ok {
		return Rejected
	}

	e.gen++
	inst := &Instance{
		Kind:      kind,
		Duration:  kind.Duration(),
		Active:    true,
		Start:     e.now,
		Target:    targetID,
		Activator: activator,
		gen:       e.gen,
	}
	e.instances.Put(key, inst)
	if e.onStart != nil {
		e.onStart(*inst)
	}
	inst.undo = fx.Apply(c)

	if kind.Instant() {
		e.deactivate(key, EndInstant)
		return Completed
	}
	e.queue.schedule(expiry{at: e.now + inst.Duration, key: key, gen: inst.gen})
	return Activated
}

// Deactivate ends a live instance early, running its restoration. It is a
// no-op when the instance is not active.
func (e *Engine) Deactivate(kind Kind, target PlayerID) bool {
	return e.deactivate(NewKey(target, kind), EndCancelled)
}

func (e *Engine) deactivate(key Key, reason EndReason) bool {
	inst, ok := e.instances.Get(key)
	if !ok || !inst.Active {
		return false
	}
	inst.Active = false
	e.instances.Del(key)
	if inst.undo != nil {
		inst.undo()
		inst.undo = nil
	}
	if e.onEnd != nil {
		e.onEnd(*inst, reason)
	}
	return true
}

// Advance moves the engine clock forward by dt and expires due instances in
// expiry order. It returns the instances it ended.
func (e *Engine) Advance(dt time.Duration) []Instance {
	if e.closed {
		return nil
	}
	if dt > 0 {
		e.now += dt
	}

	var ended []Instance
	for _, due := range e.queue.due(e.now) {
		inst, ok := e.instances.Get(due.key)
		if !ok || !inst.Active || inst.gen != due.gen {
			continue
		}
		if e.deactivate(due.key, EndExpired) {
			snapshot := *inst
			snapshot.undo = nil
			ended = append(ended, snapshot)
		}
	}
	return ended
}

// IsActive reports whether kind is live on target.
func (e *Engine) IsActive(kind Kind, target PlayerID) bool {
	inst, ok := e.instances.Get(NewKey(target, kind))
	return ok && inst.Active
}

// Instance returns a copy of the live instance of kind on target.
func (e *Engine) Instance(kind Kind, target PlayerID) (Instance, bool) {
	inst, ok := e.instances.Get(NewKey(target, kind))
	if !ok || !inst.Active {
		return Instance{}, false
	}
	out := *inst
	out.undo = nil
	return out, true
}

// SpeedModified reports whether any speed-changing effect is live on target.
func (e *Engine) SpeedModified(target PlayerID) bool {
	for _, k := range Kinds() {
		if k.ModifiesSpeed() && e.IsActive(k, target) {
			return true
		}
	}
	return false
}

// Active returns copies of every live instance, ordered by target then kind.
func (e *Engine) Active() []Instance {
	var out []Instance
	for _, id := range e.targetIDs() {
		for _, k := range Kinds() {
			if inst, ok := e.Instance(k, id); ok {
				out = append(out, inst)
			}
		}
	}
	return out
}

// Pending returns the number of scheduled expiries, stale ones included.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// Shutdown force-deactivates every live instance, running its restoration,
// discards all pending expiries and rejects later activations. It returns
// the number of instances it ended. Calling it again does nothing.
func (e *Engine) Shutdown() int {
	if e.closed {
		return 0
	}
	n := 0
	for _, id := range e.targetIDs() {
		for _, k := range Kinds() {
			if e.deactivate(NewKey(id, k), EndShutdown) {
				n++
			}
		}
	}
	e.queue.clear()
	e.instances.Clear()
	e.closed = true
	return n
}

func (e *Engine) targetIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(e.targets))
	for id := range e.targets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
