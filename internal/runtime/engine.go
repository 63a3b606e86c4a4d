package runtime

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/strata/pkg/domain"
)

// DefaultMaxNesting bounds how deep transitions may nest when hooks call back into the engine.
const DefaultMaxNesting = 64

// PopPolicy decides whether the last remaining state may be popped.
type PopPolicy int

const (
	// PopAllowEmpty lets Pop remove the last state, leaving no current state.
	PopAllowEmpty PopPolicy = iota
	// PopKeepBaseline rejects popping the last remaining state with ErrEmptyStack.
	PopKeepBaseline
)

func (p PopPolicy) String() string {
	switch p {
	case PopKeepBaseline:
		return "keep-baseline"
	default:
		return "allow-empty"
	}
}

// entry is one occupancy of the stack. The same state may occupy several
// entries; id tells them apart.
type entry struct {
	state domain.State
	id    uint64
}

// Engine is the state stack.
// It is not safe for concurrent use: every call must come from the same
// logical thread, which includes calls made from inside state hooks.
type Engine struct {
	entries []entry
	active  bool // top has been entered and not yet exited
	nextID  uint64
	nesting int

	maxNesting int
	policy     PopPolicy
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for transition debugging and rejections.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPopPolicy sets what happens when the last state is popped.
func WithPopPolicy(policy PopPolicy) EngineOption {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithMaxNesting sets the nesting limit for transitions started from inside hooks.
// Values below 1 keep the default.
func WithMaxNesting(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxNesting = n
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an engine and pushes the state produced by factory.
// It fails with ErrInvalidInitialState, without calling any hook, when factory
// is nil or returns no state.
func New(factory domain.InitialStateFactory, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		maxNesting: DefaultMaxNesting,
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if factory == nil {
		return nil, e.reject(domain.OpInit, "", domain.ErrInvalidInitialState)
	}
	initial := factory()
	if domain.IsNil(initial) {
		return nil, e.reject(domain.OpInit, "", domain.ErrInvalidInitialState)
	}

	if err := e.Push(initial); err != nil {
		return nil, err
	}
	return e, nil
}

// Push exits the current top (if any), appends s and enters it.
func (e *Engine) Push(s domain.State) error {
	if domain.IsNil(s) {
		return e.reject(domain.OpPush, "", domain.ErrInvalidArgument)
	}
	name := domain.NameOf(s)
	if e.nesting >= e.maxNesting {
		return e.reject(domain.OpPush, name, domain.ErrNestingTooDeep)
	}

	e.nesting++
	defer func() { e.nesting-- }()

	from := e.topName()

	// An exit hook may itself push; whatever ends up active must be displaced too.
	for e.active {
		e.deactivate()
	}

	e.nextID++
	e.entries = append(e.entries, entry{state: s, id: e.nextID})
	e.logger.Debug("state pushed", "state", name, "depth", len(e.entries))

	e.activate()

	if e.hooks.OnPush != nil {
		e.hooks.OnPush(&domain.TransitionEvent{
			EventBase: e.base(domain.EventPush),
			From:      from,
			To:        e.topName(),
		})
	}
	return nil
}

// Pop exits the current top, removes it and enters the newly exposed top (if any).
func (e *Engine) Pop() error {
	n := len(e.entries)
	if n == 0 {
		return e.reject(domain.OpPop, "", domain.ErrEmptyStack)
	}
	target := e.entries[n-1]
	name := domain.NameOf(target.state)
	if n == 1 && e.policy == PopKeepBaseline {
		return e.reject(domain.OpPop, name, domain.ErrEmptyStack)
	}
	if e.nesting >= e.maxNesting {
		return e.reject(domain.OpPop, name, domain.ErrNestingTooDeep)
	}

	e.nesting++
	defer func() { e.nesting-- }()

	// The target stays in place until its exit has returned. Nested calls made
	// by the exit hook complete first; if they left the target active on top
	// again, it is exited again so every enter keeps its matching exit.
	for {
		idx := e.indexOf(target.id)
		if idx != len(e.entries)-1 || !e.active {
			break
		}
		e.deactivate()
	}

	if idx := e.indexOf(target.id); idx >= 0 {
		e.entries = append(e.entries[:idx], e.entries[idx+1:]...)
	}
	e.logger.Debug("state popped", "state", name, "depth", len(e.entries))

	e.activate()

	if e.hooks.OnPop != nil {
		e.hooks.OnPop(&domain.TransitionEvent{
			EventBase: e.base(domain.EventPop),
			From:      name,
			To:        e.topName(),
		})
	}
	return nil
}

// Current returns the top state, or false when the stack is empty.
func (e *Engine) Current() (domain.State, bool) {
	if len(e.entries) == 0 {
		return nil, false
	}
	return e.entries[len(e.entries)-1].state, true
}

// Len returns the number of states on the stack.
func (e *Engine) Len() int {
	return len(e.entries)
}

// States returns the stacked states from bottom to top.
func (e *Engine) States() []domain.State {
	out := make([]domain.State, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.state
	}
	return out
}

// Snapshot returns a label-only copy of the stack.
func (e *Engine) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		States: make([]string, len(e.entries)),
		Active: e.active,
	}
	for i, en := range e.entries {
		snap.States[i] = domain.NameOf(en.state)
	}
	snap.Current = e.topName()
	return snap
}

// Policy returns the configured pop policy.
func (e *Engine) Policy() PopPolicy {
	return e.policy
}

// deactivate exits the top state. The active flag is cleared before the hook
// runs so that a panicking or re-entrant exit never leads to a second exit.
func (e *Engine) deactivate() {
	top := e.entries[len(e.entries)-1].state
	e.active = false
	e.emitState(domain.EventStateExit, top)
	top.OnStateExit()
}

// activate enters the top state unless it is already active.
func (e *Engine) activate() {
	if e.active || len(e.entries) == 0 {
		return
	}
	top := e.entries[len(e.entries)-1].state
	e.active = true
	e.emitState(domain.EventStateEnter, top)
	top.OnStateEnter()
}

func (e *Engine) indexOf(id uint64) int {
	for i := len(e.entries) - 1; i >= 0; i-- {
		if e.entries[i].id == id {
			return i
		}
	}
	return -1
}

func (e *Engine) topName() string {
	if len(e.entries) == 0 {
		return ""
	}
	return domain.NameOf(e.entries[len(e.entries)-1].state)
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		Depth:     len(e.entries),
	}
}

func (e *Engine) emitState(t domain.EventType, s domain.State) {
	var fn func(*domain.StateEvent)
	if t == domain.EventStateEnter {
		fn = e.hooks.OnEnter
	} else {
		fn = e.hooks.OnExit
	}
	if fn == nil {
		return
	}
	fn(&domain.StateEvent{
		EventBase: e.base(t),
		State:     domain.NameOf(s),
	})
}

func (e *Engine) reject(op, state string, err error) error {
	e.logger.Warn("transition rejected", "op", op, "state", state, "depth", len(e.entries), "error", err)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(&domain.RejectEvent{
			EventBase: e.base(domain.EventReject),
			Op:        op,
			Reason:    domain.Reason(err),
		})
	}
	return &domain.TransitionError{
		Op:    op,
		State: state,
		Depth: len(e.entries),
		Err:   err,
	}
}
