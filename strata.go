package strata

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/pkg/domain"
)

// PopPolicy decides whether the last remaining state may be popped.
type PopPolicy = runtime.PopPolicy

const (
	// PopAllowEmpty lets Pop remove the last state, leaving no current state (default).
	PopAllowEmpty = runtime.PopAllowEmpty
	// PopKeepBaseline rejects popping the last remaining state with domain.ErrEmptyStack.
	PopKeepBaseline = runtime.PopKeepBaseline
)

// DefaultMaxNesting is the nesting limit used when WithMaxNesting is not given.
const DefaultMaxNesting = runtime.DefaultMaxNesting

// Manager is the high-level entry point for the strata library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Manager struct {
	runtime    *runtime.Engine
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	policy     PopPolicy
	maxNesting int
	Name       string
}

// Option defines a functional option for configuring the Manager.
type Option func(*Manager)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithPopPolicy configures whether the last state may be popped.
func WithPopPolicy(policy PopPolicy) Option {
	return func(m *Manager) {
		m.policy = policy
	}
}

// WithMaxNesting bounds how deep transitions started from inside hooks may nest.
func WithMaxNesting(n int) Option {
	return func(m *Manager) {
		m.maxNesting = n
	}
}

// WithName labels the manager in its log records.
func WithName(name string) Option {
	return func(m *Manager) {
		m.Name = name
	}
}

// Initial returns a factory that always yields s.
func Initial(s domain.State) domain.InitialStateFactory {
	return func() domain.State {
		return s
	}
}

// New initializes a Manager whose stack starts with the state returned by factory.
// That state has been entered when New returns.
// It fails with domain.ErrInvalidInitialState if factory is nil or returns no state;
// no hook is called in that case.
func New(factory domain.InitialStateFactory, opts ...Option) (*Manager, error) {
	m := &Manager{}

	for _, opt := range opts {
		opt(m)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if m.Name != "" {
		m.logger = m.logger.With("stack", m.Name)
	}

	rt, err := runtime.New(factory,
		runtime.WithLifecycleHooks(m.hooks),
		runtime.WithLogger(m.logger),
		runtime.WithPopPolicy(m.policy),
		runtime.WithMaxNesting(m.maxNesting),
	)
	if err != nil {
		return nil, err
	}
	m.runtime = rt

	return m, nil
}

// Push exits the current state, places s on top of the stack and enters it.
// A nil state is rejected with domain.ErrInvalidArgument and nothing changes.
func (m *Manager) Push(s domain.State) error {
	return m.runtime.Push(s)
}

// Pop exits the current state, removes it and enters the state below it, if any.
// Popping an empty stack fails with domain.ErrEmptyStack.
func (m *Manager) Pop() error {
	return m.runtime.Pop()
}

// Current returns the active state, or false when the stack is empty.
func (m *Manager) Current() (domain.State, bool) {
	return m.runtime.Current()
}

// Len returns the number of states on the stack.
func (m *Manager) Len() int {
	return m.runtime.Len()
}

// States returns the stacked states from bottom to top.
func (m *Manager) States() []domain.State {
	return m.runtime.States()
}

// Snapshot returns a label-only view of the stack that is safe to share.
func (m *Manager) Snapshot() domain.Snapshot {
	return m.runtime.Snapshot()
}

// ParsePopPolicy maps "allow-empty" and "keep-baseline" to their policies.
// An empty string selects PopAllowEmpty.
func ParsePopPolicy(raw string) (PopPolicy, error) {
	switch raw {
	case "", PopAllowEmpty.String():
		return PopAllowEmpty, nil
	case PopKeepBaseline.String():
		return PopKeepBaseline, nil
	default:
		return PopAllowEmpty, fmt.Errorf("unknown pop policy %q", raw)
	}
}
