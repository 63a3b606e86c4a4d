package scenario

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/observability"
	"github.com/aretw0/strata/pkg/registry"
)

// ErrExpectation is wrapped by every failed expect step.
var ErrExpectation = errors.New("expectation failed")

// Event is one entry of a replay trace.
type Event struct {
	Seq    int              `json:"seq"`
	Step   int              `json:"step"` // 0 for initialization
	Type   domain.EventType `json:"type"`
	State  string           `json:"state,omitempty"`
	From   string           `json:"from,omitempty"`
	To     string           `json:"to,omitempty"`
	Op     string           `json:"op,omitempty"`
	Reason string           `json:"reason,omitempty"`
	Depth  int              `json:"depth"`
}

// Report is the outcome of a replay.
type Report struct {
	Scenario string          `json:"scenario"`
	Events   []Event         `json:"events"`
	Final    domain.Snapshot `json:"final"`
	Steps    int             `json:"steps"` // Steps executed, including expects
}

// Rejections counts the rejected operations in the trace.
func (r *Report) Rejections() int {
	n := 0
	for _, e := range r.Events {
		if e.Type == domain.EventReject {
			n++
		}
	}
	return n
}

type playConfig struct {
	logger  *slog.Logger
	hooks   []domain.LifecycleHooks
	opts    []strata.Option
	onStart func(*strata.Manager)
}

// PlayOption configures Play.
type PlayOption func(*playConfig)

// WithLogger sets the logger given to the manager.
func WithLogger(logger *slog.Logger) PlayOption {
	return func(c *playConfig) {
		c.logger = logger
	}
}

// WithHooks adds lifecycle hooks next to the trace recorder.
func WithHooks(hooks ...domain.LifecycleHooks) PlayOption {
	return func(c *playConfig) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithManagerOptions forwards extra options to strata.New.
func WithManagerOptions(opts ...strata.Option) PlayOption {
	return func(c *playConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// OnStart is called with the manager right after initialization.
func OnStart(fn func(*strata.Manager)) PlayOption {
	return func(c *playConfig) {
		c.onStart = fn
	}
}

type recorder struct {
	mu     sync.Mutex
	step   int
	events []Event
}

func (r *recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.Seq = len(r.events) + 1
	e.Step = r.step
	r.events = append(r.events, e)
}

func (r *recorder) setStep(i int) {
	r.mu.Lock()
	r.step = i
	r.mu.Unlock()
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.StateEvent) {
			r.add(Event{Type: e.Type, State: e.State, Depth: e.Depth})
		},
		OnExit: func(e *domain.StateEvent) {
			r.add(Event{Type: e.Type, State: e.State, Depth: e.Depth})
		},
		OnPush: func(e *domain.TransitionEvent) {
			r.add(Event{Type: e.Type, From: e.From, To: e.To, Depth: e.Depth})
		},
		OnPop: func(e *domain.TransitionEvent) {
			r.add(Event{Type: e.Type, From: e.From, To: e.To, Depth: e.Depth})
		},
		OnReject: func(e *domain.RejectEvent) {
			r.add(Event{Type: e.Type, Op: e.Op, Reason: e.Reason, Depth: e.Depth})
		},
	}
}

// Play validates sc and runs it against a fresh manager built from reg.
// A failed operation must be acknowledged by an expect step with the matching
// error; otherwise the run stops. The report is returned even on failure.
func Play(sc *Scenario, reg *registry.Registry, opts ...PlayOption) (*Report, error) {
	if err := Validate(sc, reg); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	cfg := &playConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	policy, _ := strata.ParsePopPolicy(sc.Policy)
	rec := &recorder{}
	report := &Report{Scenario: sc.Name}

	initial, err := reg.Build(sc.Initial.State, sc.Initial.Params)
	if err != nil {
		return report, fmt.Errorf("initial: %w", err)
	}

	hooks := observability.Combine(append([]domain.LifecycleHooks{rec.hooks()}, cfg.hooks...)...)
	mgrOpts := append([]strata.Option{
		strata.WithLogger(cfg.logger),
		strata.WithPopPolicy(policy),
		strata.WithName(sc.Name),
	}, cfg.opts...)
	mgrOpts = append(mgrOpts, strata.WithLifecycleHooks(hooks))

	mgr, err := strata.New(strata.Initial(initial), mgrOpts...)
	if err != nil {
		report.Events = rec.events
		return report, fmt.Errorf("initial: %w", err)
	}
	if cfg.onStart != nil {
		cfg.onStart(mgr)
	}

	finish := func(err error) (*Report, error) {
		rec.mu.Lock()
		report.Events = append([]Event(nil), rec.events...)
		rec.mu.Unlock()
		report.Final = mgr.Snapshot()
		return report, err
	}

	var pending error
	for i, step := range sc.Steps {
		n := i + 1
		rec.setStep(n)
		report.Steps = n

		if step.Expect == nil && pending != nil {
			return finish(fmt.Errorf("step %d: %w", n-1, pending))
		}

		switch {
		case step.Push != nil:
			s, err := reg.Build(step.Push.State, step.Push.Params)
			if err != nil {
				return finish(fmt.Errorf("step %d: %w", n, err))
			}
			pending = mgr.Push(s)
		case step.Pop:
			pending = mgr.Pop()
		case step.Expect != nil:
			if err := check(mgr, step.Expect, pending); err != nil {
				return finish(fmt.Errorf("step %d: %w", n, err))
			}
			pending = nil
		}
	}
	if pending != nil {
		return finish(fmt.Errorf("step %d: %w", len(sc.Steps), pending))
	}

	return finish(nil)
}

func check(mgr *strata.Manager, ex *Expect, last error) error {
	var errs []error

	got := domain.Reason(last)
	if ex.Error != got {
		if last != nil && ex.Error == "" {
			return last
		}
		errs = append(errs, fmt.Errorf("%w: error %q, got %q", ErrExpectation, ex.Error, got))
	}

	cur, ok := mgr.Current()
	if ex.Empty && ok {
		errs = append(errs, fmt.Errorf("%w: empty stack, got current %q", ErrExpectation, domain.NameOf(cur)))
	}
	if ex.Current != "" {
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: current %q, got none", ErrExpectation, ex.Current))
		case domain.NameOf(cur) != ex.Current:
			errs = append(errs, fmt.Errorf("%w: current %q, got %q", ErrExpectation, ex.Current, domain.NameOf(cur)))
		}
	}
	if ex.Depth != nil && mgr.Len() != *ex.Depth {
		errs = append(errs, fmt.Errorf("%w: depth %d, got %d", ErrExpectation, *ex.Depth, mgr.Len()))
	}

	return errors.Join(errs...)
}
