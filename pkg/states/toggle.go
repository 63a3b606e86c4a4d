package states

import (
	"io"
	"log/slog"

	"go.uber.org/atomic"
)

// Activatable is a resource owned by a state and shown only while the state is active.
type Activatable interface {
	SetActive(active bool)
}

// ActivatableFunc adapts a function to Activatable.
type ActivatableFunc func(active bool)

func (f ActivatableFunc) SetActive(active bool) { f(active) }

// Toggle activates its targets on enter and deactivates them, in reverse order, on exit.
type Toggle struct {
	name    string
	targets []Activatable
}

// NewToggle creates a toggle state over the given targets.
func NewToggle(name string, targets ...Activatable) *Toggle {
	return &Toggle{name: name, targets: targets}
}

func (t *Toggle) OnStateEnter() {
	for _, target := range t.targets {
		target.SetActive(true)
	}
}

func (t *Toggle) OnStateExit() {
	for i := len(t.targets) - 1; i >= 0; i-- {
		t.targets[i].SetActive(false)
	}
}

func (t *Toggle) StateName() string { return t.name }

// Element is a named on/off resource, the stand-in for a visual object.
// Its flag can be read from any goroutine.
type Element struct {
	Name   string
	active atomic.Bool
	logger *slog.Logger
}

// NewElement creates an inactive element. A nil logger discards output.
func NewElement(name string, logger *slog.Logger) *Element {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Element{Name: name, logger: logger}
}

func (e *Element) SetActive(active bool) {
	e.active.Store(active)
	if active {
		e.logger.Info("element shown", "element", e.Name)
	} else {
		e.logger.Info("element hidden", "element", e.Name)
	}
}

// Active reports whether the element is currently shown.
func (e *Element) Active() bool { return e.active.Load() }
