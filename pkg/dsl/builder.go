package dsl

import (
	"errors"

	"github.com/aretw0/strata/pkg/scenario"
)

// P is shorthand for factory params.
type P map[string]any

// Builder accumulates scenario steps.
type Builder struct {
	sc      scenario.Scenario
	started bool
}

// New creates a builder for a scenario with the given name.
func New(name string) *Builder {
	return &Builder{sc: scenario.Scenario{Name: name}}
}

// Policy sets the pop policy ("allow-empty" or "keep-baseline").
func (b *Builder) Policy(policy string) *Builder {
	b.sc.Policy = policy
	return b
}

// Start sets the initial state.
func (b *Builder) Start(state string, params P) *Builder {
	b.sc.Initial = scenario.StateRef{State: state, Params: params}
	b.started = true
	return b
}

// Push appends a push step.
func (b *Builder) Push(state string, params P) *Builder {
	b.sc.Steps = append(b.sc.Steps, scenario.Step{Push: &scenario.StateRef{State: state, Params: params}})
	return b
}

// Pop appends a pop step.
func (b *Builder) Pop() *Builder {
	b.sc.Steps = append(b.sc.Steps, scenario.Step{Pop: true})
	return b
}

// Expect appends an arbitrary expectation.
func (b *Builder) Expect(ex scenario.Expect) *Builder {
	b.sc.Steps = append(b.sc.Steps, scenario.Step{Expect: &ex})
	return b
}

// ExpectCurrent expects the given label on top.
func (b *Builder) ExpectCurrent(label string) *Builder {
	return b.Expect(scenario.Expect{Current: label})
}

// ExpectDepth expects the given number of states.
func (b *Builder) ExpectDepth(depth int) *Builder {
	return b.Expect(scenario.Expect{Depth: &depth})
}

// ExpectEmpty expects no current state.
func (b *Builder) ExpectEmpty() *Builder {
	return b.Expect(scenario.Expect{Empty: true})
}

// ExpectError acknowledges the failure of the previous step.
func (b *Builder) ExpectError(reason string) *Builder {
	return b.Expect(scenario.Expect{Error: reason})
}

// Build returns the scenario. Registry-dependent checks are left to scenario.Validate.
func (b *Builder) Build() (*scenario.Scenario, error) {
	if !b.started {
		return nil, errors.New("scenario has no initial state")
	}
	sc := b.sc
	sc.Steps = append([]scenario.Step(nil), b.sc.Steps...)
	return &sc, nil
}
