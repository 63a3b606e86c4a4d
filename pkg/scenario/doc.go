/*
Package scenario describes and replays scripted stack transitions.

A scenario names an initial state and a list of steps. Each step either pushes a
state built from a registry.Registry, pops the top, or checks an expectation
about the stack (current state, depth, or the error of the previous operation).

	name: pause-menu
	initial:
	  state: mode
	  params: {name: gameplay}
	steps:
	  - push: {state: toggle, params: {name: pause, elements: [overlay]}}
	  - expect: {current: pause, depth: 2}
	  - pop: true
	  - pop: true
	  - pop: true
	  - expect: {error: empty_stack}

Scenarios can be written in YAML, TOML or JSON; Load picks the decoder from the
file extension. Play runs a scenario against a fresh manager and returns a Report
holding every lifecycle event in order.
*/
package scenario
