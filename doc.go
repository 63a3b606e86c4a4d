/*
Package strata is a stack-based state machine for layered, resumable modes of
interaction: menus, pause overlays, cutscenes, gameplay phases.

A Manager owns an ordered stack of states. The top of the stack is the active
state. Every transition follows the same protocol: the current top is exited, the
stack is mutated, and the new top is entered. States only implement two hooks:

	type State interface {
		OnStateEnter()
		OnStateExit()
	}

# Usage

	gameplay := &Gameplay{}
	m, err := strata.New(strata.Initial(gameplay))
	if err != nil {
		log.Fatal(err)
	}

	// Pause: gameplay is exited, pause is entered.
	_ = m.Push(&PauseMenu{})

	// Resume: pause is exited, gameplay is entered again.
	_ = m.Pop()

# Nested transitions

Hooks may call Push or Pop on the manager that invoked them (a pause menu pushing
a confirmation dialog, for example). The nested call completes before the outer
transition resumes, and each enter is always matched by exactly one exit. The
depth of such nesting is bounded by WithMaxNesting.

# Concurrency

A Manager is meant to be driven from a single loop. It performs no locking; use
the observability package to publish snapshots to other goroutines.
*/
package strata
