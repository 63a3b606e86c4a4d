/*
Package domain contains the core contracts of the strata state stack.

It defines what a State is, the errors the manager reports, the lifecycle events
it emits and the Snapshot view used to observe a stack from outside the loop.
This package is kept pure and free of I/O and third-party dependencies.

# Key Entities

  - State: a unit of behavior with OnStateEnter/OnStateExit hooks.
  - Snapshot: labels of the stacked states, bottom to top, plus the active flag.
  - LifecycleHooks: observer callbacks fired after each state hook and transition.
  - TransitionError: a rejected operation, wrapping one of the sentinel errors.
*/
package domain
