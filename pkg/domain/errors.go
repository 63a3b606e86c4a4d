package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInitialState is returned when the initial-state factory is missing or yields no state.
var ErrInvalidInitialState = errors.New("invalid initial state")

// ErrInvalidArgument is returned when a nil state is pushed.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptyStack is returned when Pop has nothing it is allowed to remove.
var ErrEmptyStack = errors.New("empty stack")

// ErrNestingTooDeep is returned when transitions triggered from inside hooks nest
// beyond the configured limit.
var ErrNestingTooDeep = errors.New("transition nesting too deep")

// ErrSnapshotNotFound is returned by snapshot stores for unknown names.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Operation names used in TransitionError and events.
const (
	OpInit = "init"
	OpPush = "push"
	OpPop  = "pop"
)

// TransitionError describes a rejected stack operation.
// No mutation and no hook call happened for a rejected operation.
type TransitionError struct {
	Op    string // Operation that was rejected (init, push, pop)
	State string // Label of the state involved, if any
	Depth int    // Stack depth at the time of the call
	Err   error  // One of the sentinel errors above
}

func (e *TransitionError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("strata: %s %s: %v", e.Op, e.State, e.Err)
	}
	return fmt.Sprintf("strata: %s: %v", e.Op, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// IsEmptyStack reports whether err is, or wraps, ErrEmptyStack.
func IsEmptyStack(err error) bool {
	return errors.Is(err, ErrEmptyStack)
}
