package domain

import (
	"errors"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateEnter EventType = "state_enter"
	EventStateExit  EventType = "state_exit"
	EventPush       EventType = "push"
	EventPop        EventType = "pop"
	EventReject     EventType = "reject"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Depth     int       `json:"depth"` // Stack depth after the event
}

// StateEvent reports a hook call on a state.
type StateEvent struct {
	EventBase
	State string `json:"state"`
}

// TransitionEvent reports a completed push or pop.
type TransitionEvent struct {
	EventBase
	From string `json:"from,omitempty"` // Top before the operation
	To   string `json:"to,omitempty"`   // Top after the operation
}

// RejectEvent reports an operation rejected before any mutation.
type RejectEvent struct {
	EventBase
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// LifecycleHooks defines callbacks for manager observability.
// Hooks run synchronously on the caller's goroutine. OnEnter and OnExit fire just
// before the state's own hook; OnPush and OnPop fire once the operation has completed.
type LifecycleHooks struct {
	OnEnter  func(*StateEvent)
	OnExit   func(*StateEvent)
	OnPush   func(*TransitionEvent)
	OnPop    func(*TransitionEvent)
	OnReject func(*RejectEvent)
}

// Reason maps a rejection error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInitialState):
		return "invalid_initial_state"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrEmptyStack):
		return "empty_stack"
	case errors.Is(err, ErrNestingTooDeep):
		return "nesting_too_deep"
	default:
		return "unknown"
	}
}
