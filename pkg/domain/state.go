package domain

import (
	"fmt"
	"reflect"
)

// State is a unit of behavior that can occupy the stack.
// The manager calls OnStateEnter when the state becomes the top of the stack
// and OnStateExit when it stops being the top (displaced by a push or removed by a pop).
type State interface {
	OnStateEnter()
	OnStateExit()
}

// Namer is implemented by states that want a stable label in logs, events and snapshots.
type Namer interface {
	StateName() string
}

// InitialStateFactory produces the state a manager starts with.
type InitialStateFactory func() State

// StateFuncs adapts a pair of plain functions to the State interface.
// Nil functions are skipped.
type StateFuncs struct {
	Name  string
	Enter func()
	Exit  func()
}

// OnStateEnter calls Enter if set.
func (f *StateFuncs) OnStateEnter() {
	if f.Enter != nil {
		f.Enter()
	}
}

// OnStateExit calls Exit if set.
func (f *StateFuncs) OnStateExit() {
	if f.Exit != nil {
		f.Exit()
	}
}

// StateName returns the configured name, or "func" when empty.
func (f *StateFuncs) StateName() string {
	if f.Name == "" {
		return "func"
	}
	return f.Name
}

// NameOf returns the label used for a state: its StateName when it implements Namer,
// otherwise its dynamic type.
func NameOf(s State) string {
	if s == nil {
		return "<nil>"
	}
	if n, ok := s.(Namer); ok {
		return n.StateName()
	}
	return fmt.Sprintf("%T", s)
}

// IsNil reports whether s is absent: a nil interface or an interface holding a nil
// pointer, map, slice, func or channel.
func IsNil(s State) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Snapshot is a read-only, copyable view of a stack.
// It holds labels only, so it can be handed to other goroutines.
type Snapshot struct {
	// States lists the labels from bottom to top.
	States []string `json:"states"`

	// Current is the label of the top state, empty when the stack is empty.
	Current string `json:"current,omitempty"`

	// Active reports whether the top state has been entered and not yet exited.
	Active bool `json:"active"`
}

// Depth returns the number of states in the snapshot.
func (s Snapshot) Depth() int {
	return len(s.States)
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.States = append([]string(nil), s.States...)
	return out
}
