package states

import (
	"sync"

	"go.uber.org/atomic"
)

// Journal is an ordered log of hook calls shared by several recorders.
// Entries look like "enter:menu" and "exit:menu".
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) add(hook, name string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, hook+":"+name)
}

// Entries returns a copy of the recorded hook calls in order.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Reset clears the journal.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// Recorder is a state that counts its enter and exit calls.
// AfterEnter and AfterExit, when set, run after the call is recorded; tests use
// them to drive nested transitions.
type Recorder struct {
	name    string
	journal *Journal
	enters  atomic.Int64
	exits   atomic.Int64

	AfterEnter func()
	AfterExit  func()
}

// NewRecorder creates a recorder that writes to journal (which may be nil).
func NewRecorder(name string, journal *Journal) *Recorder {
	return &Recorder{name: name, journal: journal}
}

func (r *Recorder) OnStateEnter() {
	r.enters.Inc()
	r.journal.add("enter", r.name)
	if r.AfterEnter != nil {
		r.AfterEnter()
	}
}

func (r *Recorder) OnStateExit() {
	r.exits.Inc()
	r.journal.add("exit", r.name)
	if r.AfterExit != nil {
		r.AfterExit()
	}
}

func (r *Recorder) StateName() string { return r.name }

// Enters returns how many times the state was entered.
func (r *Recorder) Enters() int64 { return r.enters.Load() }

// Exits returns how many times the state was exited.
func (r *Recorder) Exits() int64 { return r.exits.Load() }

// Active reports whether an enter is still waiting for its exit.
func (r *Recorder) Active() bool { return r.enters.Load() > r.exits.Load() }
