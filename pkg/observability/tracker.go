package observability

import (
	"sync"

	"github.com/aretw0/strata/pkg/domain"
	"go.uber.org/atomic"
)

// SnapshotSource is anything that can produce a stack snapshot.
// *strata.Manager satisfies it.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// Stats are cumulative counters kept by a Tracker.
type Stats struct {
	Pushes     int64 `json:"pushes"`
	Pops       int64 `json:"pops"`
	Enters     int64 `json:"enters"`
	Exits      int64 `json:"exits"`
	Rejections int64 `json:"rejections"`
}

// Tracker publishes the latest snapshot of a stack to other goroutines.
// Its hooks run on the loop goroutine and read the source there; Snapshot and
// Stats may be called from anywhere.
type Tracker struct {
	source SnapshotSource

	mu   sync.RWMutex
	last domain.Snapshot

	pushes     atomic.Int64
	pops       atomic.Int64
	enters     atomic.Int64
	exits      atomic.Int64
	rejections atomic.Int64
}

// NewTracker creates a tracker. Bind must be called once the source exists,
// since the manager is usually built with the tracker's hooks.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Bind sets the snapshot source and captures its current state.
// Call it from the loop goroutine.
func (t *Tracker) Bind(src SnapshotSource) {
	t.source = src
	t.refresh()
}

func (t *Tracker) refresh() {
	if t.source == nil {
		return
	}
	snap := t.source.Snapshot()
	t.mu.Lock()
	t.last = snap
	t.mu.Unlock()
}

// Snapshot returns a copy of the latest published snapshot.
func (t *Tracker) Snapshot() domain.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last.Clone()
}

// Stats returns the counters accumulated so far.
func (t *Tracker) Stats() Stats {
	return Stats{
		Pushes:     t.pushes.Load(),
		Pops:       t.pops.Load(),
		Enters:     t.enters.Load(),
		Exits:      t.exits.Load(),
		Rejections: t.rejections.Load(),
	}
}

// Hooks returns lifecycle hooks that keep the tracker up to date.
func (t *Tracker) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(*domain.StateEvent) { t.enters.Inc() },
		OnExit:  func(*domain.StateEvent) { t.exits.Inc() },
		OnPush: func(*domain.TransitionEvent) {
			t.pushes.Inc()
			t.refresh()
		},
		OnPop: func(*domain.TransitionEvent) {
			t.pops.Inc()
			t.refresh()
		},
		OnReject: func(*domain.RejectEvent) { t.rejections.Inc() },
	}
}
