package runtime_test

import (
	"math/rand"
	"testing"

	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, initial domain.State, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	e, err := runtime.New(func() domain.State { return initial }, opts...)
	require.NoError(t, err)
	return e
}

func TestEngine_InitialStateIsEntered(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)

	e := newEngine(t, m)

	cur, ok := e.Current()
	require.True(t, ok)
	assert.Same(t, m, cur)
	assert.Equal(t, 1, e.Len())
	assert.EqualValues(t, 1, m.Enters())
	assert.EqualValues(t, 0, m.Exits())
	assert.Equal(t, []string{"enter:M"}, j.Entries())
}

func TestEngine_InvalidInitialState(t *testing.T) {
	t.Run("nil factory", func(t *testing.T) {
		_, err := runtime.New(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInitialState)
	})

	t.Run("factory returns nil", func(t *testing.T) {
		_, err := runtime.New(func() domain.State { return nil })
		assert.ErrorIs(t, err, domain.ErrInvalidInitialState)
	})

	t.Run("factory returns typed nil", func(t *testing.T) {
		var r *states.Recorder
		_, err := runtime.New(func() domain.State { return r })
		assert.ErrorIs(t, err, domain.ErrInvalidInitialState)
	})
}

func TestEngine_PushPopScenario(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	a := states.NewRecorder("A", j)
	b := states.NewRecorder("B", j)

	e := newEngine(t, m)
	j.Reset()

	require.NoError(t, e.Push(a))
	assert.Equal(t, []string{"exit:M", "enter:A"}, j.Entries())
	cur, _ := e.Current()
	assert.Same(t, a, cur)

	j.Reset()
	require.NoError(t, e.Push(b))
	assert.Equal(t, []string{"exit:A", "enter:B"}, j.Entries())
	cur, _ = e.Current()
	assert.Same(t, b, cur)

	j.Reset()
	require.NoError(t, e.Pop())
	assert.Equal(t, []string{"exit:B", "enter:A"}, j.Entries())
	cur, _ = e.Current()
	assert.Same(t, a, cur)

	j.Reset()
	require.NoError(t, e.Pop())
	assert.Equal(t, []string{"exit:A", "enter:M"}, j.Entries())
	cur, _ = e.Current()
	assert.Same(t, m, cur)

	j.Reset()
	require.NoError(t, e.Pop())
	assert.Equal(t, []string{"exit:M"}, j.Entries())
	_, ok := e.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, e.Len())

	j.Reset()
	err := e.Pop()
	assert.ErrorIs(t, err, domain.ErrEmptyStack)
	assert.Empty(t, j.Entries(), "a rejected pop must not call hooks")

	for _, r := range []*states.Recorder{m, a, b} {
		assert.Equal(t, r.Enters(), r.Exits(), "state %s unbalanced", r.StateName())
	}
}

func TestEngine_PopInitialLeavesNoCurrent(t *testing.T) {
	m := states.NewRecorder("M", nil)
	e := newEngine(t, m)

	require.NoError(t, e.Pop())

	_, ok := e.Current()
	assert.False(t, ok)
	assert.EqualValues(t, 1, m.Exits())
}

func TestEngine_PopKeepBaseline(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	e := newEngine(t, m, runtime.WithPopPolicy(runtime.PopKeepBaseline))
	j.Reset()

	err := e.Pop()
	assert.ErrorIs(t, err, domain.ErrEmptyStack)
	assert.Empty(t, j.Entries())

	cur, ok := e.Current()
	require.True(t, ok)
	assert.Same(t, m, cur)
	assert.Equal(t, "keep-baseline", e.Policy().String())
}

func TestEngine_PushNilIsRejected(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	e := newEngine(t, m)
	before := e.Snapshot()
	j.Reset()

	err := e.Push(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	var typedNil *states.Recorder
	err = e.Push(typedNil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Empty(t, j.Entries())
	assert.Equal(t, before, e.Snapshot())
	cur, _ := e.Current()
	assert.Same(t, m, cur)

	var terr *domain.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, domain.OpPush, terr.Op)
	assert.Equal(t, 1, terr.Depth)
}

func TestEngine_SameInstanceTwice(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	menu := states.NewRecorder("menu", j)
	e := newEngine(t, m)

	require.NoError(t, e.Push(menu))
	require.NoError(t, e.Push(menu))
	assert.Equal(t, 3, e.Len())
	assert.EqualValues(t, 2, menu.Enters())
	assert.EqualValues(t, 1, menu.Exits())

	require.NoError(t, e.Pop())
	cur, _ := e.Current()
	assert.Same(t, menu, cur)
	assert.EqualValues(t, 3, menu.Enters(), "the exposed occupancy is entered afresh")
	assert.EqualValues(t, 2, menu.Exits())

	require.NoError(t, e.Pop())
	assert.Equal(t, menu.Enters(), menu.Exits())
}

func TestEngine_StatesAndSnapshot(t *testing.T) {
	e := newEngine(t, states.NewMode("gameplay", nil))
	require.NoError(t, e.Push(states.NewMode("pause", nil)))

	snap := e.Snapshot()
	assert.Equal(t, []string{"gameplay", "pause"}, snap.States)
	assert.Equal(t, "pause", snap.Current)
	assert.True(t, snap.Active)
	assert.Equal(t, 2, snap.Depth())

	list := e.States()
	require.Len(t, list, 2)
	assert.Equal(t, "gameplay", domain.NameOf(list[0]))
}

// TestEngine_RandomSequencesStayBalanced drives random push/pop sequences and
// checks that every recorder ends with enters == exits, except for the top,
// which may have exactly one pending enter.
func TestEngine_RandomSequencesStayBalanced(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		pool := make([]*states.Recorder, 5)
		for i := range pool {
			pool[i] = states.NewRecorder(string(rune('a'+i)), nil)
		}
		e := newEngine(t, pool[0])

		for step := 0; step < 200; step++ {
			if rng.Intn(3) == 0 {
				err := e.Pop()
				if e.Len() == 0 && err != nil {
					assert.ErrorIs(t, err, domain.ErrEmptyStack)
				}
				continue
			}
			require.NoError(t, e.Push(pool[rng.Intn(len(pool))]))
		}

		top, hasTop := e.Current()

		for _, r := range pool {
			diff := r.Enters() - r.Exits()
			if hasTop && top == domain.State(r) {
				assert.EqualValues(t, 1, diff, "top %s should have one pending enter", r.StateName())
			} else {
				assert.EqualValues(t, 0, diff, "%s unbalanced", r.StateName())
			}
		}
	}
}
