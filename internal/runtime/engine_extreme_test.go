package runtime_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func once(fn func()) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		fn()
	}
}

func TestEngine_PushFromEnter(t *testing.T) {
	j := &states.Journal{}
	var pushed []string
	e := newEngine(t, states.NewRecorder("M", j), runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnPush: func(ev *domain.TransitionEvent) { pushed = append(pushed, ev.From+"->"+ev.To) },
	}))
	j.Reset()
	pushed = nil

	pause := states.NewRecorder("pause", j)
	confirm := states.NewRecorder("confirm", j)
	pause.AfterEnter = once(func() { require.NoError(t, e.Push(confirm)) })

	require.NoError(t, e.Push(pause))

	assert.Equal(t, []string{"exit:M", "enter:pause", "exit:pause", "enter:confirm"}, j.Entries())
	assert.Equal(t, []string{"M", "pause", "confirm"}, e.Snapshot().States)
	// The outer push completes last and reports the real top.
	assert.Equal(t, []string{"pause->confirm", "M->confirm"}, pushed)
}

func TestEngine_PushFromExitDuringPush(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	e := newEngine(t, m)
	j.Reset()

	x := states.NewRecorder("X", j)
	m.AfterExit = once(func() { require.NoError(t, e.Push(x)) })

	require.NoError(t, e.Push(states.NewRecorder("A", j)))

	assert.Equal(t, []string{"exit:M", "enter:X", "exit:X", "enter:A"}, j.Entries())
	assert.Equal(t, []string{"M", "X", "A"}, e.Snapshot().States)
	assert.Equal(t, x.Enters(), x.Exits())
}

func TestEngine_PushFromExitDuringPop(t *testing.T) {
	j := &states.Journal{}
	e := newEngine(t, states.NewRecorder("M", j))
	a := states.NewRecorder("A", j)
	require.NoError(t, e.Push(a))
	j.Reset()

	y := states.NewRecorder("Y", j)
	a.AfterExit = once(func() { require.NoError(t, e.Push(y)) })

	require.NoError(t, e.Pop())

	assert.Equal(t, []string{"exit:A", "enter:Y"}, j.Entries())
	assert.Equal(t, []string{"M", "Y"}, e.Snapshot().States)
	cur, _ := e.Current()
	assert.Same(t, y, cur)
}

func TestEngine_PopFromExitDuringPop(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	e := newEngine(t, m)
	a := states.NewRecorder("A", j)
	require.NoError(t, e.Push(a))
	j.Reset()

	a.AfterExit = once(func() { require.NoError(t, e.Pop()) })

	require.NoError(t, e.Pop())

	// The nested pop already removed A; the outer pop has nothing left to do.
	assert.Equal(t, []string{"exit:A", "enter:M"}, j.Entries())
	assert.Equal(t, []string{"M"}, e.Snapshot().States)
	assert.EqualValues(t, 2, m.Enters())
}

func TestEngine_ReenteredTargetIsExitedAgain(t *testing.T) {
	j := &states.Journal{}
	e := newEngine(t, states.NewRecorder("M", j))
	a := states.NewRecorder("A", j)
	require.NoError(t, e.Push(a))
	j.Reset()

	x := states.NewRecorder("X", j)
	a.AfterExit = once(func() {
		require.NoError(t, e.Push(x))
		require.NoError(t, e.Pop())
	})

	require.NoError(t, e.Pop())

	assert.Equal(t, []string{
		"exit:A", "enter:X", "exit:X", "enter:A", "exit:A", "enter:M",
	}, j.Entries())
	assert.Equal(t, a.Enters(), a.Exits())
	assert.Equal(t, []string{"M"}, e.Snapshot().States)
}

func TestEngine_RecursionGuard(t *testing.T) {
	e := newEngine(t, states.NewRecorder("M", nil), runtime.WithMaxNesting(8))

	var rejected error
	var spawn func(i int) *states.Recorder
	spawn = func(i int) *states.Recorder {
		r := states.NewRecorder(fmt.Sprintf("s%d", i), nil)
		r.AfterEnter = func() {
			if err := e.Push(spawn(i + 1)); err != nil {
				rejected = err
			}
		}
		return r
	}

	require.NoError(t, e.Push(spawn(1)))

	assert.ErrorIs(t, rejected, domain.ErrNestingTooDeep)
	assert.Equal(t, 9, e.Len())
	assert.Equal(t, "s8", e.Snapshot().Current)

	// Nesting unwound completely: a plain push still works.
	require.NoError(t, e.Push(states.NewRecorder("after", nil)))
}
