package runtime_test

import (
	"testing"

	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Hooks report failure by panicking. The engine never recovers: the panic reaches
// the caller and the stack keeps whatever mutation had already completed.

func TestEngine_PanickingExitDuringPushLeavesStackUnchanged(t *testing.T) {
	j := &states.Journal{}
	m := states.NewRecorder("M", j)
	e := newEngine(t, m, runtime.WithMaxNesting(1))

	m.AfterExit = func() { panic("exit failed") }
	a := states.NewRecorder("A", j)

	assert.PanicsWithValue(t, "exit failed", func() { _ = e.Push(a) })

	assert.Equal(t, 1, e.Len())
	cur, _ := e.Current()
	assert.Same(t, m, cur)
	assert.False(t, e.Snapshot().Active, "exited top is no longer active")
	assert.EqualValues(t, 0, a.Enters())

	// The nesting counter was restored, and M is not exited a second time.
	m.AfterExit = nil
	require.NoError(t, e.Push(a))
	assert.EqualValues(t, 1, m.Exits())
	assert.Equal(t, []string{"enter:M", "exit:M", "enter:A"}, j.Entries())
}

func TestEngine_PanickingEnterDuringPushKeepsAppend(t *testing.T) {
	m := states.NewRecorder("M", nil)
	e := newEngine(t, m)

	a := states.NewRecorder("A", nil)
	a.AfterEnter = func() { panic("enter failed") }

	assert.Panics(t, func() { _ = e.Push(a) })

	cur, _ := e.Current()
	assert.Same(t, a, cur)
	assert.True(t, e.Snapshot().Active)

	a.AfterEnter = nil
	require.NoError(t, e.Pop())
	cur, _ = e.Current()
	assert.Same(t, m, cur)
	assert.Equal(t, a.Enters(), a.Exits())
}

func TestEngine_PanickingExitDuringPopDefersRemoval(t *testing.T) {
	m := states.NewRecorder("M", nil)
	e := newEngine(t, m)
	a := states.NewRecorder("A", nil)
	require.NoError(t, e.Push(a))

	a.AfterExit = func() { panic("exit failed") }
	assert.Panics(t, func() { _ = e.Pop() })
	assert.Equal(t, 2, e.Len(), "removal happens only after a successful exit")

	a.AfterExit = nil
	require.NoError(t, e.Pop())
	assert.Equal(t, 1, e.Len())
	assert.EqualValues(t, 1, a.Exits(), "A must not be exited twice")
	assert.EqualValues(t, 2, m.Enters())
}

func TestEngine_TransitionErrorMessage(t *testing.T) {
	e := newEngine(t, states.NewMode("menu", nil), runtime.WithPopPolicy(runtime.PopKeepBaseline))

	err := e.Pop()
	require.Error(t, err)
	assert.Equal(t, "strata: pop menu: empty stack", err.Error())
	assert.True(t, domain.IsEmptyStack(err))
}
