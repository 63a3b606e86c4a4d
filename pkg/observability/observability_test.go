package observability_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/observability"
	"github.com/aretw0/strata/pkg/states"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_DeliversToEverySet(t *testing.T) {
	var got []string
	a := domain.LifecycleHooks{OnPush: func(e *domain.TransitionEvent) { got = append(got, "a:"+e.To) }}
	b := domain.LifecycleHooks{
		OnPush:  func(e *domain.TransitionEvent) { got = append(got, "b:"+e.To) },
		OnEnter: func(e *domain.StateEvent) { got = append(got, "b-enter:"+e.State) },
	}

	_, err := strata.New(strata.Initial(states.NewMode("title", nil)),
		strata.WithLifecycleHooks(observability.Combine(a, b)))
	require.NoError(t, err)

	assert.Equal(t, []string{"b-enter:title", "a:title", "b:title"}, got)
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	m, err := strata.New(strata.Initial(states.NewMode("gameplay", nil)),
		strata.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	require.NoError(t, m.Push(states.NewMode("pause", nil)))
	require.NoError(t, m.Pop())
	require.NoError(t, m.Pop())
	assert.Error(t, m.Pop())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("push")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("pop")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HookCalls.WithLabelValues("enter", "gameplay")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HookCalls.WithLabelValues("exit", "pause")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejections.WithLabelValues("empty_stack")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Depth))

	count, err := testutil.GatherAndCount(reg, "strata_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := strata.New(strata.Initial(states.NewMode("menu", nil)),
		strata.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)
	require.NoError(t, m.Pop())
	_ = m.Pop()

	out := buf.String()
	assert.Contains(t, out, "msg=state_enter state=menu")
	assert.Contains(t, out, "msg=pop from=menu")
	assert.Contains(t, out, "reason=empty_stack")
}

func TestTracker_PublishesSnapshots(t *testing.T) {
	tracker := observability.NewTracker()

	m, err := strata.New(strata.Initial(states.NewMode("gameplay", nil)),
		strata.WithLifecycleHooks(tracker.Hooks()))
	require.NoError(t, err)

	assert.Empty(t, tracker.Snapshot().States, "nothing published before Bind")
	tracker.Bind(m)
	assert.Equal(t, []string{"gameplay"}, tracker.Snapshot().States)

	require.NoError(t, m.Push(states.NewMode("inventory", nil)))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := tracker.Snapshot()
			assert.Equal(t, "inventory", snap.Current)
		}()
	}
	wg.Wait()

	require.NoError(t, m.Pop())
	_ = m.Push(nil)

	stats := tracker.Stats()
	assert.EqualValues(t, 2, stats.Pushes)
	assert.EqualValues(t, 1, stats.Pops)
	assert.EqualValues(t, 3, stats.Enters)
	assert.EqualValues(t, 2, stats.Exits)
	assert.EqualValues(t, 1, stats.Rejections)
}
