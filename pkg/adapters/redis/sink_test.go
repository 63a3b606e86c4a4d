package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strata"
	"github.com/aretw0/strata/pkg/adapters/redis"
	"github.com/aretw0/strata/pkg/states"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_PublishesLifecycle(t *testing.T) {
	_, client := newClient(t)
	sink := redis.NewSink(client, "")
	assert.Equal(t, redis.DefaultStream, sink.Stream())

	m, err := strata.New(strata.Initial(states.NewMode("gameplay", nil)),
		strata.WithLifecycleHooks(sink.Hooks()))
	require.NoError(t, err)
	require.NoError(t, m.Push(states.NewMode("pause", nil)))
	require.NoError(t, m.Pop())
	require.NoError(t, m.Pop())
	require.Error(t, m.Pop())

	ctx := context.Background()
	msgs, err := client.XRange(ctx, redis.DefaultStream, "-", "+").Result()
	require.NoError(t, err)

	var types []string
	for _, msg := range msgs {
		types = append(types, msg.Values["type"].(string))
	}
	assert.Equal(t, []string{
		"state_enter", "push",
		"state_exit", "state_enter", "push",
		"state_exit", "state_enter", "pop",
		"state_exit", "pop",
		"reject",
	}, types)

	assert.Equal(t, "gameplay", msgs[0].Values["state"])
	assert.Equal(t, "gameplay", msgs[4].Values["from"])
	assert.Equal(t, "pause", msgs[4].Values["to"])
	assert.Equal(t, "2", msgs[4].Values["depth"])
	assert.Equal(t, "empty_stack", msgs[10].Values["reason"])
	_, hasTo := msgs[9].Values["to"]
	assert.False(t, hasTo, "empty fields are omitted")

	assert.EqualValues(t, 11, sink.Published())
	assert.Zero(t, sink.Failures())
}

func TestSink_MaxLen(t *testing.T) {
	_, client := newClient(t)
	sink := redis.NewSink(client, "events", redis.WithMaxLen(3))

	m, err := strata.New(strata.Initial(states.NewMode("a", nil)), strata.WithLifecycleHooks(sink.Hooks()))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Push(states.NewMode("b", nil)))
	}

	n, err := client.XLen(context.Background(), "events").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSink_FailuresAreCounted(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	sink := redis.NewSink(client, "events", redis.WithTimeout(200*time.Millisecond))
	m, err := strata.New(strata.Initial(states.NewMode("a", nil)), strata.WithLifecycleHooks(sink.Hooks()))
	require.NoError(t, err, "a broken sink must not break the stack")

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.(*states.Mode).StateName())
	assert.EqualValues(t, 2, sink.Failures())
	assert.Zero(t, sink.Published())
}
