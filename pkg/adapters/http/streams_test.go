package http

import (
	"testing"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestStreamManager_FilterAndUnsubscribe(t *testing.T) {
	sm := NewStreamManager(nil)

	all, cancelAll := sm.Subscribe()
	pops, cancelPops := sm.Subscribe(domain.EventPop)
	assert.Equal(t, 2, sm.Subscribers())

	sm.Broadcast(Message{Type: domain.EventPush, To: "a"})
	sm.Broadcast(Message{Type: domain.EventPop, From: "a"})

	assert.Equal(t, domain.EventPush, (<-all).Type)
	assert.Equal(t, domain.EventPop, (<-all).Type)
	assert.Equal(t, "a", (<-pops).From)
	assert.Len(t, pops, 0)

	cancelAll()
	cancelAll()
	cancelPops()
	assert.Equal(t, 0, sm.Subscribers())

	_, ok := <-all
	assert.False(t, ok)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(nil)
	sm.buffer = 1
	ch, cancel := sm.Subscribe()
	defer cancel()

	sm.Broadcast(Message{Type: domain.EventPush})
	sm.Broadcast(Message{Type: domain.EventPop})

	assert.Len(t, ch, 1)
	assert.Equal(t, domain.EventPush, (<-ch).Type)
}

func TestEncode(t *testing.T) {
	assert.JSONEq(t,
		`{"type":"reject","timestamp":"0001-01-01T00:00:00Z","depth":0,"op":"pop","reason":"empty_stack"}`,
		encode(Message{Type: domain.EventReject, Op: "pop", Reason: "empty_stack"}))
}
