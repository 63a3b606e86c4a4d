package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/strata/pkg/domain"
)

// Message is the JSON payload of a streamed lifecycle event.
type Message struct {
	Type      domain.EventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Depth     int              `json:"depth"`
	State     string           `json:"state,omitempty"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Op        string           `json:"op,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

type subscriber struct {
	ch    chan Message
	types map[domain.EventType]bool
}

// StreamManager fans lifecycle events out to SSE clients.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	logger      *slog.Logger
	buffer      int
}

// NewStreamManager creates a manager. A nil logger uses slog.Default().
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
		buffer:      32,
	}
}

// Subscribe registers a client. An empty types list receives every event.
// The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(types ...domain.EventType) (<-chan Message, func()) {
	sub := &subscriber{ch: make(chan Message, sm.buffer)}
	if len(types) > 0 {
		sub.types = make(map[domain.EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	sm.mu.Lock()
	sm.subscribers[sub] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, sub)
			close(sub.ch)
		})
	}
}

// Subscribers returns the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every interested subscriber without blocking.
func (sm *StreamManager) Broadcast(msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for sub := range sm.subscribers {
		if sub.types != nil && !sub.types[msg.Type] {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping event", "type", msg.Type)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.StateEvent) {
			sm.Broadcast(Message{Type: e.Type, Timestamp: e.Timestamp, Depth: e.Depth, State: e.State})
		},
		OnExit: func(e *domain.StateEvent) {
			sm.Broadcast(Message{Type: e.Type, Timestamp: e.Timestamp, Depth: e.Depth, State: e.State})
		},
		OnPush: func(e *domain.TransitionEvent) {
			sm.Broadcast(Message{Type: e.Type, Timestamp: e.Timestamp, Depth: e.Depth, From: e.From, To: e.To})
		},
		OnPop: func(e *domain.TransitionEvent) {
			sm.Broadcast(Message{Type: e.Type, Timestamp: e.Timestamp, Depth: e.Depth, From: e.From, To: e.To})
		},
		OnReject: func(e *domain.RejectEvent) {
			sm.Broadcast(Message{Type: e.Type, Timestamp: e.Timestamp, Depth: e.Depth, Op: e.Op, Reason: e.Reason})
		},
	}
}

func encode(msg Message) string {
	data, _ := json.Marshal(msg)
	return string(data)
}
