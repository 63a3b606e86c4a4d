package redis

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/strata/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"go.uber.org/atomic"
)

// DefaultStream is the stream key used when none is given.
const DefaultStream = "strata:events"

// Sink appends lifecycle events to a Redis stream with XADD.
// Each write is bounded by a timeout; failures are logged and counted, never
// returned to the stack.
type Sink struct {
	client  backend.UniversalClient
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *slog.Logger

	published atomic.Int64
	failures  atomic.Int64
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithMaxLen trims the stream to exactly n entries on every write.
func WithMaxLen(n int64) SinkOption {
	return func(s *Sink) {
		s.maxLen = n
	}
}

// WithTimeout bounds each XADD (default 500ms).
func WithTimeout(d time.Duration) SinkOption {
	return func(s *Sink) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for write failures.
func WithLogger(logger *slog.Logger) SinkOption {
	return func(s *Sink) {
		s.logger = logger
	}
}

// NewSink creates a sink writing to stream. An empty stream uses DefaultStream.
func NewSink(client backend.UniversalClient, stream string, opts ...SinkOption) *Sink {
	if stream == "" {
		stream = DefaultStream
	}
	s := &Sink{
		client:  client,
		stream:  stream,
		timeout: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Stream returns the stream key.
func (s *Sink) Stream() string { return s.stream }

// Published returns the number of events written.
func (s *Sink) Published() int64 { return s.published.Load() }

// Failures returns the number of events that could not be written.
func (s *Sink) Failures() int64 { return s.failures.Load() }

// Publish writes one event with the given fields next to the common ones.
func (s *Sink) Publish(ctx context.Context, base domain.EventBase, fields map[string]any) error {
	values := map[string]any{
		"type":      string(base.Type),
		"depth":     strconv.Itoa(base.Depth),
		"timestamp": base.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		values[k] = v
	}

	args := &backend.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
	}
	return s.client.XAdd(ctx, args).Err()
}

func (s *Sink) send(base domain.EventBase, fields map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.Publish(ctx, base, fields); err != nil {
		s.failures.Inc()
		s.logger.Error("failed to publish event", "stream", s.stream, "type", base.Type, "err", err)
		return
	}
	s.published.Inc()
}

// Hooks returns lifecycle hooks that publish every event.
func (s *Sink) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.StateEvent) {
			s.send(e.EventBase, map[string]any{"state": e.State})
		},
		OnExit: func(e *domain.StateEvent) {
			s.send(e.EventBase, map[string]any{"state": e.State})
		},
		OnPush: func(e *domain.TransitionEvent) {
			s.send(e.EventBase, map[string]any{"from": e.From, "to": e.To})
		},
		OnPop: func(e *domain.TransitionEvent) {
			s.send(e.EventBase, map[string]any{"from": e.From, "to": e.To})
		},
		OnReject: func(e *domain.RejectEvent) {
			s.send(e.EventBase, map[string]any{"op": e.Op, "reason": e.Reason})
		},
	}
}
