package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/config"
	stratahttp "github.com/aretw0/strata/pkg/adapters/http"
	"github.com/aretw0/strata/pkg/adapters/memory"
	"github.com/aretw0/strata/pkg/adapters/redis"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/observability"
	"github.com/aretw0/strata/pkg/ports"
	"github.com/aretw0/strata/pkg/registry"
	"github.com/aretw0/strata/pkg/states"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// Wiring bundles the registry and observers shared by the commands.
type Wiring struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *registry.Registry
	Tracker  *observability.Tracker
	Metrics  *observability.Metrics
	Prom     *prometheus.Registry
	Streams  *stratahttp.StreamManager
	Store    ports.SnapshotStore
	Sink     *redis.Sink

	client *backend.Client
}

// NewWiring builds the shared components from cfg.
// A Redis address switches the snapshot store to Redis and enables the event sink.
func NewWiring(cfg config.Config, logger *slog.Logger) *Wiring {
	w := &Wiring{
		Config:   cfg,
		Logger:   logger,
		Registry: registry.NewRegistry(),
		Tracker:  observability.NewTracker(),
		Prom:     prometheus.NewRegistry(),
		Streams:  stratahttp.NewStreamManager(logger),
		Store:    memory.NewStore(),
	}
	states.RegisterBuiltins(w.Registry, logger)
	w.Metrics = observability.NewMetrics(w.Prom)

	if cfg.RedisAddr != "" {
		w.client = backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})
		w.Store = redis.NewFromClient(w.client)
		w.Sink = redis.NewSink(w.client, cfg.RedisStream, redis.WithLogger(logger))
	}
	return w
}

// Hooks combines every observer.
func (w *Wiring) Hooks() domain.LifecycleHooks {
	sets := []domain.LifecycleHooks{
		observability.LogHooks(w.Logger),
		w.Tracker.Hooks(),
		w.Metrics.Hooks(),
		w.Streams.Hooks(),
	}
	if w.Sink != nil {
		sets = append(sets, w.Sink.Hooks())
	}
	return observability.Combine(sets...)
}

// ManagerOptions returns the options for a manager named name.
func (w *Wiring) ManagerOptions(name string) []strata.Option {
	return []strata.Option{
		strata.WithLogger(w.Logger),
		strata.WithName(name),
		strata.WithPopPolicy(w.Config.Policy()),
		strata.WithMaxNesting(w.Config.MaxNesting),
		strata.WithLifecycleHooks(w.Hooks()),
	}
}

// Handler returns the introspection handler for the tracked stack.
func (w *Wiring) Handler(name string) http.Handler {
	return stratahttp.NewHandler(w.Tracker,
		stratahttp.WithStreams(w.Streams),
		stratahttp.WithGatherer(w.Prom),
		stratahttp.WithName(name),
		stratahttp.WithLogger(w.Logger),
	)
}

// Serve runs the introspection server on addr until ctx is done.
// It returns immediately when addr is empty.
func (w *Wiring) Serve(ctx context.Context, addr, name string) error {
	if addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           w.Handler(name),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		w.Logger.Info("introspection server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// Close releases the Redis client, if any.
func (w *Wiring) Close() error {
	if w.client != nil {
		return w.client.Close()
	}
	return nil
}
