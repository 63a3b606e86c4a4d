package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source provides the published view of a stack. *observability.Tracker satisfies it.
type Source interface {
	Snapshot() domain.Snapshot
	Stats() observability.Stats
}

// StackResponse is the body of GET /stack.
type StackResponse struct {
	Name     string              `json:"name,omitempty"`
	Snapshot domain.Snapshot     `json:"snapshot"`
	Depth    int                 `json:"depth"`
	Stats    observability.Stats `json:"stats"`
}

// Server serves the introspection endpoints.
type Server struct {
	Source   Source
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Name     string
	Logger   *slog.Logger
}

// HandlerOption configures NewHandler.
type HandlerOption func(*Server)

// WithStreams enables GET /events.
func WithStreams(streams *StreamManager) HandlerOption {
	return func(s *Server) {
		s.Streams = streams
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithName labels the stack in responses.
func WithName(name string) HandlerOption {
	return func(s *Server) {
		s.Name = name
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for a stack.
func NewHandler(src Source, opts ...HandlerOption) http.Handler {
	server := &Server{Source: src}
	for _, opt := range opts {
		opt(server)
	}
	if server.Logger == nil {
		server.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/stack", server.GetStack)
	if server.Streams != nil {
		r.Get("/events", server.SubscribeEvents)
	}
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "strata-http",
		"version": strings.TrimSpace(strata.Version),
	})
}

// GetStack handles the GET /stack request.
func (s *Server) GetStack(w http.ResponseWriter, r *http.Request) {
	snap := s.Source.Snapshot()
	s.writeJSON(w, StackResponse{
		Name:     s.Name,
		Snapshot: snap,
		Depth:    snap.Depth(),
		Stats:    s.Source.Stats(),
	})
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional "types" query parameter filters by event type, e.g. ?types=push,pop.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	var types []domain.EventType
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			types = append(types, domain.EventType(strings.TrimSpace(t)))
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(types...)
	defer cancel()

	s.Logger.Info("SSE: client subscribed", "types", types)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, encode(msg))
			flusher.Flush()
		}
	}
}
