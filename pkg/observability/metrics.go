package observability

import (
	"github.com/aretw0/strata/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by a stack's lifecycle hooks.
type Metrics struct {
	Transitions *prometheus.CounterVec
	HookCalls   *prometheus.CounterVec
	Rejections  *prometheus.CounterVec
	Depth       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strata_transitions_total",
				Help: "Total number of completed stack transitions",
			},
			[]string{"op"},
		),
		HookCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strata_hook_calls_total",
				Help: "Total number of enter/exit hook calls per state",
			},
			[]string{"hook", "state"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strata_rejections_total",
				Help: "Total number of rejected stack operations",
			},
			[]string{"reason"},
		),
		Depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "strata_stack_depth",
			Help: "Number of states currently on the stack",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.HookCalls, m.Rejections, m.Depth)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.StateEvent) {
			m.HookCalls.WithLabelValues("enter", e.State).Inc()
		},
		OnExit: func(e *domain.StateEvent) {
			m.HookCalls.WithLabelValues("exit", e.State).Inc()
		},
		OnPush: func(e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(domain.OpPush).Inc()
			m.Depth.Set(float64(e.Depth))
		},
		OnPop: func(e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(domain.OpPop).Inc()
			m.Depth.Set(float64(e.Depth))
		},
		OnReject: func(e *domain.RejectEvent) {
			m.Rejections.WithLabelValues(e.Reason).Inc()
		},
	}
}
