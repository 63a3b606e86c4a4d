package observability

import (
	"log/slog"

	"github.com/aretw0/strata/pkg/domain"
)

// LogHooks returns hooks that write one structured record per event.
// State hooks are logged at Debug, transitions at Info, rejections at Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.StateEvent) {
			logger.Debug("state_enter", "state", e.State, "depth", e.Depth)
		},
		OnExit: func(e *domain.StateEvent) {
			logger.Debug("state_exit", "state", e.State, "depth", e.Depth)
		},
		OnPush: func(e *domain.TransitionEvent) {
			logger.Info("push", "from", e.From, "to", e.To, "depth", e.Depth)
		},
		OnPop: func(e *domain.TransitionEvent) {
			logger.Info("pop", "from", e.From, "to", e.To, "depth", e.Depth)
		},
		OnReject: func(e *domain.RejectEvent) {
			logger.Warn("reject", "op", e.Op, "reason", e.Reason, "depth", e.Depth)
		},
	}
}
