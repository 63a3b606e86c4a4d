package observability

import "github.com/aretw0/strata/pkg/domain"

// Combine merges several hook sets into one.
// Each event is delivered to every set, in the order given; nil callbacks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.StateEvent) {
			for _, s := range sets {
				if s.OnEnter != nil {
					s.OnEnter(e)
				}
			}
		},
		OnExit: func(e *domain.StateEvent) {
			for _, s := range sets {
				if s.OnExit != nil {
					s.OnExit(e)
				}
			}
		},
		OnPush: func(e *domain.TransitionEvent) {
			for _, s := range sets {
				if s.OnPush != nil {
					s.OnPush(e)
				}
			}
		},
		OnPop: func(e *domain.TransitionEvent) {
			for _, s := range sets {
				if s.OnPop != nil {
					s.OnPop(e)
				}
			}
		},
		OnReject: func(e *domain.RejectEvent) {
			for _, s := range sets {
				if s.OnReject != nil {
					s.OnReject(e)
				}
			}
		},
	}
}
