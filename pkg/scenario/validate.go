package scenario

import (
	"errors"
	"fmt"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/pkg/registry"
)

var reasons = map[string]bool{
	"invalid_argument": true,
	"empty_stack":      true,
	"nesting_too_deep": true,
}

// Validate checks a scenario against a registry without running it.
// All problems are reported together.
func Validate(sc *Scenario, reg *registry.Registry) error {
	if sc == nil {
		return errors.New("scenario is nil")
	}

	var errs []error
	if _, err := strata.ParsePopPolicy(sc.Policy); err != nil {
		errs = append(errs, err)
	}

	if sc.Initial.State == "" {
		errs = append(errs, errors.New("initial: state is required"))
	} else if !reg.Has(sc.Initial.State) {
		errs = append(errs, fmt.Errorf("initial: %w: %s", registry.ErrUnknownState, sc.Initial.State))
	}

	for i, step := range sc.Steps {
		if n := step.actions(); n != 1 {
			errs = append(errs, fmt.Errorf("step %d: expected exactly one of push, pop or expect, got %d", i+1, n))
			continue
		}
		if step.Push != nil {
			if step.Push.State == "" {
				errs = append(errs, fmt.Errorf("step %d: push: state is required", i+1))
			} else if !reg.Has(step.Push.State) {
				errs = append(errs, fmt.Errorf("step %d: push: %w: %s", i+1, registry.ErrUnknownState, step.Push.State))
			}
		}
		if ex := step.Expect; ex != nil {
			if ex.Empty && ex.Current != "" {
				errs = append(errs, fmt.Errorf("step %d: expect: empty and current are exclusive", i+1))
			}
			if ex.Depth != nil && *ex.Depth < 0 {
				errs = append(errs, fmt.Errorf("step %d: expect: depth must not be negative", i+1))
			}
			if ex.Error != "" && !reasons[ex.Error] {
				errs = append(errs, fmt.Errorf("step %d: expect: unknown error %q", i+1, ex.Error))
			}
			if ex.Error != "" && (i == 0 || sc.Steps[i-1].Kind() == "expect") {
				errs = append(errs, fmt.Errorf("step %d: expect: error must follow a push or pop", i+1))
			}
		}
	}

	return errors.Join(errs...)
}
