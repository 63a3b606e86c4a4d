package states

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/registry"
)

// ModeConfig holds the params accepted by the "mode" factory.
type ModeConfig struct {
	Name string `mapstructure:"name"`
}

// ToggleConfig holds the params accepted by the "toggle" factory.
type ToggleConfig struct {
	Name     string   `mapstructure:"name"`
	Elements []string `mapstructure:"elements"`
}

// RegisterBuiltins registers the "mode" and "toggle" factories.
func RegisterBuiltins(reg *registry.Registry, logger *slog.Logger) {
	reg.Register("mode", func(params map[string]any) (domain.State, error) {
		var cfg ModeConfig
		if err := registry.Decode(params, &cfg); err != nil {
			return nil, err
		}
		if cfg.Name == "" {
			return nil, fmt.Errorf("mode requires a name")
		}
		return NewMode(cfg.Name, logger), nil
	})

	reg.Register("toggle", func(params map[string]any) (domain.State, error) {
		var cfg ToggleConfig
		if err := registry.Decode(params, &cfg); err != nil {
			return nil, err
		}
		if cfg.Name == "" {
			return nil, fmt.Errorf("toggle requires a name")
		}
		targets := make([]Activatable, 0, len(cfg.Elements))
		for _, el := range cfg.Elements {
			targets = append(targets, NewElement(el, logger))
		}
		return NewToggle(cfg.Name, targets...), nil
	})
}
