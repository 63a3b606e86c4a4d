package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/strata/internal/presentation/graph"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/scenario"
	"github.com/stretchr/testify/assert"
)

func push(from, to string) scenario.Event {
	return scenario.Event{Type: domain.EventPush, From: from, To: to}
}

func pop(from, to string) scenario.Event {
	return scenario.Event{Type: domain.EventPop, From: from, To: to}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		events   []scenario.Event
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name:   "Start And Empty Shapes",
			events: []scenario.Event{push("", "gameplay"), pop("gameplay", "")},
			contains: []string{
				"__start((\"start\"))",
				"__empty[(\"empty\")]",
				"gameplay[\"gameplay\"]",
				"__start -- \"push\" --> gameplay",
				"gameplay -. \"pop\" .-> __empty",
			},
		},
		{
			name: "Repeated Edges Are Counted",
			events: []scenario.Event{
				push("", "m"),
				push("m", "menu"), pop("menu", "m"),
				push("m", "menu"), pop("menu", "m"),
			},
			contains: []string{"m -- \"push x2\" --> menu", "menu -. \"pop x2\" .-> m"},
		},
		{
			name:     "Hook Events Are Ignored",
			events:   []scenario.Event{{Type: domain.EventStateEnter, State: "ghost"}, push("", "a")},
			excludes: []string{"ghost"},
		},
		{
			name:     "Sanitized IDs",
			events:   []scenario.Event{push("", "pause-menu.v2")},
			contains: []string{"pause_menu_v2[\"pause-menu.v2\"]"},
		},
		{
			name:    "Overlay",
			events:  []scenario.Event{push("", "m"), push("m", "pause")},
			overlay: &graph.Overlay{Stack: []string{"m", "pause"}, Current: "pause"},
			contains: []string{
				"classDef current",
				"class m stacked;",
				"class pause current;",
			},
			excludes: []string{"class pause stacked;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.events, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}
