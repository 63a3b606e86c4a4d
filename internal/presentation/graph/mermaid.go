package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/scenario"
)

// Overlay contains dynamic stack data to visualize on the graph.
type Overlay struct {
	Stack   []string
	Current string
}

const (
	startID = "__start"
	emptyID = "__empty"
)

type edge struct {
	from, to string
	kind     domain.EventType
}

// GenerateMermaid produces a Mermaid flowchart from a replay trace.
// Each distinct state label is a node; pushes are solid arrows, pops dotted.
// Repeated transitions are merged and annotated with a count.
// It applies semantic styling:
// - Start (before the initial push): ((Circle))
// - Empty stack (after the last pop): [(Database)]
// - State: [Rectangle]
func GenerateMermaid(events []scenario.Event, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var (
		nodes  []string
		seen   = make(map[string]bool)
		edges  []edge
		counts = make(map[edge]int)
	)
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			nodes = append(nodes, id)
		}
	}

	for _, e := range events {
		if e.Type != domain.EventPush && e.Type != domain.EventPop {
			continue
		}
		from, to := e.From, e.To
		if from == "" {
			from = startID
		}
		if to == "" {
			to = emptyID
		}
		addNode(from)
		addNode(to)

		k := edge{from: from, to: to, kind: e.Type}
		if counts[k] == 0 {
			edges = append(edges, k)
		}
		counts[k]++
	}

	for _, id := range nodes {
		safeID := sanitizeMermaidID(id)
		switch id {
		case startID:
			sb.WriteString(fmt.Sprintf("    %s((\"start\"))\n", safeID))
		case emptyID:
			sb.WriteString(fmt.Sprintf("    %s[(\"empty\")]\n", safeID))
		default:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, strings.ReplaceAll(id, "\"", "'")))
		}
	}

	for _, k := range edges {
		label := string(k.kind)
		if n := counts[k]; n > 1 {
			label = fmt.Sprintf("%s x%d", label, n)
		}
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if k.kind == domain.EventPop {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(k.from), arrow, sanitizeMermaidID(k.to)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef stacked fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[string]bool)
		for _, id := range overlay.Stack {
			safeID := sanitizeMermaidID(id)
			if id == overlay.Current || styled[safeID] || !seen[id] {
				continue
			}
			styled[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s stacked;\n", safeID))
		}

		if overlay.Current != "" && seen[overlay.Current] {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "\"", "_")
	return r.Replace(id)
}
