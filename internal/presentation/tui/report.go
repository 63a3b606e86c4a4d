package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/scenario"
)

// ReportMarkdown formats a replay report as markdown.
// The trace is a table; hook events are indented under their step.
func ReportMarkdown(r *scenario.Report, runErr error) string {
	var sb strings.Builder

	name := r.Scenario
	if name == "" {
		name = "scenario"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)

	if runErr != nil {
		fmt.Fprintf(&sb, "> **FAILED:** %s\n\n", escape(runErr.Error()))
	} else {
		sb.WriteString("> **OK**\n\n")
	}

	sb.WriteString("| # | step | event | detail | depth |\n")
	sb.WriteString("|---|------|-------|--------|-------|\n")
	for _, e := range r.Events {
		fmt.Fprintf(&sb, "| %d | %d | %s | %s | %d |\n", e.Seq, e.Step, e.Type, escape(detail(e)), e.Depth)
	}

	sb.WriteString("\n## Final stack\n\n")
	if r.Final.Depth() == 0 {
		sb.WriteString("_empty_\n")
	} else {
		for i := len(r.Final.States) - 1; i >= 0; i-- {
			marker := ""
			if i == len(r.Final.States)-1 {
				marker = " (current)"
			}
			fmt.Fprintf(&sb, "%d. `%s`%s\n", len(r.Final.States)-i, r.Final.States[i], marker)
		}
	}

	fmt.Fprintf(&sb, "\n%d steps, %d events, %d rejected\n", r.Steps, len(r.Events), r.Rejections())
	return sb.String()
}

func detail(e scenario.Event) string {
	switch e.Type {
	case domain.EventStateEnter, domain.EventStateExit:
		return e.State
	case domain.EventPush, domain.EventPop:
		return fmt.Sprintf("%s → %s", orDash(e.From), orDash(e.To))
	case domain.EventReject:
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	default:
		return ""
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
