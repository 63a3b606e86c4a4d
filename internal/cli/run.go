package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/presentation/tui"
	"github.com/aretw0/strata/pkg/scenario"
)

// RunOptions controls how a replay is reported.
type RunOptions struct {
	Out io.Writer
	// JSON writes the report as JSON instead of markdown.
	JSON bool
	// Render pipes the markdown through glamour; Width sets its word wrap.
	Render bool
	Width  int
}

// RunScenario loads, replays and reports the scenario at path. The final
// snapshot is saved to the wiring's store under the scenario name.
// The replay error is returned after the report has been written.
func RunScenario(ctx context.Context, w *Wiring, path string, opts RunOptions) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	return PlayScenario(ctx, w, sc, opts)
}

// PlayScenario is RunScenario for an already loaded scenario.
func PlayScenario(ctx context.Context, w *Wiring, sc *scenario.Scenario, opts RunOptions) error {
	managerOpts := []strata.Option{strata.WithMaxNesting(w.Config.MaxNesting)}
	// A policy written in the scenario file wins over the process configuration.
	if sc.Policy == "" {
		managerOpts = append(managerOpts, strata.WithPopPolicy(w.Config.Policy()))
	}

	report, runErr := scenario.Play(sc, w.Registry,
		scenario.WithLogger(w.Logger),
		scenario.WithHooks(w.Hooks()),
		scenario.WithManagerOptions(managerOpts...),
		scenario.OnStart(func(m *strata.Manager) { w.Tracker.Bind(m) }),
	)
	if report == nil {
		return runErr
	}

	if err := w.Store.Save(ctx, sc.Name, report.Final); err != nil {
		w.Logger.Error("failed to save snapshot", "scenario", sc.Name, "err", err)
	}

	if err := writeReport(opts, report, runErr); err != nil {
		return err
	}
	return runErr
}

func writeReport(opts RunOptions, report *scenario.Report, runErr error) error {
	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		out := struct {
			*scenario.Report
			Error string `json:"error,omitempty"`
		}{Report: report}
		if runErr != nil {
			out.Error = runErr.Error()
		}
		return enc.Encode(out)
	}

	md := tui.ReportMarkdown(report, runErr)
	if opts.Render {
		render, err := tui.NewRenderer(opts.Width)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		if md, err = render(md); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}
	_, err := io.WriteString(opts.Out, md)
	return err
}
