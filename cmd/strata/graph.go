package main

import (
	"fmt"

	"github.com/aretw0/strata/internal/presentation/graph"
	"github.com/aretw0/strata/pkg/scenario"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <scenario>",
	Short: "Export the transitions of a scenario as a Mermaid diagram",
	Long: `Replays the scenario and outputs a Mermaid flowchart (graph TD) of its pushes and pops,
highlighting the final stack.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := newWiring()
		defer w.Close()

		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		report, err := scenario.Play(sc, w.Registry, scenario.WithLogger(logger))
		if report == nil {
			return err
		}
		if err != nil {
			logger.Warn("scenario failed; graph shows the partial trace", "err", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(report.Events, &graph.Overlay{
			Stack:   report.Final.States,
			Current: report.Final.Current,
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
