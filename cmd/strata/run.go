package main

import (
	"context"
	"os"

	"github.com/aretw0/strata/internal/cli"
	"github.com/aretw0/strata/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Replay a scenario file and print its trace",
	Long: `Loads a scenario (.yaml, .toml or .json), replays it against a fresh stack and
prints every lifecycle event. Exits non-zero when an expectation fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		hold, _ := cmd.Flags().GetBool("hold")

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		w := newWiring()
		defer w.Close()

		render, width := stdoutIsTerminal()
		if render && !jsonMode && !quiet {
			tui.PrintBanner(os.Stdout)
		}

		runErr := cli.RunScenario(sc, w, args[0], cli.RunOptions{
			Out:    cmd.OutOrStdout(),
			JSON:   jsonMode,
			Render: render && !jsonMode,
			Width:  width,
		})

		if hold && cfg.MetricsAddr != "" {
			if err := w.Serve(sc, cfg.MetricsAddr, args[0]); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the report as JSON")
	runCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
	runCmd.Flags().Bool("hold", false, "Keep serving --metrics-addr after the replay until interrupted")
}
