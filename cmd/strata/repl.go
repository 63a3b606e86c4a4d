package main

import (
	"context"
	"os"

	"github.com/aretw0/strata/internal/cli"
	"github.com/aretw0/strata/pkg/scenario"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Drive a stack interactively",
	Long: `Starts a stack with a "mode" state and reads push/pop commands from stdin.
With --metrics-addr the stack can be watched over HTTP while you type.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		initial, _ := cmd.Flags().GetString("initial")

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		w := newWiring()
		defer w.Close()

		serveErr := make(chan error, 1)
		go func() { serveErr <- w.Serve(sc, cfg.MetricsAddr, name) }()

		err := cli.RunREPL(sc, w, cli.REPLOptions{
			In:      os.Stdin,
			Out:     cmd.OutOrStdout(),
			Name:    name,
			Initial: scenario.StateRef{State: "mode", Params: map[string]any{"name": initial}},
			Prompt:  term.IsTerminal(int(os.Stdin.Fd())),
		})

		sc.Cancel()
		if serr := <-serveErr; err == nil {
			err = serr
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().String("name", "repl", "Stack name used in logs, metrics and the snapshot store")
	replCmd.Flags().String("initial", "root", "Name of the initial mode state")
}
