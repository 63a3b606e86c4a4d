package main

import (
	"fmt"

	"github.com/aretw0/strata/pkg/scenario"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario>...",
	Short: "Check scenario files without running them",
	Long:  `Parses each scenario and reports unknown factories, malformed steps and unknown error reasons.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := newWiring()
		defer w.Close()

		failed := 0
		for _, path := range args {
			sc, err := scenario.Load(path)
			if err == nil {
				err = scenario.Validate(sc, w.Registry)
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid\n%v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps)\n", path, len(sc.Steps))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
