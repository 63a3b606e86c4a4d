package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [name]",
	Short: "Show stored stack snapshots",
	Long: `Lists the snapshots saved by run and repl, or prints one of them as JSON.
Snapshots outlive the process only with --redis-addr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RedisAddr == "" {
			return errors.New("inspect needs --redis-addr (or STRATA_REDIS_ADDR)")
		}
		w := newWiring()
		defer w.Close()
		ctx := context.Background()

		if len(args) == 0 {
			names, err := w.Store.List(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		snap, err := w.Store.Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
