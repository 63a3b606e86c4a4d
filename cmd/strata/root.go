package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/strata/internal/cli"
	"github.com/aretw0/strata/internal/config"
	"github.com/aretw0/strata/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata replays and explores stack-based state machines",
	Long: `Strata drives a stack of states: pushing a state exits the one below it,
popping re-enters it. Scenarios script these transitions in YAML, TOML or JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.LogLevel, _ = flags.GetString("log-level")
		}
		if flags.Changed("max-nesting") {
			loaded.MaxNesting, _ = flags.GetInt("max-nesting")
		}
		if flags.Changed("pop-policy") {
			loaded.PopPolicy, _ = flags.GetString("pop-policy")
		}
		if flags.Changed("metrics-addr") {
			loaded.MetricsAddr, _ = flags.GetString("metrics-addr")
		}
		if flags.Changed("redis-addr") {
			loaded.RedisAddr, _ = flags.GetString("redis-addr")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(cfg.Level())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands); STRATA_* variables provide the defaults.
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("max-nesting", 64, "Maximum nesting of transitions started from hooks")
	rootCmd.PersistentFlags().String("pop-policy", "allow-empty", "Pop policy (allow-empty, keep-baseline)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve /stack, /events and /metrics on this address")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for snapshots and the event stream")
}

func newWiring() *cli.Wiring {
	return cli.NewWiring(cfg, logger)
}

// stdoutIsTerminal reports whether rich output should be rendered, and the width to wrap at.
func stdoutIsTerminal() (bool, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}
