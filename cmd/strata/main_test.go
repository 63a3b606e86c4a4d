package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores defaults, since cobra keeps flag state between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "strata version")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate",
		"../../pkg/scenario/testdata/pause.yaml",
		"../../pkg/scenario/testdata/broken.yaml")

	assert.EqualError(t, err, "1 of 2 scenarios invalid")
	assert.Contains(t, out, "pause.yaml: ok (8 steps)")
	assert.Contains(t, out, "broken.yaml: invalid")
}

func TestRunCommand_JSON(t *testing.T) {
	out, err := execute(t, "run", "--json", "--pop-policy", "keep-baseline", "../../pkg/scenario/testdata/baseline.toml")
	require.NoError(t, err)
	assert.Contains(t, out, `"scenario": "baseline"`)
	assert.Equal(t, "keep-baseline", cfg.PopPolicy)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "../../pkg/scenario/testdata/nested.json")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class M current;")
}

func TestInvalidPolicyFlag(t *testing.T) {
	_, err := execute(t, "version", "--pop-policy", "sideways")
	assert.ErrorContains(t, err, "unknown pop policy")
}

func TestInspectNeedsRedis(t *testing.T) {
	t.Setenv("STRATA_REDIS_ADDR", "")
	_, err := execute(t, "inspect")
	assert.ErrorContains(t, err, "needs --redis-addr")
}
