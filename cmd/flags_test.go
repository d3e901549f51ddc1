package cmd

import (
	"testing"
	"time"

	"github.com/kpilake/kpilake/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(t *testing.T, args ...string) *cobra.Command {
	root := &cobra.Command{Use: "kpilake"}
	addGlobalFlags(root)
	serve := getServeCmd()
	root.AddCommand(serve)
	serve.RunE = func(*cobra.Command, []string) error { return nil }
	root.SetArgs(append([]string{"serve"}, args...))
	require.NoError(t, root.Execute())
	return serve
}

// TestFlagOptions_Defaults verifies untouched flags do not override
// the configuration.
func TestFlagOptions_Defaults(t *testing.T) {
	cmd := parsed(t)
	assert.Empty(t, flagOptions(cmd))
}

// TestFlagOptions verifies flags set on the command line.
func TestFlagOptions(t *testing.T) {
	cmd := parsed(t,
		"-j", "3",
		"--retry-delay", "5s",
		"--log-level", "debug",
		"--log-destination", "stderr",
		"--export-strategy", "drop",
		"--address", ":9000",
	)

	cfg := config.New()
	cfg.Update(flagOptions(cmd))
	assert.Equal(t, 3, cfg.JobsNumber)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Destination)
	assert.Equal(t, "drop", cfg.Export.Strategy)
	assert.Equal(t, ":9000", cfg.API.Address)
}

// TestFlagOptions_Invalid verifies invalid values keep defaults.
func TestFlagOptions_Invalid(t *testing.T) {
	cmd := parsed(t, "--export-strategy", "merge", "--jobs=-1")

	cfg := config.New()
	def := config.New()
	cfg.Update(flagOptions(cmd))
	assert.Equal(t, def.Export.Strategy, cfg.Export.Strategy)
	assert.Equal(t, def.JobsNumber, cfg.JobsNumber)
}
