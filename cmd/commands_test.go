package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioledger"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/errcode"
	"github.com/kpilake/kpilake/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlowCmds verifies flow commands and their descriptions.
func TestFlowCmds(t *testing.T) {
	tests := []struct {
		use  string
		long string
	}{
		{"silver", "quality"},
		{"gold", "kpi_croissance.parquet"},
		{"export", "staging"},
		{"run", "ledger"},
	}

	root := getRootCmd()
	for _, v := range tests {
		cmd, _, err := root.Find([]string{v.use})
		require.NoError(t, err)
		assert.Equal(t, v.use, cmd.Use)
		assert.NotEmpty(t, cmd.Short)
		assert.Contains(t, cmd.Long, v.long)
		assert.Contains(t, cmd.Long, "Examples:")
		assert.NotNil(t, cmd.RunE)
		assert.Error(t, cmd.Args(cmd, []string{"extra"}),
			"%s should take no arguments", v.use)
	}
}

// TestGetServeCmd_AddressFlag verifies --address flag exists.
func TestGetServeCmd_AddressFlag(t *testing.T) {
	cmd := getServeCmd()

	f := cmd.Flags().Lookup("address")
	require.NotNil(t, f, "--address flag should exist")
	assert.Equal(t, "a", f.Shorthand)
	assert.Equal(t, "", f.DefValue,
		"Default should come from configuration")
	assert.Contains(t, cmd.Long, "/api/ca_par_pays")
}

// TestGetInspectCmd_Args verifies arguments and flags of inspect.
func TestGetInspectCmd_Args(t *testing.T) {
	cmd := getInspectCmd()

	assert.Error(t, cmd.Args(cmd, nil), "bucket is required")
	assert.NoError(t, cmd.Args(cmd, []string{"gold"}))
	assert.NoError(t, cmd.Args(cmd, []string{"gold", "kpi_"}))
	assert.Error(t, cmd.Args(cmd, []string{"gold", "kpi_", "x"}))

	f := cmd.Flags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "csv", f.DefValue)
	require.NotNil(t, cmd.Flags().Lookup("list"))
}

// TestRunInspect_BadFormat verifies unsupported output formats are
// refused before connecting anywhere.
func TestRunInspect_BadFormat(t *testing.T) {
	cfg = config.New()
	cmd := getInspectCmd()

	err := runInspect(cmd, "gold", "", "parquet", false)
	require.Error(t, err)
}

// TestGetUploadCmd_Args verifies upload needs at least one file.
func TestGetUploadCmd_Args(t *testing.T) {
	cmd := getUploadCmd()

	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"a.csv", "b.csv"}))
	f := cmd.Flags().Lookup("bucket")
	require.NotNil(t, f)
	assert.Equal(t, "b", f.Shorthand)
}

// TestRunUpload_MissingFile verifies a missing local file is reported
// with its path.
func TestRunUpload_MissingFile(t *testing.T) {
	cfg = config.New()
	path := filepath.Join(t.TempDir(), "nope.csv")

	err := runUpload("", []string{path})
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
}

// TestGetHistoryCmd_Flags verifies flags of history.
func TestGetHistoryCmd_Flags(t *testing.T) {
	cmd := getHistoryCmd()

	f := cmd.Flags().Lookup("limit")
	require.NotNil(t, f)
	assert.Equal(t, "n", f.Shorthand)
	assert.Equal(t, "10", f.DefValue)
	require.NotNil(t, cmd.Flags().Lookup("run"))
}

// TestRunHistory verifies runs and tasks are printed from the ledger.
func TestRunHistory(t *testing.T) {
	cfg = config.New()
	cfg.Ledger = config.LedgerConfig{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "ledger", "runs.db"),
	}

	ctx := context.Background()
	rec, err := ioledger.New(ctx, cfg.Ledger)
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, rec.RecordRun(ctx, ledger.RunRecord{
		ID:         "run-1",
		Command:    "run",
		Status:     ledger.Failed,
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Error:      "boom",
	}))
	require.NoError(t, rec.RecordTask(ctx, ledger.TaskRecord{
		ID:       "task-1",
		RunID:    "run-1",
		Flow:     "silver",
		Task:     "read_clients",
		Status:   ledger.Failed,
		Attempts: 3,
		Duration: 1500 * time.Millisecond,
		Error:    "boom",
		At:       start.Add(time.Minute),
	}))
	require.NoError(t, rec.Close())

	t.Run("runs", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, runHistory(buf, 10, ""))
		out := buf.String()
		assert.Contains(t, out, "COMMAND")
		assert.Contains(t, out, "run-1")
		assert.Contains(t, out, "failed")
		assert.Contains(t, out, "boom")
	})

	t.Run("tasks", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, runHistory(buf, 10, "run-1"))
		out := buf.String()
		assert.Contains(t, out, "ATTEMPTS")
		assert.Contains(t, out, "read_clients")
		assert.Contains(t, out, "1.5s")
	})

	t.Run("unknown run", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, runHistory(buf, 10, "nope"))
		assert.NotContains(t, buf.String(), "read_clients")
	})
}
