package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	})

	parent := &cobra.Command{Use: "ranak"}
	child := &cobra.Command{Use: "ask"}
	parent.AddCommand(child)

	path := filepath.Join(t.TempDir(), "ranak.log")
	t.Setenv("RANAK_LOG_FILE", path)
	t.Setenv("RANAK_LOG_LEVEL", "debug")

	// subcommands log to stderr and leave the log file alone
	require.NoError(t, setupLogging(child))
	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	// the interactive root command logs to RANAK_LOG_FILE
	require.NoError(t, setupLogging(parent))
	slog.Info("view started")
	require.NotNil(t, logFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "view started")
}

func TestSetupLogging_InvalidLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("RANAK_LOG_LEVEL", "loud")

	err := setupLogging(&cobra.Command{Use: "ask"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}
