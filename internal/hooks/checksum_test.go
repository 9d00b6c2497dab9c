package hooks

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/spool"
)

func TestChecksumWritesDigestManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".holland"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.sql"), []byte("select 1;"), 0600))

	h := NewChecksumHook("sha256")
	h.Bind(Context{
		Node:   &spool.Node{Path: dir},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, h.Handle(EventAfterBackup))

	data, err := os.ReadFile(filepath.Join(dir, ".holland", "checksums"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# sha256sum")
	require.Contains(t, string(data), "data.sql")
}

func TestChecksumSkipsOnDryRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".holland"), 0700))

	h := NewChecksumHook("sha256")
	h.Bind(Context{
		Node:   &spool.Node{Path: dir},
		DryRun: true,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, h.Handle(EventAfterBackup))

	_, err := os.Stat(filepath.Join(dir, ".holland", "checksums"))
	require.True(t, os.IsNotExist(err))
}

func TestChecksumBindReadsAlgorithmFromBackupsetConfig(t *testing.T) {
	cfg, err := config.ParseString("[holland:backup]\nchecksum-algorithm = md5\n")
	require.NoError(t, err)

	h := NewChecksumHook("")
	h.Bind(Context{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	assert.Equal(t, "md5", h.Algorithm)
}

func TestChecksumNoneAlgorithmSkipsWriting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".holland"), 0700))

	cfg, err := config.ParseString("[holland:backup]\nchecksum-algorithm = none\n")
	require.NoError(t, err)

	h := NewChecksumHook("")
	h.Bind(Context{
		Config: cfg,
		Node:   &spool.Node{Path: dir},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, h.Handle(EventAfterBackup))

	_, err = os.Stat(filepath.Join(dir, ".holland", "checksums"))
	assert.True(t, os.IsNotExist(err))
}
