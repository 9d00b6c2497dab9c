package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/catalog"
	"github.com/holland-backup/holland/internal/hollandconfig"
	"github.com/holland-backup/holland/internal/plugin"
	"github.com/holland-backup/holland/internal/spool"
	"github.com/holland-backup/holland/internal/strategy"
)

// testCLI returns a CLI wired directly (bypassing bootstrap/config-file
// loading) against a temp spool and an in-memory catalog, with a noop
// strategy registered so Backup/Release have something to dispatch to.
func testCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()

	cfg, _, err := hollandconfig.LoadString("")
	require.NoError(t, err)

	registry := plugin.NewRegistry()
	registry.Register(strategy.Namespace, "noop", nil, func(string) interface{} {
		return strategy.Noop{EstimatedBytes: 1024}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cat, err := catalog.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	cfg.BackupDirectory = t.TempDir()
	cfg.CatalogDB = ""

	c := &CLI{
		Config:     cfg,
		Logger:     logger,
		Strategies: registry,
		Spool:      spool.Load(cfg.BackupDirectory),
		Catalog:    cat,
	}
	c.Spool.Logger = logger

	var out bytes.Buffer
	return c, &out
}

func writeBackupsetFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".conf")
	require.NoError(t, os.WriteFile(path, []byte("[holland:backup]\nbackup-plugin = noop\n"), 0600))
	return path
}
