package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupCommandRunsNoopStrategy(t *testing.T) {
	c, _ := testCLI(t)
	path := writeBackupsetFile(t, "alpha")

	cmd := c.backupCommand()
	cmd.SetArgs([]string{path})
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Execute())

	namespaces, err := c.Spool.IterNamespaces()
	require.NoError(t, err)
	assert.Contains(t, namespaces, "alpha")
}

func TestBackupCommandNoBackupsetsErrors(t *testing.T) {
	c, _ := testCLI(t)
	c.Config.Backupsets = nil

	cmd := c.backupCommand()
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	assert.Error(t, err)
}

func TestBackupCommandMissingBackupDirectoryErrors(t *testing.T) {
	c, _ := testCLI(t)
	c.Config.BackupDirectory = ""
	c.Spool = nil
	path := writeBackupsetFile(t, "alpha")

	cmd := c.backupCommand()
	cmd.SetArgs([]string{path})
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	assert.Error(t, err)
}
