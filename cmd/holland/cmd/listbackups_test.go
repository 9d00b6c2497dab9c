package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBackupsCommandPrintsSpooledNodes(t *testing.T) {
	c, _ := testCLI(t)
	path := writeBackupsetFile(t, "alpha")

	backupCmd := c.backupCommand()
	backupCmd.SetArgs([]string{path})
	backupCmd.SetContext(context.Background())
	require.NoError(t, backupCmd.Execute())

	listCmd := c.listBackupsCommand()
	var out bytes.Buffer
	listCmd.SetOut(&out)
	listCmd.SetContext(context.Background())
	require.NoError(t, listCmd.Execute())

	assert.Contains(t, out.String(), "alpha")
}

func TestFormatBytesUsesBinaryPrefixes(t *testing.T) {
	assert.Equal(t, "512B", formatBytes(512))
	assert.Equal(t, "1.0KiB", formatBytes(1024))
	assert.Equal(t, "1.5MiB", formatBytes(1024*1024+512*1024))
}
