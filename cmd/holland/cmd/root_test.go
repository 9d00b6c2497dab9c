package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteReturnsNonZeroOnUnreadableConfig(t *testing.T) {
	c := NewCLI()

	origArgs := os.Args
	os.Args = []string{"holland", "--config", "/nonexistent/holland.conf", "list-commands"}
	defer func() { os.Args = origArgs }()

	assert.Equal(t, 1, c.Execute())
}

func TestBootstrapWiresSpoolFromConfig(t *testing.T) {
	c := NewCLI()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "holland.conf")
	require.NoError(t, os.WriteFile(configPath, []byte("[holland]\nbackup-directory = "+dir+"\n"), 0600))

	root := c.GetRootCommand()
	root.SetArgs([]string{"--config", configPath, "list-commands"})
	root.SetContext(context.Background())
	require.NoError(t, root.Execute())

	assert.Equal(t, dir, c.Config.BackupDirectory)
	require.NotNil(t, c.Spool)
	assert.Equal(t, dir, c.Spool.Path)
}

func TestEnvOrFallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("HOLLAND_TEST_ENV_VAR_NOT_SET")
	assert.Equal(t, "fallback", envOr("HOLLAND_TEST_ENV_VAR_NOT_SET", "fallback"))

	os.Setenv("HOLLAND_TEST_ENV_VAR_NOT_SET", "value")
	defer os.Unsetenv("HOLLAND_TEST_ENV_VAR_NOT_SET")
	assert.Equal(t, "value", envOr("HOLLAND_TEST_ENV_VAR_NOT_SET", "fallback"))
}
