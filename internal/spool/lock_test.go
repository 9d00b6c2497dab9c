package spool

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAcquireAndRelease(t *testing.T) {
	sp := Load(t.TempDir())
	handle, err := sp.Lock("alpha")
	require.NoError(t, err)
	require.NoError(t, handle.Release())
}

func TestLockReentrantWithinSameProcess(t *testing.T) {
	sp := Load(t.TempDir())
	first, err := sp.Lock("alpha")
	require.NoError(t, err)
	second, err := sp.Lock("alpha")
	require.NoError(t, err)

	require.NoError(t, first.Release())
	require.NoError(t, second.Release())
}

func TestLockConflictFromAnotherProcess(t *testing.T) {
	root := t.TempDir()
	sp := Load(root)
	handle, err := sp.Lock("alpha")
	require.NoError(t, err)
	defer handle.Release()

	holderPID := os.Getpid()

	second := Load(root)
	_, err = second.Lock("alpha")
	require.Error(t, err)
	var lockErr *LockError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, "alpha", lockErr.Namespace)
	assert.Equal(t, holderPID, lockErr.Pid)
}
