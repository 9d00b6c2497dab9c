package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopImplementsBaseStrategy(t *testing.T) {
	var s Strategy = Noop{}
	assert.Equal(t, "noop", s.Name())
	assert.Empty(t, s.Configspec())
}

func TestNoopImplementsCapabilitySet(t *testing.T) {
	n := Noop{EstimatedBytes: 4096}

	var estimator Estimator = n
	size, err := estimator.EstimateSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4096), size)

	var backuper Backuper = n
	assert.NoError(t, backuper.Backup(context.Background()))

	var releaser Releaser = n
	assert.NoError(t, releaser.Release(context.Background()))
}

func TestNoopDoesNotImplementSetupperOrCleaner(t *testing.T) {
	var s Strategy = Noop{}
	_, isSetupper := s.(Setupper)
	assert.False(t, isSetupper)
	_, isCleaner := s.(Cleaner)
	assert.False(t, isCleaner)
}
