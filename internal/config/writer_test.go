package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeStringRendersOptionsAndSections(t *testing.T) {
	tree := New()
	tree.Set("umask", "18", Provenance{})
	holland := tree.Sub("holland")
	holland.Set("backup-directory", "/var/spool/holland", Provenance{})

	out := tree.String()
	assert.Contains(t, out, "umask = 18")
	assert.Contains(t, out, "[holland]")
	assert.Contains(t, out, "backup-directory = /var/spool/holland")
}

func TestTreeStringQuotesValuesNeedingIt(t *testing.T) {
	tree := New()
	tree.Set("empty", "", Provenance{})
	tree.Set("commented", "a # b", Provenance{})
	tree.Set("padded", "  spaced  ", Provenance{})

	out := tree.String()
	assert.Contains(t, out, `empty = ""`)
	assert.Contains(t, out, `commented = "a # b"`)
	assert.Contains(t, out, `padded = "  spaced  "`)
}

func TestTreeWriteTo(t *testing.T) {
	tree := New()
	tree.Set("key", "value", Provenance{})

	var b strings.Builder
	n, err := tree.WriteTo(&b)
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))
	assert.Contains(t, b.String(), "key = value")
}
