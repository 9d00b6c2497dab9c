package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSetGetPreservesOrder(t *testing.T) {
	tree := New()
	tree.Set("b", "2", Provenance{})
	tree.Set("a", "1", Provenance{})
	tree.Set("b", "3", Provenance{})

	assert.Equal(t, []string{"b", "a"}, tree.Keys())
	assert.Equal(t, "3", tree.GetString("b"))
}

func TestTreeSubCreatesAndReuses(t *testing.T) {
	tree := New()
	sub := tree.Sub("holland")
	sub.Set("backup-directory", "/var/spool/holland", Provenance{})

	again := tree.Sub("holland")
	assert.Equal(t, "/var/spool/holland", again.GetString("backup-directory"))
}

func TestTreeSubPanicsOnOptionKey(t *testing.T) {
	tree := New()
	tree.Set("holland", "oops", Provenance{})
	assert.Panics(t, func() { tree.Sub("holland") })
}

func TestTreeRenamePreservesValueAndOrder(t *testing.T) {
	tree := New()
	tree.Set("first", "1", Provenance{})
	tree.Set("old", "value", Provenance{Path: "x.conf", StartLine: 2})
	tree.Set("last", "3", Provenance{})

	tree.Rename("old", "new")

	assert.False(t, tree.Has("old"))
	assert.Equal(t, "value", tree.GetString("new"))
	assert.Equal(t, []string{"first", "new", "last"}, tree.Keys())
	prov, ok := tree.SourceOf("new")
	require.True(t, ok)
	assert.Equal(t, "x.conf", prov.Path)
}

func TestTreeDelete(t *testing.T) {
	tree := New()
	tree.Set("a", "1", Provenance{})
	tree.Set("b", "2", Provenance{})
	tree.Delete("a")

	assert.False(t, tree.Has("a"))
	assert.Equal(t, []string{"b"}, tree.Keys())
}

func TestOptionNameCanonicalizesUnderscores(t *testing.T) {
	assert.Equal(t, "backup-plugin", OptionName("backup_plugin"))
	assert.Equal(t, "backup-plugin", OptionName("backup-plugin"))
}

func TestMergeOverwritesExisting(t *testing.T) {
	dst := New()
	dst.Set("key", "old", Provenance{})

	src := New()
	src.Set("key", "new", Provenance{})
	src.Sub("nested").Set("inner", "value", Provenance{})

	require.NoError(t, dst.Merge(src))
	assert.Equal(t, "new", dst.GetString("key"))
	assert.Equal(t, "value", dst.Sub("nested").GetString("inner"))
}

func TestMergeConflictBetweenOptionAndSection(t *testing.T) {
	dst := New()
	dst.Set("key", "old", Provenance{})

	src := New()
	src.Sub("key").Set("inner", "value", Provenance{})

	err := dst.Merge(src)
	assert.Error(t, err)
}

func TestMeldPreservesExisting(t *testing.T) {
	dst := New()
	dst.Set("key", "kept", Provenance{})

	src := New()
	src.Set("key", "ignored", Provenance{})
	src.Set("other", "added", Provenance{})

	require.NoError(t, dst.Meld(src))
	assert.Equal(t, "kept", dst.GetString("key"))
	assert.Equal(t, "added", dst.GetString("other"))
}
