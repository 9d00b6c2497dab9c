package archive

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holland-backup/holland/internal/stream"
)

func TestNamesIncludesBuiltinArchivers(t *testing.T) {
	assert.Contains(t, Names(), "tar")
	assert.Contains(t, Names(), "dircopy")
}

func TestLoadUnknownArchiverErrors(t *testing.T) {
	_, err := Load("does-not-exist")
	assert.Error(t, err)
}

func TestTarArchiverProducesArchive(t *testing.T) {
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar not available on PATH")
	}

	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "file.txt"), []byte("contents"), 0600))

	dstDir := t.TempDir()
	archiver := NewTarArchiver(TarConfig{}, nil)
	err := archiver.Archive(
		[]PathSpec{{RelPath: "file.txt", BaseDir: srcDir}},
		dstDir,
		stream.CompressionConfig{Method: "none"},
	)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dstDir, "backup.tar"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dstDir, "archive.log"))
	assert.NoError(t, err)
}

func TestTarArchiverNoPathsErrors(t *testing.T) {
	archiver := NewTarArchiver(TarConfig{}, nil)
	err := archiver.Archive(nil, t.TempDir(), stream.CompressionConfig{Method: "none"})
	assert.Error(t, err)
}

func TestRsyncArchiverMirrorsPath(t *testing.T) {
	if _, err := exec.LookPath("rsync"); err != nil {
		t.Skip("rsync not available on PATH")
	}

	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hello"), 0600))

	dstDir := t.TempDir()
	archiver := NewRsyncArchiver(RsyncConfig{}, nil)
	err := archiver.Archive(
		[]PathSpec{{RelPath: "a.txt", BaseDir: srcDir}},
		dstDir,
		stream.CompressionConfig{Method: "none"},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDirCopyArchiverMirrorsTree(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(srcDir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "a.txt"), []byte("hello"), 0600))

	dstDir := t.TempDir()
	archiver := NewDirCopyArchiver(nil)
	err := archiver.Archive(
		[]PathSpec{{RelPath: "sub", BaseDir: srcDir}},
		dstDir,
		stream.CompressionConfig{Method: "none"},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dstDir, "sub", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
