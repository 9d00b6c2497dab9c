package archive

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/holland-backup/holland/internal/stream"
)

// DirCopyArchiver mirrors a directory tree into dstdir, compressing each
// regular file individually through the configured stream plugin.
type DirCopyArchiver struct {
	Logger *slog.Logger
}

func NewDirCopyArchiver(logger *slog.Logger) *DirCopyArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirCopyArchiver{Logger: logger}
}

func (d *DirCopyArchiver) Terminate(signal int) {}

func (d *DirCopyArchiver) Archive(paths []PathSpec, dstdir string, compression stream.CompressionConfig) error {
	plugin, err := stream.Load(compression.Method)
	if err != nil {
		return errorf("dircopy: %v", err)
	}
	d.Logger.Info("dircopy: using compression method", "method", compression.Method)

	for _, p := range paths {
		srcpath := p.RelPath
		if !filepath.IsAbs(srcpath) {
			srcpath = filepath.Join(p.BaseDir, p.RelPath)
		}
		dstpath := filepath.Join(dstdir, p.RelPath)

		info, err := os.Stat(srcpath)
		if err != nil {
			return errorf("dircopy: %v", err)
		}
		if !info.IsDir() {
			if err := os.MkdirAll(filepath.Dir(dstpath), 0o755); err != nil {
				return errorf("dircopy: %v", err)
			}
			if err := copyThrough(plugin, srcpath, dstpath); err != nil {
				return err
			}
			continue
		}

		err = filepath.Walk(srcpath, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(srcpath, path)
			if err != nil {
				return err
			}
			target := filepath.Join(dstpath, rel)
			if fi.IsDir() {
				d.Logger.Info("dircopy: creating directory", "path", rel)
				return os.MkdirAll(target, 0o755)
			}
			if !fi.Mode().IsRegular() {
				d.Logger.Info("dircopy: skipping, not a regular file", "path", rel)
				return nil
			}
			d.Logger.Info("dircopy: copying", "path", rel)
			return copyThrough(plugin, path, target)
		})
		if err != nil {
			return errorf("dircopy: %v", err)
		}
	}
	return nil
}

func copyThrough(plugin stream.Plugin, srcpath, dstpath string) error {
	src, err := os.Open(srcpath)
	if err != nil {
		return errorf("dircopy: %v", err)
	}
	defer src.Close()

	dst, err := plugin.Open(dstpath, "wb")
	if err != nil {
		return errorf("dircopy: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errorf("dircopy: copying %s: %v", srcpath, err)
	}
	return nil
}

func init() {
	Register("dircopy", nil, func(string) Archiver { return NewDirCopyArchiver(nil) })
}
