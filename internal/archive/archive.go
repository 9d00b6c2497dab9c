// Package archive implements the Archiver plugins that turn a set of
// source paths into an on-disk artifact under a backup node's directory.
package archive

import (
	"fmt"

	"github.com/holland-backup/holland/internal/plugin"
	"github.com/holland-backup/holland/internal/stream"
)

const Namespace = "holland.archive"

// PathSpec is one path to archive: RelPath is what ends up in the
// archive, BaseDir is the directory it's resolved relative to when
// RelPath is not absolute.
type PathSpec struct {
	RelPath string
	BaseDir string
}

// Error wraps any failure produced while archiving.
type Error struct{ msg string }

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Archiver produces an archive of Paths under a destination directory.
// Terminate asks an in-flight Archive to stop, forwarding signal to any
// child process it spawned; it is a no-op if nothing is running.
type Archiver interface {
	Archive(paths []PathSpec, dstdir string, compression stream.CompressionConfig) error
	Terminate(signal int)
}

var registry = plugin.NewRegistry()

func Register(name string, aliases []string, ctor func(name string) Archiver) {
	registry.Register(Namespace, name, aliases, func(n string) interface{} { return ctor(n) })
}

func Load(name string) (Archiver, error) {
	v, err := registry.Load(Namespace, name)
	if err != nil {
		return nil, err
	}
	return v.(Archiver), nil
}

func Names() []string { return registry.Names(Namespace) }
