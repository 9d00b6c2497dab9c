package spool

import (
	"os"
	"path/filepath"
	"time"
)

// Node is a single backup's on-disk directory within a namespace.
type Node struct {
	Path      string
	Namespace string
	spool     *Spool
}

// Timestamp reads the node's recorded creation time, falling back to
// the Unix epoch if the metadata is missing or unparsable.
func (n *Node) Timestamp() time.Time {
	data, err := os.ReadFile(filepath.Join(n.Path, metadataDir, "timestamp"))
	if err != nil {
		return time.Unix(0, 0)
	}
	t, err := time.ParseInLocation("20060102_150405.000000", string(data), time.Local)
	if err != nil {
		return time.Unix(0, 0)
	}
	return t
}

// Size reports the total size in bytes of the node's directory tree.
// A missing directory is treated as size 0.
func (n *Node) Size() (int64, error) {
	var total int64
	err := filepath.Walk(n.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errorf("spool: computing size of %q: %v", n.Path, err)
	}
	return total, nil
}

// Purge removes the node's directory tree entirely.
func (n *Node) Purge() error {
	if err := os.RemoveAll(n.Path); err != nil {
		return errorf("spool: purging %q: %v", n.Path, err)
	}
	return nil
}

// Open opens a file relative to the node's directory.
func (n *Node) Open(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(filepath.Join(n.Path, name), flag, perm)
}

func (n *Node) Name() string {
	return filepath.Base(n.Path)
}
