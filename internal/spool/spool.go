// Package spool implements the on-disk backup spool: a
// <root>/<backupset>/<node>/ hierarchy with per-node `.holland/`
// metadata, timestamp-ordered iteration, and advisory locking.
package spool

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const metadataDir = ".holland"

// Error is a general spool failure.
type Error struct{ msg string }

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Spool manages the backup node hierarchy rooted at Path.
type Spool struct {
	Path   string
	Logger *slog.Logger

	locks *lockRegistry
}

func Load(path string) *Spool {
	return &Spool{Path: path, Logger: slog.Default(), locks: newLockRegistry()}
}

// Capacity reports the free bytes available on the spool's filesystem.
func (s *Spool) Capacity() (uint64, error) {
	return statfsAvail(s.Path)
}

func (s *Spool) namespacePath(namespace string) string {
	return filepath.Join(s.Path, namespace)
}

// AddNode creates a new, empty node under namespace. If name is "" a
// timestamp-derived name is generated (YYYYMMDD_HHMMSS).
func (s *Spool) AddNode(namespace, name string) (*Node, error) {
	nsPath := s.namespacePath(namespace)
	if err := os.MkdirAll(filepath.Join(nsPath, metadataDir), 0o755); err != nil {
		return nil, errorf("spool: creating namespace %q: %v", namespace, err)
	}
	if name == "" {
		name = time.Now().Format("20060102_150405")
	}
	nodePath := filepath.Join(nsPath, name)
	if err := os.MkdirAll(filepath.Join(nodePath, metadataDir), 0o755); err != nil {
		return nil, errorf("spool: creating node %q: %v", name, err)
	}
	stamp := time.Now().Format("20060102_150405.000000")
	if err := os.WriteFile(filepath.Join(nodePath, metadataDir, "timestamp"), []byte(stamp), 0o644); err != nil {
		return nil, errorf("spool: writing timestamp for %q: %v", name, err)
	}
	return &Node{Path: nodePath, Namespace: namespace, spool: s}, nil
}

// LoadNode opens an existing node; it errors if the directory doesn't
// exist.
func (s *Spool) LoadNode(namespace, name string) (*Node, error) {
	nodePath := filepath.Join(s.namespacePath(namespace), name)
	if _, err := os.Stat(nodePath); err != nil {
		return nil, errorf("spool: no such node %q/%q: %v", namespace, name, err)
	}
	return &Node{Path: nodePath, Namespace: namespace, spool: s}, nil
}

// IterNamespaces returns every backupset namespace under the spool root,
// sorted by name.
func (s *Spool) IterNamespaces() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errorf("spool: listing %q: %v", s.Path, err)
	}
	var out []string
	for _, e := range entries {
		if e.Name() == "lost+found" {
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			continue
		}
		if !e.IsDir() {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// IterNodes returns every node under namespace, ordered by the node's
// recorded timestamp (oldest first).
func (s *Spool) IterNodes(namespace string) ([]*Node, error) {
	nsPath := s.namespacePath(namespace)
	entries, err := os.ReadDir(nsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errorf("spool: listing %q: %v", nsPath, err)
	}
	var nodes []*Node
	for _, e := range entries {
		if e.Name() == metadataDir {
			continue
		}
		info, err := e.Info()
		if err == nil && info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if !e.IsDir() {
			continue
		}
		nodes = append(nodes, &Node{Path: filepath.Join(nsPath, e.Name()), Namespace: namespace, spool: s})
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Timestamp().Before(nodes[j].Timestamp())
	})
	return nodes, nil
}

// First returns the oldest node in namespace, or nil if there are none.
func (s *Spool) First(namespace string) (*Node, error) {
	nodes, err := s.IterNodes(namespace)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// Last returns the newest node in namespace, or nil if there are none.
func (s *Spool) Last(namespace string) (*Node, error) {
	nodes, err := s.IterNodes(namespace)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[len(nodes)-1], nil
}

// Next returns the node immediately after node in its namespace's
// timestamp order, or nil if node is the newest.
func (s *Spool) Next(node *Node) (*Node, error) {
	return s.adjacent(node, 1)
}

// Previous returns the node immediately before node in its namespace's
// timestamp order, or nil if node is the oldest.
func (s *Spool) Previous(node *Node) (*Node, error) {
	return s.adjacent(node, -1)
}

func (s *Spool) adjacent(node *Node, delta int) (*Node, error) {
	nodes, err := s.IterNodes(node.Namespace)
	if err != nil {
		return nil, err
	}
	for i, n := range nodes {
		if n.Path == node.Path {
			j := i + delta
			if j < 0 || j >= len(nodes) {
				return nil, nil
			}
			return nodes[j], nil
		}
	}
	return nil, nil
}

// ReplaceSymlink atomically repoints a symlink at target by creating a
// temporary link beside it and renaming that over linkPath.
func ReplaceSymlink(target, linkPath string) error {
	tmp := linkPath + ".tmp"
	os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	return os.Rename(tmp, linkPath)
}
