package spool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
)

// LockError is raised when a namespace is already locked by another
// process. Pid is the holder's process id, read from the lock file.
type LockError struct {
	Namespace string
	Pid       int
}

func (e *LockError) Error() string {
	return fmt.Sprintf("spool: %q already locked by process %d", e.Namespace, e.Pid)
}

// lockRegistry tracks namespaces a Spool currently holds locked, so a
// second Lock call for the same namespace through the same Spool is a
// cheap, reentrant no-op rather than a self-deadlock. Each Spool has its
// own registry: a second Spool on the same root, even in the same
// process, gets a *LockError.
type lockRegistry struct {
	mu    sync.Mutex
	held  map[string]*os.File
	count map[string]int
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{held: make(map[string]*os.File), count: make(map[string]int)}
}

// Handle represents one acquisition of a namespace lock. Release must be
// called exactly once per successful Lock call.
type Handle struct {
	spool     *Spool
	namespace string
}

// Lock acquires an exclusive, non-blocking advisory lock on namespace.
// Unlike a typical flock wrapper, this never blocks: if another process
// already holds the lock it returns *LockError immediately, naming the
// holder's pid, rather than backoff-polling for the lock to free up.
func (s *Spool) Lock(namespace string) (*Handle, error) {
	s.locks.mu.Lock()
	if _, ok := s.locks.held[namespace]; ok {
		s.locks.count[namespace]++
		s.locks.mu.Unlock()
		return &Handle{spool: s, namespace: namespace}, nil
	}
	s.locks.mu.Unlock()

	nsPath := s.namespacePath(namespace)
	if err := os.MkdirAll(filepath.Join(nsPath, metadataDir), 0o755); err != nil {
		return nil, errorf("spool: creating namespace %q: %v", namespace, err)
	}
	lockPath := filepath.Join(nsPath, metadataDir, "lock")

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errorf("spool: opening lock file %q: %v", lockPath, err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if errors.Is(err, syscall.EWOULDBLOCK) {
			pid := readHolderPid(f)
			f.Close()
			return nil, &LockError{Namespace: namespace, Pid: pid}
		}
		f.Close()
		return nil, errorf("spool: flock %q: %v", lockPath, err)
	}

	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d", os.Getpid())
	f.Sync()

	s.locks.mu.Lock()
	s.locks.held[namespace] = f
	s.locks.count[namespace] = 1
	s.locks.mu.Unlock()

	return &Handle{spool: s, namespace: namespace}, nil
}

// Release drops one reference to the namespace lock, unlocking and
// closing the underlying file once every acquisition has been released.
func (h *Handle) Release() error {
	s := h.spool
	s.locks.mu.Lock()
	defer s.locks.mu.Unlock()

	s.locks.count[h.namespace]--
	if s.locks.count[h.namespace] > 0 {
		return nil
	}
	f := s.locks.held[h.namespace]
	delete(s.locks.held, h.namespace)
	delete(s.locks.count, h.namespace)
	if f == nil {
		return nil
	}
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	return f.Close()
}

func readHolderPid(f *os.File) int {
	f.Seek(0, 0)
	buf := make([]byte, 32)
	n, _ := f.Read(buf)
	pid, _ := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	return pid
}
