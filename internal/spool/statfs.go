package spool

import "syscall"

// statfsAvail reports bytes available to an unprivileged user on the
// filesystem containing path (f_bavail * f_bsize).
func statfsAvail(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, errorf("spool: statfs %q: %v", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
