//go:build linux || darwin || freebsd

package view

import "golang.org/x/sys/unix"

// DiskFree returns the bytes available to unprivileged users on the
// filesystem holding path.
func DiskFree(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return int64(st.Bavail) * int64(st.Bsize), nil
}
