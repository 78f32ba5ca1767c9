//go:build !linux && !darwin && !freebsd

package view

import "errors"

// DiskFree is not available on this platform; the status bar shows ERR.
func DiskFree(string) (int64, error) {
	return 0, errors.New("free space lookup not supported")
}
