//go:build unix

package fileutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeSpace reports the free bytes available to unprivileged users on the
// filesystem containing path.
func FreeSpace(path string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}

// EnsureFreeSpace returns an error when the filesystem containing path has
// fewer than minBytesFree bytes available.
func EnsureFreeSpace(path string, minBytesFree int64) error {
	if minBytesFree <= 0 {
		return nil
	}
	free, err := FreeSpace(path)
	if err != nil {
		return err
	}
	if free < minBytesFree {
		return fmt.Errorf("insufficient disk space at %s: %d bytes free, need %d", path, free, minBytesFree)
	}
	return nil
}
