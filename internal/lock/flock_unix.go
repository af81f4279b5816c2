//go:build !windows

package lock

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/bashhack/ssamgit/internal/errors"
)

func supported() error { return nil }

func tryLock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// isContended reports whether err means another descriptor holds the lock.
// Some systems report EAGAIN instead of EWOULDBLOCK.
func isContended(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
}
