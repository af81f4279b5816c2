//go:build windows

package lock

import (
	"os"

	"github.com/bashhack/ssamgit/internal/errors"
)

func supported() error {
	return errors.Wrap(errors.ErrLockAcquisitionFailure,
		"ssamgit currently only supports Unix-like operating systems (Linux, macOS, BSD)")
}

func tryLock(*os.File) error { return supported() }

func unlock(*os.File) error { return nil }

func isContended(error) bool { return false }
