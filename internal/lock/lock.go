package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bashhack/ssamgit/internal/errors"
)

// Locker keeps a second ssamgit server from starting for the same project
// directory. It guards the process, not individual snapshot requests.
type Locker struct {
	path string
	pid  int
	file *os.File
}

// Option configures a Locker
type Option func(*Locker)

// WithDir places the lock file in dir instead of the system temp directory
func WithDir(dir string) Option {
	return func(l *Locker) {
		l.path = filepath.Join(dir, filepath.Base(l.path))
	}
}

// New creates a Locker for the project at repoPath
func New(repoPath string, opts ...Option) (*Locker, error) {
	if err := supported(); err != nil {
		return nil, errors.NewLockError("", 0, err)
	}

	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, errors.NewLockError("", 0, errors.Wrap(err, "failed to resolve project path"))
	}

	sum := sha256.Sum256([]byte(abs))
	l := &Locker{
		path: filepath.Join(os.TempDir(), fmt.Sprintf("ssamgit-%x.lock", sum[:8])),
		pid:  os.Getpid(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the lock file location
func (l *Locker) Path() string {
	return l.path
}

// Held reports whether this Locker currently holds the lock
func (l *Locker) Held() bool {
	return l.file != nil
}

// Acquire takes the lock or fails with ErrAlreadyRunning when a live process
// holds it. A lock file left behind by a crashed server is taken over: the
// kernel drops the advisory lock when its owner exits.
func (l *Locker) Acquire() error {
	if l.file != nil {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return errors.NewLockError(l.path, 0, errors.Wrap(errors.ErrLockAcquisitionFailure, err.Error()))
	}

	if err := tryLock(f); err != nil {
		_ = f.Close()
		if !isContended(err) {
			return errors.NewLockError(l.path, 0, errors.Wrap(errors.ErrLockAcquisitionFailure, err.Error()))
		}
		pid, _ := l.Owner()
		return errors.NewLockError(l.path, pid, errors.ErrAlreadyRunning)
	}

	if err := writePID(f, l.pid); err != nil {
		_ = unlock(f)
		_ = f.Close()
		return errors.NewLockError(l.path, l.pid, errors.Wrap(err, "failed to write PID to lock file"))
	}

	l.file = f
	return nil
}

func writePID(f *os.File, pid int) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err := f.WriteAt([]byte(strconv.Itoa(pid)), 0)
	return err
}

// Owner reads the PID recorded in the lock file
func (l *Locker) Owner() (int, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read lock file")
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "invalid PID in lock file")
	}
	return pid, nil
}

// Release drops the lock and removes the lock file. Releasing a lock that is
// not held is a no-op.
func (l *Locker) Release() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	var errs []error
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, errors.Wrap(err, "failed to remove lock file"))
	}
	if err := unlock(f); err != nil {
		errs = append(errs, errors.Wrap(err, "failed to release lock"))
	}
	if err := f.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "failed to close lock file"))
	}

	if len(errs) > 0 {
		return errors.NewLockError(l.path, l.pid, errors.Join(errs...))
	}
	return nil
}
