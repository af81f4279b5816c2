// Package lock ensures only one ssamgit server runs per project directory.
//
// Two servers watching the same directory would both answer ssam:git and
// commit twice, so serve takes an exclusive flock on a file named after the
// project path before it starts listening:
//
//	/tmp/ssamgit-<path-hash>.lock
//
// The file holds the owner's PID for error messages. The kernel releases the
// lock when the owner exits, so a file left behind by a crash is reused.
//
// The lock says nothing about snapshot requests: concurrent requests within
// one server are left to git's own index lock.
//
//	l, err := lock.New(repoPath)
//	if err != nil {
//	    return err
//	}
//	if err := l.Acquire(); err != nil {
//	    return err // errors.Is(err, errors.ErrAlreadyRunning)
//	}
//	defer l.Release()
package lock
