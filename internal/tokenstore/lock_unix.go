//go:build unix

package tokenstore

import (
	"golang.org/x/sys/unix"
)

// tryLock attempts to acquire an exclusive lock without blocking.
func (l *fileLocker) tryLock() error {
	return unix.Flock(int(l.lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func (l *fileLocker) unlock() {
	if l.lockFile != nil {
		unix.Flock(int(l.lockFile.Fd()), unix.LOCK_UN)
	}
}
