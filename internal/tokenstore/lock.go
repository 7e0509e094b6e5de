package tokenstore

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	lockTimeout    = 500 * time.Millisecond
	initialBackoff = 5 * time.Millisecond
	maxBackoff     = 50 * time.Millisecond
)

// fileLocker serializes writers of the storage file across processes using
// OS file locks. The lock is released when the process exits, even on a crash.
type fileLocker struct {
	lockPath string
	lockFile *os.File
}

func newFileLocker(path string) *fileLocker {
	return &fileLocker{lockPath: path}
}

// acquire takes the exclusive lock, retrying with backoff until timeout.
func (l *fileLocker) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.lockFile = f

	deadline := time.Now().Add(timeout)
	backoff := initialBackoff

	for {
		if err := l.tryLock(); err == nil {
			l.writeHolder()
			return nil
		}

		if time.Now().After(deadline) {
			holder := l.readHolder()
			l.lockFile.Close()
			l.lockFile = nil
			return fmt.Errorf("token store lock timeout after %v (holder: %s)", timeout, holder)
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// release drops the lock and closes the lock file
func (l *fileLocker) release() {
	if l.lockFile == nil {
		return
	}
	l.unlock()
	l.lockFile.Close()
	l.lockFile = nil
}

func (l *fileLocker) writeHolder() {
	if l.lockFile == nil {
		return
	}
	l.lockFile.Truncate(0)
	l.lockFile.Seek(0, 0)
	fmt.Fprintf(l.lockFile, "%d\n", os.Getpid())
}

func (l *fileLocker) readHolder() string {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return "unknown"
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("pid %d", pid)
}
