// Package repolock serializes protocol runs against a single repository
// clone. Two concurrent runs would fight over HEAD, so each run takes a PID
// lock file inside .git before touching anything.
package repolock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	detourErrors "github.com/detourdev/detour/internal/errors"
	"github.com/detourdev/detour/internal/logger"
)

const (
	lockFileName   = "detour.lock"
	maxLockRetries = 3
)

// Lock is a held repository lock. Release removes the lock file.
type Lock struct {
	path   string
	handle *os.File
}

// Path returns the lock file location, for error messages.
func (l *Lock) Path() string {
	return l.path
}

// Release closes and removes the lock file. Safe to call more than once.
func (l *Lock) Release() {
	if l.handle == nil {
		return
	}
	_ = l.handle.Close()
	_ = os.Remove(l.path)
	l.handle = nil
}

// Acquire takes the repository lock, with staleness detection. A lock whose
// owning process is no longer running is removed and the acquisition retried.
func Acquire(repoPath string) (*Lock, error) {
	lockFile := filepath.Join(repoPath, ".git", lockFileName)

	for attempt := range maxLockRetries {
		handle, done, err := tryAcquire(lockFile, attempt)
		if done {
			if err != nil {
				return nil, err
			}
			return &Lock{path: lockFile, handle: handle}, nil
		}
	}
	return nil, fmt.Errorf("failed to acquire lock after %d attempts; if no detour operation is running, remove %s", maxLockRetries, lockFile)
}

// tryAcquire makes a single attempt to take the lock.
// Returns (handle, true, nil) on success, (nil, true, err) on permanent
// failure, or (nil, false, nil) if a stale lock was removed and retry is
// needed.
func tryAcquire(lockFile string, attempt int) (*os.File, bool, error) {
	handle, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err == nil {
		_, _ = handle.WriteString(strconv.Itoa(os.Getpid()))
		return handle, true, nil
	}

	if !errors.Is(err, os.ErrExist) {
		return nil, true, fmt.Errorf("failed to acquire lock: %w", err)
	}

	// Lock file exists - check if it's stale
	content, readErr := os.ReadFile(lockFile)
	if readErr != nil {
		return nil, true, detourErrors.ErrRepoLocked(lockFile, 0)
	}

	pidStr := strings.TrimSpace(string(content))
	pid, parseErr := strconv.Atoi(pidStr)
	if parseErr != nil {
		// Invalid PID means corrupted lock file - treat as stale and retry
		logger.Debug("lock file contains invalid PID, removing stale lock",
			"pid", pidStr, "attempt", attempt+1)
		_ = os.Remove(lockFile)
		return nil, false, nil
	}

	if !isProcessRunning(pid) {
		logger.Debug("lock held by terminated process, removing stale lock",
			"pid", pid, "attempt", attempt+1)
		_ = os.Remove(lockFile)
		return nil, false, nil
	}

	return nil, true, detourErrors.ErrRepoLocked(lockFile, pid)
}
