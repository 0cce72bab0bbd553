// Package flocker provides a cross-process advisory lock with a bounded
// acquisition timeout, built on github.com/gofrs/flock. Pass a FileLock into
// the datorr Config to keep independent processes sharing a file name
// pattern from racing on file creation and deletion.
package flocker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// Defaults used when the FileLock members are omitted.
const (
	DefaultTimeout    = 5 * time.Second
	DefaultRetryDelay = 50 * time.Millisecond
)

// ErrLockTimeout is returned when the lock is not acquired within Timeout.
var ErrLockTimeout = errors.New("timed out acquiring file lock")

// FileLock is an advisory lock on a dedicated lock file. The zero value is
// not usable; obtain one from New().
type FileLock struct {
	Timeout    time.Duration // Maximum time to wait for the lock.
	RetryDelay time.Duration // How often acquisition is retried while waiting.
	flock      *flock.Flock
}

// New returns a FileLock for the provided lock file path with default
// timeout and retry delay. The lock file's directory must exist.
func New(path string) *FileLock {
	return &FileLock{
		Timeout:    DefaultTimeout,
		RetryDelay: DefaultRetryDelay,
		flock:      flock.New(path),
	}
}

// Path returns the lock file path.
func (f *FileLock) Path() string {
	return f.flock.Path()
}

// Lock acquires the lock, retrying until the timeout elapses.
// Returns ErrLockTimeout when the bound is hit.
func (f *FileLock) Lock() error {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retry := f.RetryDelay
	if retry <= 0 {
		retry = DefaultRetryDelay
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := f.flock.TryLockContext(ctx, retry)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, f.flock.Path())
		}

		return fmt.Errorf("acquiring file lock %s: %w", f.flock.Path(), err)
	}

	if !locked {
		return fmt.Errorf("%w: %s", ErrLockTimeout, f.flock.Path())
	}

	return nil
}

// Unlock releases the lock. Safe to call when the lock is not held.
func (f *FileLock) Unlock() error {
	if err := f.flock.Unlock(); err != nil {
		return fmt.Errorf("releasing file lock %s: %w", f.flock.Path(), err)
	}

	return nil
}
