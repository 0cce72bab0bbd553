package flocker_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/datorr/flocker"
)

func TestLockUnlock(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	lock := flocker.New(filepath.Join(t.TempDir(), "test.lock"))
	assert.NoError(lock.Lock())
	assert.NoError(lock.Unlock())

	// Released locks can be taken again.
	assert.NoError(lock.Lock())
	assert.NoError(lock.Unlock())

	// Unlock is safe when the lock is not held.
	assert.NoError(lock.Unlock())
}

func TestLockTimeout(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.lock")

	holder := flocker.New(path)
	require.NoError(t, holder.Lock())

	defer func() { _ = holder.Unlock() }()

	// A second lock handle on the same path gets its own file descriptor,
	// so it contends even within one process.
	waiter := flocker.New(path)
	waiter.Timeout = 250 * time.Millisecond
	waiter.RetryDelay = 25 * time.Millisecond

	start := time.Now()
	err := waiter.Lock()
	assert.ErrorIs(err, flocker.ErrLockTimeout)
	assert.GreaterOrEqual(time.Since(start), waiter.Timeout, "the wait must be bounded, not skipped")

	// Once the holder lets go, the waiter succeeds.
	require.NoError(t, holder.Unlock())
	assert.NoError(waiter.Lock())
	assert.NoError(waiter.Unlock())
}

func TestPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.lock")
	assert.Equal(t, path, flocker.New(path).Path())
}
