package datepattern_test

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/datorr/datepattern"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	when := time.Date(2024, 1, 15, 14, 5, 9, 0, time.UTC)

	for pattern, expected := range map[string]string{
		"app-%Y-%m-%d.log":          "app-2024-01-15.log",
		"app-%Y-%m-%d_%H.log":       "app-2024-01-15_14.log",
		"logs/app-%Y%m%d%H%M%S.log": "logs/app-20240115140509.log",
		"weekly-%Y-%W.log":          "weekly-2024-03.log",
		"day-%y%j.log":              "day-24015.log",
		"constant.log":              "constant.log",
		"100%%-%Y.log":              "100%-2024.log",
	} {
		p, err := datepattern.New(pattern)
		require.NoError(t, err, "pattern %q must compile", pattern)
		assert.Equal(expected, p.Resolve(when))
		assert.Equal(p.Resolve(when), p.Resolve(when), "resolution must be deterministic")
		assert.Equal(pattern, p.String())
	}
}

// File names resolved from an increasing sequence of timestamps must sort in
// the same order as the timestamps. The retention policy sorts file names
// lexicographically to find the oldest files, so this must hold for every
// directive combination the package accepts.
func TestResolveOrdering(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	patterns := []string{
		"app-%Y-%m-%d.log",
		"app-%Y-%m-%d_%H.log",
		"app-%Y%m%d%H%M%S.log",
		"app-%Y-%W.log",
		"app-%Y%j.log",
		"app-%Y-%U.log",
	}
	start := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)

	for _, pattern := range patterns {
		p, err := datepattern.New(pattern)
		require.NoError(t, err)

		names := make([]string, 0, 100)
		for idx := 0; idx < 100; idx++ {
			names = append(names, p.Resolve(start.Add(time.Duration(idx)*26*time.Hour)))
		}

		assert.True(sort.StringsAreSorted(names),
			"names from pattern %q must sort chronologically", pattern)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, err := datepattern.New("")
	assert.ErrorIs(err, datepattern.ErrEmptyPattern)

	for _, pattern := range []string{
		"app-%Q.log",    // no such directive.
		"app-%b.log",    // month name: not fixed-width, breaks ordering.
		"app-%A.log",    // weekday name: same problem.
		"app-%p.log",    // AM/PM.
		"app-2024.log%", // trailing percent.
	} {
		_, err := datepattern.New(pattern)
		assert.ErrorIs(err, datepattern.ErrUnsupportedDirective, "pattern %q must be rejected", pattern)
	}
}

func TestMatchBase(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	p, err := datepattern.New("logs/app-%Y-%m-%d.log")
	require.NoError(t, err)

	for _, name := range []string{
		"app-2024-01-15.log",
		"app-1999-12-31.log",
	} {
		assert.True(p.MatchBase(name), "%q must match", name)
	}

	for _, name := range []string{
		"app-2024-1-15.log",          // month not zero padded.
		"application-2024-01-15.log", // wrong prefix.
		"app-2024-01-15.txt",         // wrong extension.
		"app-2024-01-15.log.1",       // trailing junk.
		"xapp-2024-01-15.log",        // leading junk.
		"app-2024-01-15xlog",         // the dot is literal, not a wildcard.
	} {
		assert.False(p.MatchBase(name), "%q must not match", name)
	}
}

// A pattern with no directives is a constant path; it matches only itself.
func TestStaticPattern(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	p, err := datepattern.New("service.log")
	require.NoError(t, err)

	assert.Equal("service.log", p.Resolve(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal("service.log", p.Resolve(time.Date(2030, 6, 6, 6, 6, 6, 0, time.UTC)))
	assert.True(p.MatchBase("service.log"))
	assert.False(p.MatchBase("service2.log"))
}

func TestLockPath(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	p, err := datepattern.New(filepath.Join("logs", "app-%Y-%m-%d.log"))
	require.NoError(t, err)
	assert.Equal(filepath.Join("logs", ".app-_Y-_m-_d.log.lock"), p.LockPath())

	// Two patterns in one directory must derive different locks.
	p2, err := datepattern.New(filepath.Join("logs", "audit-%Y-%m-%d.log"))
	require.NoError(t, err)
	assert.NotEqual(p.LockPath(), p2.LockPath())

	// A directory part with directives cannot hold the lock file.
	p3, err := datepattern.New(filepath.Join("logs", "%Y", "app-%m.log"))
	require.NoError(t, err)
	assert.NotContains(p3.LockPath(), "%")
}
