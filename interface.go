package datorr

//go:generate mockgen -destination=mocks/locker.go -package=mocks golift.io/datorr Locker

import "time"

// Clock tells the Logger what time it is. File paths are resolved against
// Clock.Now() on every write. Provide your own to pin time in tests, or use
// a UTC clock to keep file names in UTC.
type Clock interface {
	Now() time.Time
}

type clockFn func() time.Time

// Now satisfies the Clock interface.
func (f clockFn) Now() time.Time { return f() }

// Local is a Clock that returns the current time in the local time zone.
// This is the default.
var Local = clockFn(time.Now) //nolint:gochecknoglobals

// UTC is a Clock that returns the current time in UTC.
var UTC = clockFn(func() time.Time { return time.Now().UTC() }) //nolint:gochecknoglobals

// Locker serializes file creation and cleanup across independent processes
// writing the same file name pattern. Lock is only taken around a target
// switch; ordinary writes to an already-open file never contend. A Locker
// must bound its wait and return an error instead of blocking forever.
// The flocker package provides one built on advisory file locks.
type Locker interface {
	Lock() error
	Unlock() error
}
