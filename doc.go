// Package datorr is a date-based log file module designed to plug directly
// into a standard go logger. Instead of rotating one file by renaming it,
// each write lands in a file whose name is resolved from the current time
// and a strftime-style pattern, such as logs/app-%Y-%m-%d.log. When the
// resolved name changes, output switches to the new file and the oldest
// matching files beyond the configured backup count are deleted.
//
// The New() methods return a simple io.WriteCloser that works with most log
// packages. The included `datepattern`, `retention` and `flocker` packages
// handle pattern compilation, old-file pruning, and cross-process locking
// for several processes sharing one pattern. Inspired by the golift.io
// family of log rotators.
//
// Use this package if you want daily, hourly, or weekly log files without
// running a separate rotation daemon.
//
//	https://pkg.go.dev/golift.io/datorr/datepattern
//	https://pkg.go.dev/golift.io/datorr/flocker
package datorr
