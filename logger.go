package datorr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golift.io/datorr/datepattern"
	"golift.io/datorr/filer"
	"golift.io/datorr/flocker"
	"golift.io/datorr/retention"
)

// These are the default file and directory POSIX modes.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o750
)

// openRetryInterval is how long to wait before retrying openTarget after a
// failure while the resolved path is unchanged. Prevents a storm of syscalls
// when the log file has permission or other persistent errors. A path change
// (new day, new hour) retries immediately.
const openRetryInterval = 10 * time.Second

// ErrTargetOpen wraps every failure to open or create the active log file.
// The write that hit it fails; the next write resolves and retries.
var ErrTargetOpen = errors.New("opening log target")

// Config is the data needed to create a new date-based Logger.
type Config struct {
	Pattern     string                     // strftime-style path pattern, e.g. "logs/app-%Y-%m-%d.log". Set this, the default is lousy.
	BackupCount int                        // Maximum number of dated files kept, the active one included. 0 keeps everything.
	FileMode    os.FileMode                // POSIX mode for new files.
	DirMode     os.FileMode                // POSIX mode for new folders.
	Delay       bool                       // Defer the first open until the first write. No file is created for a silent logger.
	Truncate    bool                       // Truncate instead of append when opening a file.
	Clock       Clock                      // Time source for path resolution. Default: Local.
	Locker      Locker                     // Optional cross-process lock around target switches.
	Filer       filer.Filer                // Overridable file system procedures.
	Logf        func(msg string, v ...any) // Optional diagnostic log for cleanup failures.
}

// Logger writes each message to a file whose name is resolved from the
// current time and the configured pattern. When the resolved name changes,
// the output switches to the new file and the oldest matching files beyond
// BackupCount are deleted. You must obtain a Logger by calling one of the
// New() procedures.
type Logger struct {
	config      *Config              // incoming configurtation.
	pattern     *datepattern.Pattern // compiled from config.Pattern.
	policy      *retention.Policy    // deletes excess dated files.
	log         chan []byte          // incoming log messages passed across go routines.
	resp        chan *resp           // response sent back across go routines.
	signal      chan struct{}        // used for Reopen and Close ops.
	current     string               // resolved path of the active open file.
	File        *os.File             // The active open file. Useful for direct writing.
	filer.Filer                      // overridable file system procedures.
	lastOpenErr error                // last error from openTarget; used to avoid retry storm.
	lastOpened  time.Time            // when openTarget was last attempted (for backoff).
}

// resp is used to send responses back across our go routines.
type resp struct {
	size int64
	err  error
}

// New takes in your configuration and returns a Logger you can use with
// log.SetOutput(). The provided logger switches files on date boundaries
// and prunes old files per BackupCount.
func New(config *Config) (*Logger, error) {
	logger := &Logger{config: config, Filer: config.Filer}

	err := logger.initialize(false)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// NewMust takes in your configuration and returns a Logger you can use with
// log.SetOutput(). If an error occurs opening the log file, making log
// directories, or deleting old files, it is ignored (and retried later).
// An invalid file name pattern still panics: that is a programming error,
// not a runtime condition.
func NewMust(config *Config) *Logger {
	logger := &Logger{config: config, Filer: config.Filer}

	err := logger.initialize(true)
	if errors.Is(err, datepattern.ErrUnsupportedDirective) || errors.Is(err, datepattern.ErrEmptyPattern) {
		panic(err)
	}

	return logger
}

// NewConcurrent is New with a cross-process lock derived from the pattern.
// Use it when several independent processes write the same pattern; the lock
// keeps them from racing on file creation and deletion. A Locker already set
// in the Config is kept as-is.
func NewConcurrent(config *Config) (*Logger, error) {
	if config.Locker == nil {
		if config.Pattern == "" {
			config.Pattern = defaultPattern()
		}

		pattern, err := datepattern.New(config.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling file name pattern: %w", err)
		}

		dirMode := config.DirMode
		if dirMode == 0 {
			dirMode = DirMode
		}

		lockPath := pattern.LockPath()

		err = os.MkdirAll(filepath.Dir(lockPath), dirMode)
		if err != nil {
			return nil, fmt.Errorf("making lock file directory: %w", err)
		}

		config.Locker = flocker.New(lockPath)
	}

	return New(config)
}

// initialize runs all the startup routines.
func (l *Logger) initialize(ignoreErrors bool) error {
	var err error

	defer func() {
		if err == nil || ignoreErrors {
			l.log = make(chan []byte)
			l.resp = make(chan *resp)
			l.signal = make(chan struct{})

			go l.processLogChannel()
		}
	}()

	l.setConfigDefaults()

	l.pattern, err = datepattern.New(l.config.Pattern)
	if err != nil {
		return fmt.Errorf("compiling file name pattern: %w", err)
	}

	l.policy = &retention.Policy{
		Keep:    l.config.BackupCount,
		Pattern: l.pattern,
		Logf:    l.config.Logf,
		Filer:   l.Filer,
	}

	if !l.config.Delay {
		err = l.checkAndSwitch()
	}

	return err
}

// setConfigDefaults does exactly what it says. Sets missing values.
func (l *Logger) setConfigDefaults() {
	if l.config.Pattern == "" {
		l.config.Pattern = defaultPattern()
	}

	if l.config.BackupCount < 0 {
		l.config.BackupCount = 0
	}

	if l.config.DirMode == 0 {
		l.config.DirMode = DirMode
	}

	if l.config.FileMode == 0 {
		l.config.FileMode = FileMode
	}

	if l.config.Clock == nil {
		l.config.Clock = Local
	}

	if l.Filer == nil {
		l.Filer = filer.Default()
	}
}

func defaultPattern() string {
	return filepath.Join(os.TempDir(), filepath.Base(os.Args[0])+"-%Y-%m-%d.log")
}

// processLogChannel runs in a go routine and reads the incoming logs channel.
// Received logs are dispatched to the write method. Replies are then sent to
// the response channel. This also handles target switching and routine
// shutdown. Everything happens in this one go routine, so two threads never
// both open, switch, or clean at once, and writes never interleave mid-record.
func (l *Logger) processLogChannel() {
	for {
		select {
		case b := <-l.log:
			size, err := l.write(b)
			l.resp <- &resp{int64(size), err}
		case _, ok := <-l.signal:
			if !ok {
				l.signal = nil
				l.resp <- &resp{err: l.stop()}

				return
			}

			l.resp <- &resp{err: l.reopen()}
		}
	}
}

// Write sends data to the file resolved for the current time. This satisfies
// the io.Writer interface. You should generally not call this and instead
// pass *Logger into log.SetOutput().
func (l *Logger) Write(b []byte) (int, error) {
	l.log <- b
	resp := <-l.resp

	return int(resp.size), resp.err
}

// write sends a message into the log file after everything checks out - from a channel message.
func (l *Logger) write(b []byte) (int, error) {
	if err := l.checkAndSwitch(); err != nil {
		return 0, err
	}

	size, err := l.File.Write(b)
	if err != nil {
		return size, fmt.Errorf("error writing log msg: %w", err)
	}

	return size, nil
}

// checkAndSwitch resolves the file path for the current time and makes sure
// that file is the open one. Writes landing in the already-open file cost one
// string compare; only a changed path (or no open file) pays for the switch.
// When the target cannot be opened (e.g. permission denied), retries are
// backed off to avoid a storm of syscalls that can cause high CPU and IO.
func (l *Logger) checkAndSwitch() error {
	path := l.pattern.Resolve(l.config.Clock.Now())

	if l.File != nil && path == l.current {
		return nil
	}

	if l.File == nil && path == l.current &&
		l.lastOpenErr != nil && time.Since(l.lastOpened) < openRetryInterval {
		return l.lastOpenErr
	}

	return l.switchTarget(path)
}

// switchTarget closes the active file, opens the new one and prunes old
// files - from a channel message. The cross-process lock, when configured,
// covers the whole switch and is released on every exit path. Cleanup runs
// once per switch, not per write, and its failures never fail the write.
func (l *Logger) switchTarget(path string) error {
	if l.config.Locker != nil {
		if err := l.config.Locker.Lock(); err != nil {
			return err
		}
		defer func() { _ = l.config.Locker.Unlock() }()
	}

	if err := l.close(); err != nil {
		return err
	}

	l.current = path
	l.lastOpened = time.Now()

	if l.lastOpenErr = l.openTarget(path); l.lastOpenErr != nil {
		return l.lastOpenErr
	}

	l.policy.Clean(filepath.Dir(path), path)

	return nil
}

// openTarget opens the log file for writing.
// If the file exists, it is appended to (or truncated, per Config.Truncate).
// If it does not exist, it is created. Any necessary folders are also created.
func (l *Logger) openTarget(path string) error {
	err := l.MkdirAll(filepath.Dir(path), l.config.DirMode)
	if err != nil {
		return fmt.Errorf("%w: making directories: %w", ErrTargetOpen, err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if l.config.Truncate {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	l.File, err = l.OpenFile(path, flag, l.config.FileMode)
	if err != nil {
		l.File = nil

		return fmt.Errorf("%w %s: %w", ErrTargetOpen, path, err)
	}

	return nil
}

// Reopen forces the active file to close and reopen immediately, with a
// cleanup pass. Useful with SIGHUP after something moved the file away.
func (l *Logger) Reopen() error {
	l.signal <- struct{}{}
	resp := <-l.resp

	return resp.err
}

// reopen closes and reopens the target - from a channel message.
func (l *Logger) reopen() error {
	return l.switchTarget(l.pattern.Resolve(l.config.Clock.Now()))
}

// Close stops the go routines, closes the active log file session and all
// channels. If another Write() is sent, a panic will ensue.
func (l *Logger) Close() error {
	defer close(l.resp)
	close(l.signal)

	return (<-l.resp).err
}

// close closes the active log file - from a channel message.
func (l *Logger) close() error {
	if l.File == nil {
		return nil
	}

	err := l.File.Close()
	l.File = nil

	if err != nil {
		return fmt.Errorf("closing log file %s: %w", l.current, err)
	}

	return nil
}

// stop closes everything down.
func (l *Logger) stop() error {
	if l.log != nil {
		close(l.log)
	}

	l.log = nil

	return l.close()
}

// Our interface must satify an io.WriteCloser.
var _ io.WriteCloser = (*Logger)(nil)

// The flocker package must satisfy our Locker interface.
var _ Locker = (*flocker.FileLock)(nil)
