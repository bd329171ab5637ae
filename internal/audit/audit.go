// Package audit writes the append-only transaction log.
//
// Each entry is one line, "[YYYY-MM-DD HH:MM:SS] <message>\n", written
// straight to the file and fsynced so it survives a crash immediately after.
// Entries are never read back.
//
// Writes are best-effort: a failed append is reported on the diagnostic
// logger and remembered in Err, and the caller's flow continues.
package audit

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TimeLayout is the timestamp format of every entry.
const TimeLayout = "2006-01-02 15:04:05"

// Log is an open audit log file.
type Log struct {
	mu   sync.Mutex
	path string
	f    *os.File
	now  func() time.Time
	log  zerolog.Logger
	err  error
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the timestamp source. The default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLogger sets the diagnostic logger used to report write failures.
func WithLogger(lg zerolog.Logger) Option {
	return func(l *Log) {
		l.log = lg.With().Str("component", "audit").Logger()
	}
}

// Open opens path for appending, creating it if absent.
func Open(path string, opts ...Option) (*Log, error) {
	l := &Log{path: path, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	l.f = f
	return l, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Record appends one timestamped entry. The message is formatted with
// fmt.Sprintf semantics.
func (l *Log) Record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.f == nil {
		l.fail(msg, os.ErrClosed)
		return
	}

	line := fmt.Sprintf("[%s] %s\n", l.now().Format(TimeLayout), msg)
	if _, err := l.f.WriteString(line); err != nil {
		l.fail(msg, err)
		return
	}
	if err := l.f.Sync(); err != nil {
		l.fail(msg, err)
	}
}

// Err returns the first write failure, if any.
func (l *Log) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the log file. Closing twice is a no-op.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	if err := errors.Join(f.Sync(), f.Close()); err != nil {
		return fmt.Errorf("close audit log %s: %w", l.path, err)
	}
	return nil
}

func (l *Log) fail(msg string, err error) {
	if l.err == nil {
		l.err = fmt.Errorf("write audit log %s: %w", l.path, err)
	}
	l.log.Warn().Err(err).Str("entry", msg).Msg("audit entry not written")
}
