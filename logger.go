package shttp

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogWriteError(err error)
	LogResponseWarning(msg string)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("shttp: unhandled server error: %s", err)
}

func (l stdLogger) LogWriteError(err error) {
	l.Logger.Printf("shttp: error while writing response: %s", err)
}

func (l stdLogger) LogResponseWarning(msg string) {
	l.Logger.Printf("shttp: %s", msg)
}

// NewStdLogger logs through a standard library logger, log.Default() when l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogWriteError          int64
	NumLogResponseWarning     int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("shttp: unhandled server error: %s", err)
}

func (l *TestLogger) LogWriteError(err error) {
	atomic.AddInt64(&l.NumLogWriteError, 1)
	l.tb.Logf("shttp: error while writing response: %s", err)
}

func (l *TestLogger) LogResponseWarning(msg string) {
	atomic.AddInt64(&l.NumLogResponseWarning, 1)
	l.tb.Logf("shttp: %s", msg)
}

// Warnings returns the number of response warnings logged so far.
func (l *TestLogger) Warnings() int64 { return atomic.LoadInt64(&l.NumLogResponseWarning) }

// UnhandledErrors returns the number of unhandled serve errors logged so far.
func (l *TestLogger) UnhandledErrors() int64 { return atomic.LoadInt64(&l.NumLogUnhandledServeError) }

var _ Logger = &TestLogger{}
