// Package logger provides the process-wide leveled logger shared by every engine subsystem.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func get() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "neothauma",
			Level:           log.InfoLevel,
		})
	})
	return singleton
}

// SetLevel changes the minimum level that is emitted.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error" or "fatal"
//
// Returns:
//   - error: if the level name is not recognized
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	get().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mainly so tests can capture it.
func SetOutput(w io.Writer) {
	get().SetOutput(w)
}

// With returns a child logger carrying the given key/value pairs on every record.
func With(keyvals ...any) *log.Logger {
	return get().With(keyvals...)
}

func Debug(msg string, args ...any) {
	l := get()
	l.Helper()
	l.Debugf(msg, args...)
}

func Info(msg string, args ...any) {
	l := get()
	l.Helper()
	l.Infof(msg, args...)
}

func Warn(msg string, args ...any) {
	l := get()
	l.Helper()
	l.Warnf(msg, args...)
}

func Error(msg string, args ...any) {
	l := get()
	l.Helper()
	l.Errorf(msg, args...)
}

func Fatal(msg string, args ...any) {
	l := get()
	l.Helper()
	l.Fatalf(msg, args...)
}
