package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bashhack/ssamgit/internal/format"
)

// Logger defines the logging interface used throughout ssamgit.
// It separates internal (debug) logs from the console output a developer
// watches while the dev server runs.
type Logger interface {
	// Private logging methods (written only to the debug log file)

	// Info logs an informational message for debugging purposes.
	Info(format string, args ...interface{})

	// Warning logs a warning for debugging purposes. It is also shown on
	// stdout when verbose output is on.
	Warning(format string, args ...interface{})

	// Console methods (debug log file and terminal)

	// Error logs an error. It is always written to stderr.
	Error(format string, args ...interface{})

	// InfoToUser logs an informational message to stdout.
	InfoToUser(format string, args ...interface{})

	// WarningToUser logs a warning to stderr.
	WarningToUser(format string, args ...interface{})

	// Success logs a success message to stdout.
	Success(format string, args ...interface{})

	// StatusMessage prints a line to stdout as-is.
	StatusMessage(format string, args ...interface{})

	// Close flushes and closes the debug log file, if any.
	Close() error
}

// DefaultLogger provides structured logging capability and implements the Logger interface
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	logFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

// New creates a new Logger instance
func New(enabled bool, logFile string, verbose bool) *DefaultLogger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	var logger *slog.Logger

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var file *os.File

	if enabled && logFile != "" {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0755); err != nil {
				_, _ = fmt.Fprintf(stderr, "⚠️ Failed to create log directory: %v\n", err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			file = f
			logger = slog.New(slog.NewTextHandler(f, opts))
			_, _ = fmt.Fprintf(stdout, "🔍 Debug logging enabled. Logs will be written to: %s\n", logFile)

			logger.Info("ssamgit debug logging started")
		} else {
			logger = slog.New(slog.NewTextHandler(stderr, opts))
			_, _ = fmt.Fprintf(stderr, "⚠️ Failed to open log file: %v, using stderr instead\n", err)
		}
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, opts))
	}

	return &DefaultLogger{
		logger:  logger,
		enabled: enabled,
		logFile: logFile,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// record writes msg to the debug log with escapes removed
func (l *DefaultLogger) record(level slog.Level, msg string) {
	if !l.enabled {
		return
	}
	l.logger.Log(context.Background(), level, format.StripANSI(msg))
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.record(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.record(slog.LevelWarn, msg)

	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "⚠️  %s\n", msg)
	}
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.record(slog.LevelError, msg)

	// Always show errors to the user regardless of debug status
	_, _ = fmt.Fprintf(l.stderr, "❌ %s\n", msg)
}

// InfoToUser logs an informational message to both file and stdout
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.record(slog.LevelInfo, msg)

	_, _ = fmt.Fprintf(l.stdout, "ℹ️  %s\n", msg)
}

// WarningToUser logs a warning message to both file and stderr
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.record(slog.LevelWarn, msg)

	_, _ = fmt.Fprintf(l.stderr, "⚠️  %s\n", msg)
}

// Success logs a success message to both file and stdout
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.record(slog.LevelInfo, msg)

	_, _ = fmt.Fprintf(l.stdout, "✅ %s\n", msg)
}

// StatusMessage prints a status message to stdout and the debug log
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.record(slog.LevelInfo, msg)

	_, _ = fmt.Fprintln(l.stdout, msg)
}

// Close ensures any buffered data is written and closes open log file handles
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			return err
		}
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetStdout sets a custom writer for user-facing stdout messages only.
// NOTE: This does not affect where structured log messages from slog are directed.
func (l *DefaultLogger) SetStdout(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = w
}

// SetStderr sets a custom writer for user-facing stderr messages only.
// NOTE: This does not affect where structured log messages from slog are directed.
func (l *DefaultLogger) SetStderr(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stderr = w
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})          {}
func (nopLogger) Warning(string, ...interface{})       {}
func (nopLogger) Error(string, ...interface{})         {}
func (nopLogger) InfoToUser(string, ...interface{})    {}
func (nopLogger) WarningToUser(string, ...interface{}) {}
func (nopLogger) Success(string, ...interface{})       {}
func (nopLogger) StatusMessage(string, ...interface{}) {}
func (nopLogger) Close() error                         { return nil }
