package logger

import (
	"fmt"
	"sync"
)

// Entry is one call recorded by MockLogger
type Entry struct {
	Method  string
	Message string
}

// MockLogger implements the Logger interface for testing. It records every
// call and is safe for concurrent use.
type MockLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMockLogger creates an empty MockLogger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(method, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Method: method, Message: fmt.Sprintf(format, args...)})
}

// Info logs an info message
func (m *MockLogger) Info(format string, args ...interface{}) { m.record("Info", format, args...) }

// Warning logs a warning message
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record("Warning", format, args...)
}

// Error logs an error message
func (m *MockLogger) Error(format string, args ...interface{}) { m.record("Error", format, args...) }

// InfoToUser logs an info message to the user
func (m *MockLogger) InfoToUser(format string, args ...interface{}) {
	m.record("InfoToUser", format, args...)
}

// WarningToUser logs a warning message to the user
func (m *MockLogger) WarningToUser(format string, args ...interface{}) {
	m.record("WarningToUser", format, args...)
}

// Success logs a success message
func (m *MockLogger) Success(format string, args ...interface{}) {
	m.record("Success", format, args...)
}

// StatusMessage logs a status message
func (m *MockLogger) StatusMessage(format string, args ...interface{}) {
	m.record("StatusMessage", format, args...)
}

// Close implements Logger
func (m *MockLogger) Close() error { return nil }

// Entries returns every recorded call in order
func (m *MockLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Calls returns the messages logged through method
func (m *MockLogger) Calls(method string) []string {
	var out []string
	for _, e := range m.Entries() {
		if e.Method == method {
			out = append(out, e.Message)
		}
	}
	return out
}
