package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	logger := New(false, logFile, true)
	if logger == nil {
		t.Fatal("Expected non-nil logger with debug disabled")
	}

	if _, err := os.Stat(logFile); err == nil {
		t.Error("Expected no log file to be created when debug is disabled")
	}

	logger = NewWithOutput(true, logFile, true, &bytes.Buffer{}, &bytes.Buffer{})
	defer func() {
		if err := logger.Close(); err != nil {
			t.Logf("Failed to close logger: %v", err)
		}
	}()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Expected log file to be created when debug is enabled: %v", err)
	}

	if !strings.Contains(string(content), "ssamgit debug logging started") {
		t.Error("Expected initial message to be logged")
	}
}

func TestLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "test.log")

	logger := NewWithOutput(true, logFile, true, &bytes.Buffer{}, &bytes.Buffer{})

	logger.Info("Test info message")
	logger.Warning("Test warning message")
	logger.Error("Test error message")
	logger.StatusMessage("\x1b[32m[ssam-git]\x1b[0m status")

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	logContent := string(content)

	for _, want := range []string{"Test info message", "Test warning message", "Test error message", "[ssam-git] status"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("Expected %q to be logged", want)
		}
	}

	if strings.Contains(logContent, "\x1b[") {
		t.Error("Expected escape codes to be stripped from the log file")
	}
}

func TestConsoleOutput(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	logger := NewWithOutput(false, "", false, stdout, stderr)

	tests := map[string]struct {
		log        func()
		wantStdout string
		wantStderr string
	}{
		"Info is file only": {
			log: func() { logger.Info("debug detail") },
		},
		"Warning hidden when not verbose": {
			log: func() { logger.Warning("quiet warning") },
		},
		"StatusMessage prints as-is": {
			log:        func() { logger.StatusMessage("10:15:30 AM [ssam-git] %s", "[main a1b2c3d] 2024.03.01-10.15.30") },
			wantStdout: "10:15:30 AM [ssam-git] [main a1b2c3d] 2024.03.01-10.15.30\n",
		},
		"InfoToUser": {
			log:        func() { logger.InfoToUser("listening on %s", "127.0.0.1:5175") },
			wantStdout: "ℹ️  listening on 127.0.0.1:5175\n",
		},
		"Success": {
			log:        func() { logger.Success("done") },
			wantStdout: "✅ done\n",
		},
		"WarningToUser goes to stderr": {
			log:        func() { logger.WarningToUser("nothing to commit, working tree clean") },
			wantStderr: "⚠️  nothing to commit, working tree clean\n",
		},
		"Error goes to stderr": {
			log:        func() { logger.Error("fatal: oops") },
			wantStderr: "❌ fatal: oops\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			stdout.Reset()
			stderr.Reset()

			tc.log()

			if stdout.String() != tc.wantStdout {
				t.Errorf("Expected stdout %q, got %q", tc.wantStdout, stdout.String())
			}
			if stderr.String() != tc.wantStderr {
				t.Errorf("Expected stderr %q, got %q", tc.wantStderr, stderr.String())
			}
		})
	}
}

func TestVerboseWarning(t *testing.T) {
	stdout := &bytes.Buffer{}
	logger := NewWithOutput(false, "", true, stdout, &bytes.Buffer{})

	logger.Warning("careful")
	if stdout.String() != "⚠️  careful\n" {
		t.Errorf("Expected verbose warning on stdout, got %q", stdout.String())
	}
}

func TestSetWriters(t *testing.T) {
	logger := New(false, "", true)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	logger.SetStdout(stdout)
	logger.SetStderr(stderr)

	logger.StatusMessage("out")
	logger.Error("err")

	if stdout.String() != "out\n" {
		t.Errorf("Unexpected stdout %q", stdout.String())
	}
	if stderr.String() != "❌ err\n" {
		t.Errorf("Unexpected stderr %q", stderr.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("x")
	l.Error("x")
	if err := l.Close(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
