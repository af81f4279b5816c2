package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bashhack/ssamgit/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadFileFormats(t *testing.T) {
	tests := map[string]struct {
		name    string
		content string
	}{
		"toml": {
			name: "ssamgit.toml",
			content: `# sketch server
repo = "sketch"
log = false
addr = "127.0.0.1:5180"
allowed_origins = ["http://sketch.test"]
`,
		},
		"yaml": {
			name: "ssamgit.yaml",
			content: `repo: sketch
log: false
addr: 127.0.0.1:5180
allowed_origins:
  - http://sketch.test
`,
		},
		"json": {
			name:    "ssamgit.json",
			content: `{"repo": "sketch", "log": false, "addr": "127.0.0.1:5180", "allowed_origins": ["http://sketch.test"]}`,
		},
		"sniffed toml": {
			name:    "ssamgitrc",
			content: "repo = \"sketch\"\nlog = false\naddr = \"127.0.0.1:5180\"\nallowed_origins = [\"http://sketch.test\"]\n",
		},
		"sniffed yaml": {
			name:    ".ssamgit",
			content: "repo: sketch\nlog: false\naddr: \"127.0.0.1:5180\"\nallowed_origins: [\"http://sketch.test\"]\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tc.name, tc.content)

			f, err := LoadFile(path)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if f.Log == nil || *f.Log {
				t.Error("Expected log=false")
			}
			if f.Addr == nil || *f.Addr != "127.0.0.1:5180" {
				t.Errorf("Unexpected addr %v", f.Addr)
			}
			if f.Repo == nil || *f.Repo != filepath.Join(dir, "sketch") {
				t.Errorf("Expected repo relative to config file, got %v", f.Repo)
			}
			if len(f.AllowedOrigins) != 1 || f.AllowedOrigins[0] != "http://sketch.test" {
				t.Errorf("Unexpected origins %v", f.AllowedOrigins)
			}
			if f.Debug != nil {
				t.Error("Expected unset fields to stay nil")
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := writeFile(t, dir, "bad.toml", "repo = \n")
	if _, err := LoadFile(bad); err == nil {
		t.Error("Expected TOML parse error")
	}

	unknown := writeFile(t, dir, "unknown", "just words\n")
	if _, err := LoadFile(unknown); err == nil {
		t.Error("Expected unknown format error")
	}
}

func TestApplyFlagsPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ssamgit.yaml", "log: false\naddr: 127.0.0.1:5180\nquiet: true\n")

	c := New()
	fs := newFlagSet(c)
	if err := fs.Parse([]string{"--config", path, "--addr", "127.0.0.1:6000"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	if err := c.ApplyFlags(fs); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if c.Addr != "127.0.0.1:6000" {
		t.Errorf("Expected flag to win over file, got %s", c.Addr)
	}
	if c.BrowserLog {
		t.Error("Expected file to disable browser log")
	}
	if c.Verbose {
		t.Error("Expected file quiet=true to disable verbose")
	}
}

func TestApplyFlagsBadFile(t *testing.T) {
	c := New()
	fs := newFlagSet(c)
	if err := fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.toml")}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	err := c.ApplyFlags(fs)
	if !errors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}
