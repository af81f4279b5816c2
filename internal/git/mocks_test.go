package git

import (
	"context"
	"testing"

	"github.com/bashhack/ssamgit/internal/errors"
)

func TestMockRunner(t *testing.T) {
	ctx := context.Background()
	m := NewMockRunner().
		On("status --porcelain", " M sketch.js\n", nil).
		On("commit -am *", "[main abc1234] msg\n", nil).
		On("rev-parse --short HEAD", "abc1234\n", nil).
		On("rev-parse --short HEAD", "def5678\n", nil)

	if out, _ := m.Run(ctx, "status", "--porcelain"); out != " M sketch.js\n" {
		t.Errorf("Unexpected status output %q", out)
	}
	if out, _ := m.Run(ctx, "commit", "-am", "2024.03.01-10.15.30"); out != "[main abc1234] msg\n" {
		t.Errorf("Expected wildcard match, got %q", out)
	}
	first, _ := m.Run(ctx, "rev-parse", "--short", "HEAD")
	second, _ := m.Run(ctx, "rev-parse", "--short", "HEAD")
	third, _ := m.Run(ctx, "rev-parse", "--short", "HEAD")
	if first != "abc1234\n" || second != "def5678\n" || third != "def5678\n" {
		t.Errorf("Expected queued responses then repeat, got %q %q %q", first, second, third)
	}

	_, err := m.Run(ctx, "push")
	if diag, ok := errors.Diagnostic(err); !ok || diag != "command not mocked: git push" {
		t.Errorf("Expected unmocked diagnostic, got %q", diag)
	}

	if !m.Called("commit -am 2024.03.01-10.15.30") {
		t.Error("Expected commit call to be recorded")
	}
	if len(m.Calls()) != 6 {
		t.Errorf("Expected 6 calls, got %d", len(m.Calls()))
	}
}
