package git

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bashhack/ssamgit/internal/errors"
)

// MockResponse is the scripted result of one git invocation.
type MockResponse struct {
	Output string
	Err    error
}

// MockRunner is a Commander that answers from a script instead of running git.
// It is safe for concurrent use so it can back a live server in tests.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string][]MockResponse
	calls     []string

	// RunFn, when set, is consulted before the script.
	RunFn func(ctx context.Context, args ...string) (string, error)
}

// NewMockRunner creates an empty MockRunner. Unscripted commands fail with a
// diagnostic naming the command.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		responses: make(map[string][]MockResponse),
	}
}

// On queues a response for a command line (arguments joined by spaces, without
// the leading "git"). A trailing "*" matches any command with that prefix.
// Responses queued for the same command are returned in order; the last one
// repeats.
func (m *MockRunner) On(command string, output string, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[command] = append(m.responses[command], MockResponse{Output: output, Err: err})
	return m
}

// Run implements Commander
func (m *MockRunner) Run(ctx context.Context, args ...string) (string, error) {
	command := strings.Join(args, " ")

	m.mu.Lock()
	m.calls = append(m.calls, command)
	fn := m.RunFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, args...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	queue, ok := m.responses[command]
	if !ok || len(queue) == 0 {
		for prefix, q := range m.responses {
			if strings.HasSuffix(prefix, "*") && strings.HasPrefix(command, strings.TrimSuffix(prefix, "*")) && len(q) > 0 {
				queue, ok = q, true
				command = prefix
				break
			}
		}
	}
	if !ok || len(queue) == 0 {
		return "", DiagnosticFailure("command not mocked: git "+command, args...)
	}

	resp := queue[0]
	if len(queue) > 1 {
		m.responses[command] = queue[1:]
	}
	return resp.Output, resp.Err
}

// Calls returns the command lines run so far, in order
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Called reports whether command was run at least once
func (m *MockRunner) Called(command string) bool {
	for _, c := range m.Calls() {
		if c == command {
			return true
		}
	}
	return false
}

// EmptyFailure builds the error git produces when it exits non-zero without
// any stderr output.
func EmptyFailure(args ...string) error {
	op, rest := splitArgs(args)
	return errors.NewCommandFailure(op, rest, fmt.Errorf("exit status 1"), "")
}

// DiagnosticFailure builds the error git produces when it exits non-zero and
// explains why on stderr.
func DiagnosticFailure(stderr string, args ...string) error {
	op, rest := splitArgs(args)
	return errors.NewCommandFailure(op, rest, fmt.Errorf("exit status 128"), stderr)
}

func splitArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}
