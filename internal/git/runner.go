package git

import (
	"context"
	"os/exec"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Commander runs a single git invocation and returns its standard output.
// Failures are *errors.GitError values classified as either an empty failure
// or a failure with diagnostic text.
type Commander interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Runner executes git in a fixed working directory.
type Runner struct {
	dir      string
	binary   string
	executor CommandExecutor
}

// NewRunner creates a Runner for dir using the os/exec based executor.
// An empty dir means the process working directory.
func NewRunner(dir string) *Runner {
	return NewRunnerWithExecutor(dir, NewExecExecutor())
}

// NewRunnerWithExecutor creates a Runner with a custom executor
func NewRunnerWithExecutor(dir string, executor CommandExecutor) *Runner {
	return &Runner{
		dir:      dir,
		binary:   DefaultBinary,
		executor: executor,
	}
}

// Run executes `git args...` exactly once. No shell is involved, so no
// argument is ever interpreted by one.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir
	return r.executor.ExecuteWithOutput(ctx, cmd)
}

// Dir returns the directory commands run in
func (r *Runner) Dir() string {
	return r.dir
}
