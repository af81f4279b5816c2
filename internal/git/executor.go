package git

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/bashhack/ssamgit/internal/errors"
)

// CommandExecutor defines an interface for executing commands
type CommandExecutor interface {
	// ExecuteWithOutput runs a command and returns its standard output.
	// On failure the returned error carries the captured standard error.
	ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput.
// Standard output is returned as-is; trimming is left to the caller.
func (e *ExecExecutor) ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	operation, args := describe(cmd)

	if err := ctx.Err(); err != nil {
		return "", errors.NewGitError(operation, args, err, "")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", errors.NewGitError(operation, args, errors.Wrap(ctxErr, err.Error()), stderr.String())
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The process never ran, so there is no stderr to inspect. The start
		// error itself becomes the diagnostic.
		return "", errors.NewGitError(operation, args, errors.Wrap(errors.ErrToolUnavailable, err.Error()), err.Error())
	}

	return "", errors.NewCommandFailure(operation, args, err, stderr.String())
}

// describe extracts the git subcommand and its arguments from cmd.
func describe(cmd *exec.Cmd) (string, []string) {
	operation := ""
	if len(cmd.Args) > 1 {
		operation = cmd.Args[1]
	} else if len(cmd.Args) == 1 {
		operation = cmd.Args[0]
	}

	var args []string
	if len(cmd.Args) > 2 {
		args = cmd.Args[2:]
	}
	return operation, args
}
