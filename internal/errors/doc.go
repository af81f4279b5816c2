// Package errors provides error handling utilities for ssamgit.
//
// Besides the usual wrapping helpers it defines the two variants a failed git
// command can produce:
//
//   - ErrEmptyFailure: git exited non-zero and wrote nothing to stderr. git
//     reports "nothing to commit" this way, so callers translate it into a
//     fixed notice instead of an error.
//   - ErrGitOperationFailed: git exited non-zero with diagnostic text, which
//     is kept verbatim in GitError.Output.
//
// Both are produced once, by the command runner, via NewCommandFailure.
// Callers use IsEmptyFailure and Diagnostic rather than inspecting strings.
//
// # Usage
//
//	out, err := runner.Run(ctx, "commit", "-am", msg)
//	if errors.IsEmptyFailure(err) {
//	    // nothing to commit
//	} else if diag, ok := errors.Diagnostic(err); ok {
//	    // report diag
//	}
//
// All types and functions in this package are safe for concurrent use
// by multiple goroutines.
package errors
