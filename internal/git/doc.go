// Package git runs the handful of git commands ssamgit needs.
//
// Commands run as argv in the project directory, never through a shell, so
// nothing from a browser request can reach the command line. The commit
// message is always generated by the caller.
//
// # Core Components
//
// - Runner: runs git with a CommandExecutor and returns raw stdout
// - Client: typed commands (Version, Init, Status, AddAll, Commit, ShortHead)
// - MockRunner: scripted Commander for tests
//
// # Failures
//
// A failed command returns *errors.GitError wrapping one of two sentinels:
//
//   - errors.ErrEmptyFailure: git exited non-zero and wrote nothing to stderr.
//     git commit does this on a clean working tree.
//   - errors.ErrGitOperationFailed: git explained the failure on stderr; the
//     text is kept verbatim in GitError.Output.
//
// Callers branch on errors.IsEmptyFailure or errors.Diagnostic instead of
// inspecting strings.
//
// # Usage
//
//	client := git.NewClient("/path/to/sketch")
//	if _, err := client.AddAll(ctx); err != nil {
//	    // Handle error
//	}
//	out, err := client.ShortHead(ctx)
//	hash := strings.TrimSpace(out)
//
// Output is returned untrimmed; trimming is up to the caller.
package git
