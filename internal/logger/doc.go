// Package logger provides logging facilities for ssamgit.
//
// Two audiences are served. The developer running the dev server reads the
// console: status lines, warnings and errors mirrored from what the browser
// is told. Debugging goes to an optional log file written through log/slog,
// with terminal escape codes removed.
//
// # Message Types
//
//   - Info, Warning: debug log file (Warning also on stdout when verbose)
//   - StatusMessage: stdout, printed as-is
//   - InfoToUser, Success: stdout with an icon
//   - WarningToUser, Error: stderr with an icon
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Verbose)
//	defer log.Close()
//
//	log.StatusMessage("%s", formatter.Compose("git is initialized"))
//
// All methods on DefaultLogger are safe for concurrent use.
package logger
