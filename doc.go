// Package ssamgit is a git snapshot server for browser sketches.
//
// A creative-coding sketch running in the browser asks ssamgit, over a
// websocket, to commit its project directory. ssamgit stages and commits the
// working tree with a timestamp message and answers with the short commit
// hash, which the sketch uses to tag the frame it exports. Every saved image
// can then be traced back to the exact code that drew it.
//
// # Quick Start
//
//	# Navigate to your sketch
//	cd /path/to/sketch
//
//	# Start the server (initializes a repository if needed)
//	ssamgit
//
//	# Press Ctrl+C to stop when finished
//
// # Key Features
//
//   - One request, one commit: status, add, commit and rev-parse in order
//   - Clear outcomes: "nothing to commit" is told apart from real git errors
//   - Request fields are echoed back untouched, plus the commit hash
//   - No shell: request data never reaches the git command line
//   - Console output always, browser notices optional
//
// # Architecture
//
// The code lives under internal/:
//
//   - git: runs git commands and classifies failures
//   - format: timestamped, colored status lines and ANSI stripping
//   - channel: event names and payload pass-through
//   - bootstrap: checks for git and runs git init on startup
//   - snapshot: the commit sequence behind ssam:git
//   - server: websocket hub and HTTP routes
//   - config, logger, errors, lock, output: supporting packages
//
// The command-line entry point is cmd/ssamgit.
package ssamgit
