// Package main implements ssamgit, a git snapshot server for browser sketches.
//
// A creative-coding sketch running in the browser connects to ssamgit over a
// websocket. When the sketch sends ssam:git, ssamgit stages and commits the
// project directory with a timestamp message and replies with ssam:git-success
// carrying the request fields plus the short commit hash. The sketch uses the
// hash to name the frame it exports, so every image can be traced back to the
// code that produced it.
//
// # Basic Usage
//
//	ssamgit                               # serve the current directory on 127.0.0.1:5175
//	ssamgit --repo ./sketch --addr :5175  # serve another directory
//	ssamgit --no-browser-log              # keep notices on the console only
//	ssamgit snapshot -o json              # commit once without a browser
//	ssamgit version
//
// # Messages
//
// Frames use the envelope {"type":"custom","event":...,"data":...}.
//
//	ssam:git          browser -> ssamgit   any JSON object, e.g. {"canvasId":"c","filename":"f.png"}
//	ssam:git-success  ssamgit -> browser   the request object plus "hash"
//	ssam:log          ssamgit -> browser   {"msg": "..."}
//	ssam:warn         ssamgit -> browser   {"msg": "..."}
//
// A clean working tree is reported as "nothing to commit, working tree clean".
// Any other git failure is passed through verbatim. Console output always
// happens; browser notices can be switched off with --no-browser-log or
// log = false in the config file.
//
// # Startup
//
// On start ssamgit checks that git can be run and initializes a repository
// if the project directory has none, broadcasting the outcome to connected
// sketches. Only one server may run per project directory.
//
// # Configuration
//
// Flags override values from --config (TOML, YAML or JSON), which override
// defaults. Environment variables are not read.
package main
