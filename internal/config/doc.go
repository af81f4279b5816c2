// Package config provides configuration handling for ssamgit.
//
// Settings come from three places, highest priority first:
//
//  1. Command-line flags
//  2. An optional config file (--config), in TOML, YAML or JSON
//  3. Default values
//
// Environment variables are deliberately not consulted.
//
// # Config File
//
//	# ssamgit.toml
//	repo = "."                  # project directory, relative to this file
//	log = true                  # send notices to the browser
//	addr = "127.0.0.1:5175"
//	ws_path = "/ws"
//	allowed_origins = ["http://192.168.0.10:5173"]
//	color = "auto"              # auto, always, never
//	quiet = false
//	debug = false
//	log_file = ""
//
// # Options
//
// The snapshot handler and bootstrapper only see Options, a small value type
// derived once from Config at startup. Nothing changes it afterwards.
package config
