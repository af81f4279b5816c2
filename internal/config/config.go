package config

import (
	"crypto/sha256"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bashhack/ssamgit/internal/errors"
)

const (
	// DefaultAddr is where the dev server listens
	DefaultAddr = "127.0.0.1:5175"

	// DefaultWSPath is the websocket endpoint the sketch connects to
	DefaultWSPath = "/ws"
)

// ColorMode controls terminal colors in console output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options are the settings the snapshot handler and bootstrapper see.
// They are fixed when the server starts and passed by value.
type Options struct {
	// BrowserLog sends ssam:log and ssam:warn notices back to the requesting
	// browser. Console output is unaffected.
	BrowserLog bool
}

// DefaultOptions returns Options with browser logging enabled
func DefaultOptions() Options {
	return Options{BrowserLog: true}
}

// Config holds all ssamgit application settings
type Config struct {
	// Project
	RepoPath string

	// Server
	Addr           string
	WSPath         string
	AllowedOrigins []string

	// Browser-facing behaviour
	BrowserLog bool

	// Console
	Color   ColorMode
	Verbose bool

	// Debugging
	Debug   bool
	LogFile string

	// ConfigFile is an optional TOML, YAML or JSON file with any of the above
	ConfigFile string

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Addr:       DefaultAddr,
		WSPath:     DefaultWSPath,
		BrowserLog: true,
		Color:      ColorAuto,
		Verbose:    true,

		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// Options returns the immutable handler options derived from c
func (c *Config) Options() Options {
	return Options{BrowserLog: c.BrowserLog}
}

// Flag names shared between the CLI and config files.
const (
	FlagRepo         = "repo"
	FlagAddr         = "addr"
	FlagWSPath       = "ws-path"
	FlagAllowOrigin  = "allow-origin"
	FlagNoBrowserLog = "no-browser-log"
	FlagColor        = "color"
	FlagQuiet        = "quiet"
	FlagDebug        = "debug"
	FlagLogFile      = "log-file"
	FlagConfig       = "config"
)

// SetupFlags registers command-line flags that override config values
func (c *Config) SetupFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.RepoPath, FlagRepo, c.RepoPath, "Project directory to snapshot (default: current directory)")
	fs.StringVar(&c.ConfigFile, FlagConfig, c.ConfigFile, "Path to a TOML, YAML or JSON config file")
	fs.BoolVar(&c.Debug, FlagDebug, c.Debug, "Enable debug logging")
	fs.StringVar(&c.LogFile, FlagLogFile, c.LogFile, "Path to log file (default: ~/.local/share/ssamgit/logs/ssamgit-{repo-hash}.log)")
	fs.String(FlagColor, string(c.Color), "Console colors: auto, always, never")
	fs.Bool(FlagQuiet, !c.Verbose, "Hide informational warnings")
	fs.Bool(FlagNoBrowserLog, !c.BrowserLog, "Do not send log and warning notices to the browser")
}

// SetupServerFlags registers flags that only apply to the long-running server
func (c *Config) SetupServerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, FlagAddr, c.Addr, "Address the dev server listens on")
	fs.StringVar(&c.WSPath, FlagWSPath, c.WSPath, "Websocket endpoint path")
	fs.StringSliceVar(&c.AllowedOrigins, FlagAllowOrigin, c.AllowedOrigins, "Extra browser origins allowed to connect (localhost is always allowed)")
}

// ApplyFlags copies the inverted and typed flags into c. File values are
// applied first so that explicitly set flags win.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	if c.ConfigFile != "" {
		file, err := LoadFile(c.ConfigFile)
		if err != nil {
			return errors.NewConfigError(FlagConfig, c.ConfigFile, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
		}
		file.Apply(c, fs.Changed)
	}

	if fs.Changed(FlagNoBrowserLog) {
		v, _ := fs.GetBool(FlagNoBrowserLog)
		c.BrowserLog = !v
	}
	if fs.Changed(FlagQuiet) {
		v, _ := fs.GetBool(FlagQuiet)
		c.Verbose = !v
	}
	if fs.Changed(FlagColor) {
		v, _ := fs.GetString(FlagColor)
		c.Color = ColorMode(strings.ToLower(v))
	}

	return nil
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return errors.NewConfigError("repo", "", errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to get current directory: %v", err)))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return errors.NewConfigError("repo", c.RepoPath, errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to resolve absolute path: %v", err)))
	}
	c.RepoPath = absRepoPath

	info, err := os.Stat(c.RepoPath)
	if err != nil || !info.IsDir() {
		return errors.NewConfigError("repo", c.RepoPath, errors.Wrap(errors.ErrInvalidConfiguration, "not a directory"))
	}

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return errors.NewConfigError("addr", c.Addr, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}

	if !strings.HasPrefix(c.WSPath, "/") {
		return errors.NewConfigError("ws-path", c.WSPath, errors.Wrap(errors.ErrInvalidConfiguration, "must start with /"))
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	case "":
		c.Color = ColorAuto
	default:
		return errors.NewConfigError("color", c.Color, errors.Wrap(errors.ErrInvalidConfiguration, "must be auto, always or never"))
	}

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				logDir = os.TempDir()
			}
		}

		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])
		c.LogFile = filepath.Join(logDir, "ssamgit", "logs", fmt.Sprintf("ssamgit-%s.log", repoHash))
	}

	return nil
}

// ColorEnabled resolves the color mode; auto defers to terminal detection.
func (c *Config) ColorEnabled(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
