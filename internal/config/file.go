package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format represents the file format of a config file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// File is the on-disk configuration. Nil fields were not set in the file.
//
//	# ssamgit.toml
//	repo = "./sketch"
//	log = false
//	addr = "127.0.0.1:5180"
type File struct {
	Repo           *string  `yaml:"repo" toml:"repo" json:"repo"`
	Addr           *string  `yaml:"addr" toml:"addr" json:"addr"`
	WSPath         *string  `yaml:"ws_path" toml:"ws_path" json:"ws_path"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins" json:"allowed_origins"`
	Log            *bool    `yaml:"log" toml:"log" json:"log"`
	Color          *string  `yaml:"color" toml:"color" json:"color"`
	Quiet          *bool    `yaml:"quiet" toml:"quiet" json:"quiet"`
	Debug          *bool    `yaml:"debug" toml:"debug" json:"debug"`
	LogFile        *string  `yaml:"log_file" toml:"log_file" json:"log_file"`
}

// LoadFile reads and parses a config file, detecting its format from the
// extension or, failing that, its content.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f, err := parse(content, detectFormat(path, content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Relative repo paths are relative to the config file, not the shell.
	if f.Repo != nil && *f.Repo != "" && !filepath.IsAbs(*f.Repo) {
		repo := filepath.Join(filepath.Dir(path), *f.Repo)
		f.Repo = &repo
	}

	return f, nil
}

// Apply copies every value set in f into c unless the matching flag was
// given on the command line.
func (f *File) Apply(c *Config, flagChanged func(name string) bool) {
	if flagChanged == nil {
		flagChanged = func(string) bool { return false }
	}

	if f.Repo != nil && !flagChanged(FlagRepo) {
		c.RepoPath = *f.Repo
	}
	if f.Addr != nil && !flagChanged(FlagAddr) {
		c.Addr = *f.Addr
	}
	if f.WSPath != nil && !flagChanged(FlagWSPath) {
		c.WSPath = *f.WSPath
	}
	if f.AllowedOrigins != nil && !flagChanged(FlagAllowOrigin) {
		c.AllowedOrigins = f.AllowedOrigins
	}
	if f.Log != nil && !flagChanged(FlagNoBrowserLog) {
		c.BrowserLog = *f.Log
	}
	if f.Color != nil && !flagChanged(FlagColor) {
		c.Color = ColorMode(strings.ToLower(*f.Color))
	}
	if f.Quiet != nil && !flagChanged(FlagQuiet) {
		c.Verbose = !*f.Quiet
	}
	if f.Debug != nil && !flagChanged(FlagDebug) {
		c.Debug = *f.Debug
	}
	if f.LogFile != nil && !flagChanged(FlagLogFile) {
		c.LogFile = *f.LogFile
	}
}

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "=") || strings.HasPrefix(line, "[") {
			return FormatTOML
		}
		if strings.Contains(line, ":") {
			return FormatYAML
		}
	}

	return FormatUnknown
}

// parse parses the content according to the specified format.
func parse(content []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &f); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, &f); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(content, &f); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown file format")
	}

	return &f, nil
}
