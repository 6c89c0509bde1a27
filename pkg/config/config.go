// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the launcher configuration from runk.toml or
// runk.yaml and the RUNK_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/runk/pkg/diag"
	"github.com/yeetrun/runk/pkg/logutil"
	"github.com/yeetrun/runk/pkg/sysexits"
	"gopkg.in/yaml.v3"
)

// FileNames are searched in order in each directory.
var FileNames = []string{"runk.toml", "runk.yaml", "runk.yml"}

type Config struct {
	SignalTB bool              `toml:"signal_tb" yaml:"signal_tb"`
	Color    string            `toml:"color" yaml:"color"`
	LogLevel string            `toml:"log_level" yaml:"log_level"`
	LogFile  string            `toml:"log_file" yaml:"log_file"`
	Requires string            `toml:"requires" yaml:"requires"`
	Aliases  map[string]string `toml:"aliases" yaml:"aliases"`
	Targets  map[string]Target `toml:"targets" yaml:"targets"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`
}

// Target holds per-target settings.
type Target struct {
	// Args are inserted before the target's command-line arguments.
	Args []string `toml:"args" yaml:"args"`
}

// Find walks up from startDir and returns the first configuration file
// found. It returns an error wrapping os.ErrNotExist if there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s found from %s: %w", strings.Join(FileNames, " or "), startDir, os.ErrNotExist)
}

// Load reads the configuration file at path. The format is chosen by
// extension. Unknown keys and syntax errors are configuration faults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, sysexits.New(sysexits.Config, "no such config file: "+path)
		}
		return nil, sysexits.Wrap(sysexits.Config, err)
	}
	var cfg Config
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		md, err := toml.Decode(string(b), &cfg)
		if err != nil {
			return nil, parseError(path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, parseError(path, fmt.Errorf("unknown key %s", undecoded[0]))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, parseError(path, err)
		}
	default:
		return nil, sysexits.Newf(sysexits.Config, "unsupported config format %q: %s", ext, path)
	}
	cfg.Path = path
	return &cfg, nil
}

func parseError(path string, err error) error {
	return &sysexits.Error{
		Code:    sysexits.Config,
		Message: fmt.Sprintf("failed to parse %s: %v", path, err),
		Err:     err,
	}
}

// LoadFromDir finds and loads the configuration for dir. With no file it
// returns an empty Config.
func LoadFromDir(dir string) (*Config, error) {
	path, err := Find(dir)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, sysexits.Wrap(sysexits.Config, err)
	}
	return Load(path)
}

// Environment variables read by ApplyEnv.
const (
	EnvSignalTB = "RUNK_SIGNAL_TB"
	EnvColor    = "RUNK_COLOR"
	EnvLogLevel = "RUNK_LOG_LEVEL"
	EnvLogFile  = "RUNK_LOG_FILE"
)

// ApplyEnv overrides file settings with the RUNK_* variables found by
// lookup, normally os.LookupEnv. Empty variables are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}
	if v, ok := get(EnvSignalTB); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return sysexits.Newf(sysexits.Config, "invalid %s %q", EnvSignalTB, v)
		}
		c.SignalTB = b
	}
	if v, ok := get(EnvColor); ok {
		c.Color = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := get(EnvLogFile); ok {
		c.LogFile = v
	}
	return nil
}

// Validate checks the values that have a fixed vocabulary.
func (c *Config) Validate() error {
	if _, err := diag.ParseColorMode(c.Color); err != nil {
		return c.fault(err)
	}
	if _, err := logutil.ParseLevel(c.LogLevel); err != nil {
		return c.fault(err)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return c.fault(fmt.Errorf("invalid requires %q: %w", c.Requires, err))
		}
	}
	for alias, target := range c.Aliases {
		if alias == "" || target == "" {
			return c.fault(errors.New("empty alias or target in aliases"))
		}
	}
	return nil
}

// CheckVersion fails if version does not satisfy the requires constraint.
// Development builds whose version does not parse are accepted.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return c.fault(fmt.Errorf("invalid requires %q: %w", c.Requires, err))
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	if !constraint.Check(v) {
		return c.fault(fmt.Errorf("runk %s does not satisfy requires %q", version, c.Requires))
	}
	return nil
}

func (c *Config) fault(err error) error {
	msg := err.Error()
	if c.Path != "" {
		msg = c.Path + ": " + msg
	}
	return &sysexits.Error{Code: sysexits.Config, Message: msg, Err: err}
}

// TargetArgs returns the configured arguments for the canonical target name.
func (c *Config) TargetArgs(name string) []string {
	return c.Targets[name].Args
}
