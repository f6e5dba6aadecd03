// Package config loads the optional .golinkrc.yaml configuration file: a
// Load/LoadFrom/Validate/Merge API where a missing file is not an error.
// The settings cover this checker's knobs: worker count, anchor checking,
// the source-markdown directory, and scan include/exclude globs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".golinkrc.yaml"

// Config is the complete configuration structure.
type Config struct {
	// Scan holds file-enumeration settings.
	Scan ScanConfig `yaml:"scan"`

	// Check holds link/anchor-checking settings.
	Check CheckConfig `yaml:"check"`

	// Output holds reporter preferences.
	Output OutputConfig `yaml:"output"`
}

// ScanConfig holds file-enumeration settings.
type ScanConfig struct {
	// Include, if non-empty, keeps only paths matching at least one glob.
	Include []string `yaml:"include"`
	// Exclude drops paths matching any glob, applied after Include.
	Exclude []string `yaml:"exclude"`
}

// CheckConfig holds link-checking settings.
type CheckConfig struct {
	// Jobs is the worker count. Zero means NumCPU.
	Jobs int `yaml:"jobs"`
	// CheckAnchors enables anchor validation.
	CheckAnchors bool `yaml:"checkAnchors"`
	// Sources, if set, enables the source-mapper against this directory of
	// Markdown files.
	Sources string `yaml:"sources"`
}

// OutputConfig holds reporter preferences.
type OutputConfig struct {
	// GithubActions switches the reporter to annotation format.
	GithubActions bool `yaml:"githubActions"`
	// ShowStats prints the runstats performance breakdown after the report.
	ShowStats bool `yaml:"showStats"`
}

// Load reads configuration from .golinkrc.yaml in the current directory.
// A missing file is not an error; it returns an empty Config.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFileName)
}

// LoadFrom reads configuration from a specific path. A missing file is not
// an error; it returns an empty Config. A malformed file is.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad searches for .golinkrc.yaml starting at startDir and walking up
// to parent directories until it finds one or reaches the filesystem root.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir
	for {
		path := filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Check.Jobs < 0 {
		return fmt.Errorf("check.jobs must be >= 0, got %d", c.Check.Jobs)
	}
	for _, p := range c.Scan.Include {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid scan.include pattern %q: %w", p, err)
		}
	}
	for _, p := range c.Scan.Exclude {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid scan.exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

// IsEmpty reports whether no settings at all are defined.
func (c *Config) IsEmpty() bool {
	return len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		c.Check.Jobs == 0 &&
		!c.Check.CheckAnchors &&
		c.Check.Sources == "" &&
		!c.Output.GithubActions &&
		!c.Output.ShowStats
}

// Merge combines other into c: additive for slices, other-overrides for
// scalars.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)

	if other.Check.Jobs > 0 {
		c.Check.Jobs = other.Check.Jobs
	}
	if other.Check.CheckAnchors {
		c.Check.CheckAnchors = true
	}
	if other.Check.Sources != "" {
		c.Check.Sources = other.Check.Sources
	}
	if other.Output.GithubActions {
		c.Output.GithubActions = true
	}
	if other.Output.ShowStats {
		c.Output.ShowStats = true
	}
}

// GetJobs returns the effective worker count: cliValue if it differs from
// cliDefault (meaning the flag was explicitly set), else the config value,
// else cliDefault.
func (c *Config) GetJobs(cliValue, cliDefault int) int {
	if cliValue != cliDefault {
		return cliValue
	}
	if c.Check.Jobs > 0 {
		return c.Check.Jobs
	}
	return cliDefault
}

// GetCheckAnchors returns the effective anchor-checking flag: true if either
// the CLI flag or the config set it.
func (c *Config) GetCheckAnchors(cliValue bool) bool {
	return cliValue || c.Check.CheckAnchors
}

// GetSources returns the effective source-markdown directory: the CLI value
// if set, else the config value.
func (c *Config) GetSources(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return c.Check.Sources
}

// GetGithubActions returns the effective reporter-format flag.
func (c *Config) GetGithubActions(cliValue bool) bool {
	return cliValue || c.Output.GithubActions
}

// GetShowStats returns the effective stats-printing flag: true if either the
// CLI flag or the config set it.
func (c *Config) GetShowStats(cliValue bool) bool {
	return cliValue || c.Output.ShowStats
}
