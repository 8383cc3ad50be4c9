package linter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/inclint/pkg/includeorder"
)

// ConfigFileNames are searched, in order, by LoadConfigFromDir
var ConfigFileNames = []string{"inclint.yaml", "inclint.yml", ".inclint.yaml", ".inclint.yml"}

// Config represents the linting configuration
type Config struct {
	Version string        `yaml:"version"`
	Debug   bool          `yaml:"debug"`
	Lint    LintRules     `yaml:"lint"`
	AutoFix AutoFixConfig `yaml:"autofix"`
}

// LintRules contains rule configuration
type LintRules struct {
	Rules            map[string]bool      `yaml:"rules"`
	Severity         map[string]Severity  `yaml:"severity"`
	Ignore           []string             `yaml:"ignore"`
	Extensions       []string             `yaml:"extensions"`
	AssociatedHeader string               `yaml:"associated_header"`
	Files            map[string]FileRules `yaml:"files"`
}

// FileRules contains per-file rule overrides, keyed by glob
type FileRules struct {
	Rules map[string]bool `yaml:"rules"`
}

// AutoFixConfig configures automatic fixing
type AutoFixConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns default linting configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "v1",
		Lint: LintRules{
			Rules:            make(map[string]bool),
			Severity:         make(map[string]Severity),
			Ignore:           []string{"vendor/**", "third_party/**"},
			AssociatedHeader: string(includeorder.AssociatedHeaderFirst),
			Files:            make(map[string]FileRules),
		},
	}
}

// LoadConfig loads configuration from a file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// LoadConfigFromDir searches for a config file in dir
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadConfig(p)
		}
	}

	return DefaultConfig(), nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	if c.Version != "" && c.Version != "v1" {
		return fmt.Errorf("unsupported config version %q", c.Version)
	}
	if _, err := includeorder.ParseAssociatedHeaderMode(c.Lint.AssociatedHeader); err != nil {
		return err
	}
	for rule, sev := range c.Lint.Severity {
		if !sev.Valid() {
			return fmt.Errorf("rule %s: unknown severity %q", rule, sev)
		}
	}
	for _, pattern := range c.Lint.Ignore {
		if _, err := path.Match(strings.Trim(pattern, "*/"), ""); err != nil {
			return fmt.Errorf("bad ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// AssociatedHeaderMode returns the parsed associated header mode
func (c *Config) AssociatedHeaderMode() includeorder.AssociatedHeaderMode {
	mode, err := includeorder.ParseAssociatedHeaderMode(c.Lint.AssociatedHeader)
	if err != nil {
		return includeorder.AssociatedHeaderFirst
	}
	return mode
}

// RuleEnabled reports whether rule applies to file. Per-file overrides win
// over the global toggle; rules are on unless disabled.
func (c *Config) RuleEnabled(rule, file string) bool {
	enabled := true
	if v, ok := c.Lint.Rules[rule]; ok {
		enabled = v
	}

	patterns := make([]string, 0, len(c.Lint.Files))
	for pattern := range c.Lint.Files {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	for _, pattern := range patterns {
		if !MatchGlob(pattern, file) {
			continue
		}
		if v, ok := c.Lint.Files[pattern].Rules[rule]; ok {
			enabled = v
		}
	}
	return enabled
}

// SeverityFor returns the configured severity for rule, or def
func (c *Config) SeverityFor(rule string, def Severity) Severity {
	if sev, ok := c.Lint.Severity[rule]; ok && sev.Valid() {
		return sev
	}
	return def
}

// Ignored reports whether rel, a slash or OS separated path relative to
// the lint root, matches an ignore pattern
func (c *Config) Ignored(rel string) bool {
	for _, pattern := range c.Lint.Ignore {
		if MatchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// Fingerprint identifies the settings that influence lint output
func (c *Config) Fingerprint() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// MatchGlob matches rel against pattern. Besides path.Match syntax it
// understands a leading "**/" (any directory depth) and a trailing "/**"
// (anything below a directory).
func MatchGlob(pattern, rel string) bool {
	pattern = filepath.ToSlash(pattern)
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")

	if strings.HasPrefix(pattern, "**/") {
		sub := pattern[3:]
		parts := strings.Split(rel, "/")
		for i := range parts {
			if MatchGlob(sub, strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		parts := strings.Split(rel, "/")
		for i := 1; i <= len(parts); i++ {
			if ok, _ := path.Match(prefix, strings.Join(parts[:i], "/")); ok {
				return true
			}
		}
		return false
	}

	ok, _ := path.Match(pattern, rel)
	return ok
}
