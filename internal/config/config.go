// Package config loads tmux-jump configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by cmd)
//  2. Environment variables (TMUX_JUMP_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. .tmux-jump.yaml in current directory
//  2. ~/.config/tmux-jump/config.yaml
//  3. ~/.config/tmux-jump/config.toml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/timvw/tmux-jump/internal/model"
)

// Config holds all tmux-jump configuration.
type Config struct {
	// Multiplexer: "tmux" or "auto".
	Mux string `yaml:"mux" toml:"mux"`

	// Matching
	Match       string `yaml:"match" toml:"match"`     // "substring" (default) or "exact"
	Locator     string `yaml:"locator" toml:"locator"` // "pid" (default) or "command"
	MaxDepth    int    `yaml:"max_depth" toml:"max_depth"`
	IncludeSelf bool   `yaml:"include_self" toml:"include_self"`

	// Chooser
	Pick  bool   `yaml:"pick" toml:"pick"`
	Theme string `yaml:"theme" toml:"theme"` // "dark" (default) or "light"

	LogLevel string `yaml:"log_level" toml:"log_level"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint" toml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers" toml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed enums (not from the file, set by Validate)
	Policy      model.MatchPolicy `yaml:"-" toml:"-"`
	LocatorKind model.LocatorKind `yaml:"-" toml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-" toml:"-"`
}

// DefaultMaxDepth matches proctable.DefaultMaxDepth.
const DefaultMaxDepth = 32

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Mux:         "auto",
		Match:       string(model.MatchSubstring),
		Locator:     string(model.LocatorPID),
		MaxDepth:    DefaultMaxDepth,
		Theme:       "dark",
		LogLevel:    "warn",
		Policy:      model.MatchSubstring,
		LocatorKind: model.LocatorPID,
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	path, data, err := findConfigFile()
	if err == nil {
		fileCfg, err := decode(path, data)
		if err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
		mergeFile(cfg, fileCfg)
	}

	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and fills the parsed fields. It is rerun
// after flags are applied.
func (c *Config) Validate() error {
	policy, err := model.ParseMatchPolicy(c.Match)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	locator, err := model.ParseLocatorKind(c.Locator)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Mux) {
	case "", "auto", "tmux":
	default:
		return fmt.Errorf("config: unknown mux %q (supported: tmux, auto)", c.Mux)
	}
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("config: unknown theme %q (supported: dark, light)", c.Theme)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("config: max_depth must not be negative, got %d", c.MaxDepth)
	}
	c.Policy = policy
	c.LocatorKind = locator
	return nil
}

// decode parses YAML or TOML depending on the file extension.
func decode(path string, data []byte) (*Config, error) {
	var fileCfg Config
	if filepath.Ext(path) == ".toml" {
		if _, err := toml.Decode(string(data), &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		return &fileCfg, nil
	}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fileCfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".tmux-jump.yaml"); err == nil {
		return ".tmux-jump.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "tmux-jump")
		for _, name := range []string{"config.yaml", "config.toml"} {
			path := filepath.Join(dir, name)
			if data, err := os.ReadFile(path); err == nil {
				return path, data, nil
			}
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Mux != "" {
		cfg.Mux = file.Mux
	}
	if file.Match != "" {
		cfg.Match = file.Match
	}
	if file.Locator != "" {
		cfg.Locator = file.Locator
	}
	if file.MaxDepth > 0 {
		cfg.MaxDepth = file.MaxDepth
	}
	if file.IncludeSelf {
		cfg.IncludeSelf = true
	}
	if file.Pick {
		cfg.Pick = true
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) error {
	strs := map[string]*string{
		"TMUX_JUMP_MUX":               &cfg.Mux,
		"TMUX_JUMP_MATCH":             &cfg.Match,
		"TMUX_JUMP_LOCATOR":           &cfg.Locator,
		"TMUX_JUMP_THEME":             &cfg.Theme,
		"TMUX_JUMP_LOG_LEVEL":         &cfg.LogLevel,
		"OTEL_EXPORTER_OTLP_ENDPOINT": &cfg.OTELEndpoint,
		"OTEL_EXPORTER_OTLP_HEADERS":  &cfg.OTELHeaders,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"TMUX_JUMP_INCLUDE_SELF": &cfg.IncludeSelf,
		"TMUX_JUMP_PICK":         &cfg.Pick,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = b
	}

	if v := os.Getenv("TMUX_JUMP_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TMUX_JUMP_MAX_DEPTH %q: %w", v, err)
		}
		cfg.MaxDepth = n
	}
	return nil
}
