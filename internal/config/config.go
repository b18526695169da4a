// Package config loads the optional lox YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides DefaultPath.
const EnvVar = "LOX_CONFIG"

// Config holds settings shared by the CLI and REPL. Flags override it.
type Config struct {
	DB                 string `yaml:"db"`
	PersistMode        string `yaml:"persist_mode"`
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	Color              bool   `yaml:"color"`
	NoPrelude          bool   `yaml:"no_prelude"`
	Prelude            string `yaml:"prelude"` // path to a prelude source file
	HistoryLimit       int    `yaml:"history_limit"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:                 "lox.db",
		PersistMode:        "on_demand",
		Prompt:             ">>> ",
		ContinuationPrompt: "... ",
		Color:              true,
		HistoryLimit:       500,
	}
}

// DefaultPath returns $LOX_CONFIG, or config.yaml under the user config dir.
func DefaultPath() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lox", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r into cfg; fields absent from the document keep
// their current values. Unknown fields are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.PersistMode = strings.TrimSpace(cfg.PersistMode)
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	return nil
}
