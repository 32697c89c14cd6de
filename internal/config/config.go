// Package config loads kwtrie settings from .kwtrie/config.yaml.
//
// A missing file is not an error: every field has a default, and a file that
// sets only some keys keeps the defaults for the rest. Command-line flags are
// applied on top by the caller.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Symbol modes.
const (
	SymbolsByte = "byte"
	SymbolsRune = "rune"
)

// Engines.
const (
	EngineKwtrie    = "kwtrie"
	EngineReference = "reference"
)

// Config holds user-tunable settings.
type Config struct {
	CaseSensitive bool          `yaml:"case_sensitive"`
	Symbols       string        `yaml:"symbols"`
	LogLevel      string        `yaml:"log_level"`
	LogFile       string        `yaml:"log_file"`
	Dictionary    string        `yaml:"dictionary"`
	Engine        string        `yaml:"engine"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		CaseSensitive: true,
		Symbols:       SymbolsByte,
		LogLevel:      "warn",
		Engine:        EngineKwtrie,
		CacheTTL:      10 * time.Minute,
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Default(), errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

// Validate rejects unknown enum values and negative durations.
func (c Config) Validate() error {
	switch c.Symbols {
	case SymbolsByte, SymbolsRune:
	default:
		return errors.Errorf("symbols must be %q or %q, got %q", SymbolsByte, SymbolsRune, c.Symbols)
	}
	switch c.Engine {
	case EngineKwtrie, EngineReference:
	default:
		return errors.Errorf("engine must be %q or %q, got %q", EngineKwtrie, EngineReference, c.Engine)
	}
	if c.CacheTTL < 0 {
		return errors.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

// Write saves c as YAML, creating or truncating path.
func Write(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}
