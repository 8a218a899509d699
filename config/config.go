// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete shellkit configuration.
type Config struct {
	// Version of the config schema.
	Version string `toml:"version" json:"version"`

	// Prompt is the text displayed before each input line.
	Prompt string `toml:"prompt" json:"prompt"`

	// History configuration.
	History HistoryConfig `toml:"history" json:"history"`

	// Reader configuration (terminal key toggles).
	Reader ReaderConfig `toml:"reader" json:"reader"`

	// Completion configuration.
	Completion CompletionConfig `toml:"completion" json:"completion"`

	// NoColor disables colored output regardless of terminal detection.
	NoColor bool `toml:"no_color" json:"no_color"`
}

// HistoryConfig contains history persistence configuration.
type HistoryConfig struct {
	// File is the navigation history file for the line reader
	// (empty = default ~/.shellkit/history).
	File string `toml:"file" json:"file"`

	// Database is the SQLite store for executed lines
	// (empty = default ~/.shellkit/history.db).
	Database string `toml:"database" json:"database"`

	// Limit is the maximum number of in-memory history entries.
	Limit int `toml:"limit" json:"limit"`
}

// ReaderConfig contains the three line-reader key toggles, forwarded to
// the reader unchanged.
type ReaderConfig struct {
	// CtrlCAborts controls whether a break signal interrupts the read.
	CtrlCAborts bool `toml:"ctrl_c_aborts" json:"ctrl_c_aborts"`

	// EOFExits controls whether one end-of-input key means end-of-file.
	EOFExits bool `toml:"eof_exits" json:"eof_exits"`

	// AltEOFExits controls whether the platform's second end-of-input
	// key also means end-of-file.
	AltEOFExits bool `toml:"alt_eof_exits" json:"alt_eof_exits"`
}

// CompletionConfig contains completion display configuration.
type CompletionConfig struct {
	// MaxAlternatives caps how many candidates an alternatives listing
	// shows. Zero means unlimited.
	MaxAlternatives int `toml:"max_alternatives" json:"max_alternatives"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultHistoryLimit bounds in-memory history.
	DefaultHistoryLimit = 1000

	// MaxHistoryLimit is the clamp ceiling for history.limit.
	MaxHistoryLimit = 100000
)

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Prompt:  "> ",
		History: HistoryConfig{
			Limit: DefaultHistoryLimit,
		},
		Reader: ReaderConfig{
			CtrlCAborts: true,
			EOFExits:    true,
			AltEOFExits: true,
		},
		Completion: CompletionConfig{
			MaxAlternatives: 50,
		},
	}
}

// =============================================================================
// FILE LOCATIONS
// =============================================================================

// ConfigDir returns the shellkit configuration directory (~/.shellkit).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shellkit"), nil
}

// ConfigPathTOML returns the TOML config file path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the JSON config file path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the config directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last, then validation.
func Load() (*Config, error) {
	cfg := Default()

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finish(cfg)
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadJSON(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from an explicit file, picking the
// decoder from the extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes cfg to the TOML config path with owner-only permissions.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// =============================================================================
// DEFAULTS, VALIDATION, ENV OVERRIDES
// =============================================================================

// SetDefaults fills blank fields with usable values.
func (c *Config) SetDefaults() {
	if c.Prompt == "" {
		c.Prompt = "> "
	}
	if c.History.Limit == 0 {
		c.History.Limit = DefaultHistoryLimit
	}
	if c.History.File == "" {
		if dir, err := ConfigDir(); err == nil {
			c.History.File = filepath.Join(dir, "history")
		}
	}
	if c.History.Database == "" {
		if dir, err := ConfigDir(); err == nil {
			c.History.Database = filepath.Join(dir, "history.db")
		}
	}
}

// Validate checks and clamps configuration values.
func (c *Config) Validate() error {
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative: %d", c.History.Limit)
	}
	if c.History.Limit > MaxHistoryLimit {
		c.History.Limit = MaxHistoryLimit
	}
	if c.Completion.MaxAlternatives < 0 {
		return fmt.Errorf("completion.max_alternatives must not be negative: %d", c.Completion.MaxAlternatives)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - SHELLKIT_PROMPT: overrides prompt
//   - SHELLKIT_HISTORY_FILE: overrides history.file
//   - SHELLKIT_HISTORY_DB: overrides history.database
//   - SHELLKIT_CTRL_C_ABORTS: "1"/"true" or "0"/"false"
//   - SHELLKIT_EOF_EXITS: "1"/"true" or "0"/"false"
//   - SHELLKIT_NO_COLOR: "1"/"true" disables colored output
func (c *Config) ApplyEnvOverrides() {
	if prompt := os.Getenv("SHELLKIT_PROMPT"); prompt != "" {
		c.Prompt = prompt
	}
	if file := os.Getenv("SHELLKIT_HISTORY_FILE"); file != "" {
		c.History.File = file
	}
	if db := os.Getenv("SHELLKIT_HISTORY_DB"); db != "" {
		c.History.Database = db
	}
	if v := os.Getenv("SHELLKIT_CTRL_C_ABORTS"); v != "" {
		c.Reader.CtrlCAborts = isTruthy(v)
	}
	if v := os.Getenv("SHELLKIT_EOF_EXITS"); v != "" {
		c.Reader.EOFExits = isTruthy(v)
	}
	if v := os.Getenv("SHELLKIT_NO_COLOR"); v != "" {
		c.NoColor = isTruthy(v)
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	// Consume the loader so a later Global() does not overwrite cfg.
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
