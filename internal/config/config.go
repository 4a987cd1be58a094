// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete client configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API configuration
	API APIConfig `toml:"api" json:"api"`

	// Persona configuration
	Persona PersonaConfig `toml:"persona" json:"persona"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// History configuration
	History HistoryConfig `toml:"history" json:"history"`
}

// APIConfig contains chat service connection settings.
type APIConfig struct {
	// BaseURL is the chat endpoint URL
	BaseURL string `toml:"base_url" json:"base_url"`
	// Key is the bearer token for the service
	Key string `toml:"key" json:"key"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the attempt bound for transient failures
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// PersonaConfig controls how the companion presents itself.
type PersonaConfig struct {
	// BotName is the companion's display name
	BotName string `toml:"bot_name" json:"bot_name"`
	// UserName is the user's display name
	UserName string `toml:"user_name" json:"user_name"`
	// SafetyPrompt is prepended as persona memory on every request
	SafetyPrompt string `toml:"safety_prompt" json:"safety_prompt"`
}

// UIConfig contains interface preferences.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps renders a timestamp under each bubble
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// QuickReplies shows the quick-reply shortcut row
	QuickReplies bool `toml:"quick_replies" json:"quick_replies"`
	// CompactMode tightens bubble spacing
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// HistoryConfig controls conversation persistence.
type HistoryConfig struct {
	// Enabled persists the active conversation between runs
	Enabled bool `toml:"enabled" json:"enabled"`
	// MaxConversations bounds the saved conversation count
	MaxConversations int `toml:"max_conversations" json:"max_conversations"`
}

// defaultSafetyPrompt frames the companion persona on every request.
const defaultSafetyPrompt = "You are a friendly, supportive companion. " +
	"Keep conversations positive and appropriate. Never provide harmful, " +
	"dangerous, or inappropriate content. Be warm, empathetic, and kind."

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "https://guanaco-submitter.chai-research.com/endpoints/onsite/chat",
			Key:         "",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},

		Persona: PersonaConfig{
			BotName:      "CHAI Friend",
			UserName:     "You",
			SafetyPrompt: defaultSafetyPrompt,
		},

		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
			QuickReplies:   true,
			CompactMode:    false,
		},

		History: HistoryConfig{
			Enabled:          true,
			MaxConversations: 100,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chai"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions tightens permissions on config files, which
// carry the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s). Tries TOML first,
// then JSON, and falls back to defaults. Environment overrides are
// applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// finishLoad applies overrides and validation after a file decode.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all filesystems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. JSON files are detected by extension; anything else is
// decoded as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.MaxRetries == 0 {
		cfg.API.MaxRetries = defaults.API.MaxRetries
	}

	if cfg.Persona.BotName == "" {
		cfg.Persona.BotName = defaults.Persona.BotName
	}
	if cfg.Persona.UserName == "" {
		cfg.Persona.UserName = defaults.Persona.UserName
	}
	if cfg.Persona.SafetyPrompt == "" {
		cfg.Persona.SafetyPrompt = defaults.Persona.SafetyPrompt
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	if cfg.History.MaxConversations == 0 {
		cfg.History.MaxConversations = defaults.History.MaxConversations
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600
// permissions, since it carries the API key.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# chai configuration file")
	fmt.Fprintln(file, "# Generated by chai - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file atomically with
// 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL != "" {
		if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: "must be a valid absolute URL",
			})
		}
	}

	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: "must be between 1 and 300",
		})
	}

	if c.API.MaxRetries < 1 || c.API.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "api.max_retries",
			Message: "must be between 1 and 10",
		})
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: "must be one of: dark, light, auto",
		})
	}

	if c.History.MaxConversations < 1 {
		errs = append(errs, ValidationError{
			Field:   "history.max_conversations",
			Message: "must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides. Env values
// win over file values so keys can stay out of config files entirely.
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("CHAI_API_KEY"); key != "" {
		c.API.Key = key
	}
	if baseURL := os.Getenv("CHAI_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if botName := os.Getenv("CHAI_BOT_NAME"); botName != "" {
		c.Persona.BotName = botName
	}
	if userName := os.Getenv("CHAI_USER_NAME"); userName != "" {
		c.Persona.UserName = userName
	}
	if theme := os.Getenv("CHAI_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// configKeys maps dot-notation keys to accessor pairs for the config
// CLI. Reflection is avoided; the key set is small and fixed.
var configKeys = map[string]struct {
	get func(*Config) string
	set func(*Config, string) error
}{
	"api.base_url": {
		get: func(c *Config) string { return c.API.BaseURL },
		set: func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.key": {
		get: func(c *Config) string { return maskKey(c.API.Key) },
		set: func(c *Config, v string) error { c.API.Key = v; return nil },
	},
	"api.timeout_secs": {
		get: func(c *Config) string { return util.IntToString(c.API.TimeoutSecs) },
		set: setInt(func(c *Config, n int) { c.API.TimeoutSecs = n }),
	},
	"api.max_retries": {
		get: func(c *Config) string { return util.IntToString(c.API.MaxRetries) },
		set: setInt(func(c *Config, n int) { c.API.MaxRetries = n }),
	},
	"persona.bot_name": {
		get: func(c *Config) string { return c.Persona.BotName },
		set: func(c *Config, v string) error { c.Persona.BotName = v; return nil },
	},
	"persona.user_name": {
		get: func(c *Config) string { return c.Persona.UserName },
		set: func(c *Config, v string) error { c.Persona.UserName = v; return nil },
	},
	"ui.theme": {
		get: func(c *Config) string { return c.UI.Theme },
		set: func(c *Config, v string) error { c.UI.Theme = v; return nil },
	},
	"ui.show_timestamps": {
		get: func(c *Config) string { return boolString(c.UI.ShowTimestamps) },
		set: setBool(func(c *Config, b bool) { c.UI.ShowTimestamps = b }),
	},
	"ui.quick_replies": {
		get: func(c *Config) string { return boolString(c.UI.QuickReplies) },
		set: setBool(func(c *Config, b bool) { c.UI.QuickReplies = b }),
	},
	"history.enabled": {
		get: func(c *Config) string { return boolString(c.History.Enabled) },
		set: setBool(func(c *Config, b bool) { c.History.Enabled = b }),
	},
	"history.max_conversations": {
		get: func(c *Config) string { return util.IntToString(c.History.MaxConversations) },
		set: setInt(func(c *Config, n int) { c.History.MaxConversations = n }),
	},
}

// Get retrieves a configuration value using dot notation
// (e.g. "persona.bot_name").
func (c *Config) Get(key string) (string, error) {
	entry, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return entry.get(c), nil
}

// Set updates a configuration value using dot notation. The new value
// is validated before it takes effect.
func (c *Config) Set(key, value string) error {
	entry, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	backup := *c
	if err := entry.set(c, value); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		*c = backup
		return err
	}
	return nil
}

// Keys returns the sorted list of settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setInt(assign func(*Config, int)) func(*Config, string) error {
	return func(c *Config, v string) error {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return fmt.Errorf("not an integer: %q", v)
		}
		assign(c, n)
		return nil
	}
}

func setBool(assign func(*Config, bool)) func(*Config, string) error {
	return func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "true", "1", "yes", "on":
			assign(c, true)
		case "false", "0", "no", "off":
			assign(c, false)
		default:
			return fmt.Errorf("not a boolean: %q", v)
		}
		return nil
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// maskKey hides the API key for display. Only presence and length are
// shown, never key material.
func maskKey(key string) string {
	if key == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[set, length=%d]", len(key))
}

// =============================================================================
// CLONE
// =============================================================================

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance. Loads on first
// access; thread-safe.
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

// ReloadGlobal reloads the global configuration from disk.
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

// SetGlobal sets the global configuration instance.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
