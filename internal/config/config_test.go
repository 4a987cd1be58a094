// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "CHAI Friend", cfg.Persona.BotName)
	assert.Equal(t, "You", cfg.Persona.UserName)
	assert.NotEmpty(t, cfg.Persona.SafetyPrompt)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 100, cfg.History.MaxConversations)

	require.NoError(t, cfg.Validate())
}

func TestFillDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Persona.BotName = "Mochi"

	require.NoError(t, fillDefaults(cfg))

	assert.Equal(t, "Mochi", cfg.Persona.BotName)
	assert.Equal(t, "You", cfg.Persona.UserName)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.Key = "secret-token"
	cfg.Persona.BotName = "Mochi"
	cfg.UI.Theme = "dark"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", loaded.API.Key)
	assert.Equal(t, "Mochi", loaded.Persona.BotName)
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.Equal(t, cfg.History.MaxConversations, loaded.History.MaxConversations)
}

func TestSaveJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.API.Key = "json-token"
	require.NoError(t, SaveJSON(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "json-token", loaded.API.Key)
	assert.Equal(t, cfg.Persona.BotName, loaded.Persona.BotName)
}

func TestLoadFromPathPartialTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	partial := "[persona]\nbot_name = \"Pixel\"\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0600))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Pixel", loaded.Persona.BotName)
	assert.Equal(t, 30, loaded.API.TimeoutSecs)
	assert.Equal(t, "auto", loaded.UI.Theme)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, "api.base_url"},
		{"timeout too low", func(c *Config) { c.API.TimeoutSecs = 0 }, "api.timeout_secs"},
		{"timeout too high", func(c *Config) { c.API.TimeoutSecs = 301 }, "api.timeout_secs"},
		{"retries too high", func(c *Config) { c.API.MaxRetries = 11 }, "api.max_retries"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"no conversations", func(c *Config) { c.History.MaxConversations = 0 }, "history.max_conversations"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			found := false
			for _, ve := range verrs {
				if ve.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected validation error for %s, got %v", tc.field, err)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.API.TimeoutSecs = 0
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "api.timeout_secs")
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CHAI_API_KEY", "env-key")
	t.Setenv("CHAI_BOT_NAME", "EnvBot")
	t.Setenv("CHAI_THEME", "light")

	cfg := Default()
	cfg.API.Key = "file-key"
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, "EnvBot", cfg.Persona.BotName)
	assert.Equal(t, "light", cfg.UI.Theme)
	// Unset vars leave file values alone.
	assert.Equal(t, "You", cfg.Persona.UserName)
}

func TestGet(t *testing.T) {
	cfg := Default()
	cfg.Persona.BotName = "Mochi"

	got, err := cfg.Get("persona.bot_name")
	require.NoError(t, err)
	assert.Equal(t, "Mochi", got)

	got, err = cfg.Get("api.timeout_secs")
	require.NoError(t, err)
	assert.Equal(t, "30", got)

	_, err = cfg.Get("nope.nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestGetMasksAPIKey(t *testing.T) {
	cfg := Default()

	got, err := cfg.Get("api.key")
	require.NoError(t, err)
	assert.Equal(t, "[not set]", got)

	cfg.API.Key = "super-secret"
	got, err = cfg.Get("api.key")
	require.NoError(t, err)
	assert.NotContains(t, got, "super-secret")
	assert.Contains(t, got, "length=12")
}

func TestSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("persona.bot_name", "Mochi"))
	assert.Equal(t, "Mochi", cfg.Persona.BotName)

	require.NoError(t, cfg.Set("api.timeout_secs", "60"))
	assert.Equal(t, 60, cfg.API.TimeoutSecs)

	require.NoError(t, cfg.Set("ui.show_timestamps", "off"))
	assert.False(t, cfg.UI.ShowTimestamps)

	err := cfg.Set("api.timeout_secs", "soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestSetRollsBackOnInvalid(t *testing.T) {
	cfg := Default()

	err := cfg.Set("ui.theme", "neon")
	require.Error(t, err)
	assert.Equal(t, "auto", cfg.UI.Theme)

	err = cfg.Set("api.max_retries", "99")
	require.Error(t, err)
	assert.Equal(t, 3, cfg.API.MaxRetries)
}

func TestKeys(t *testing.T) {
	keys := Keys()

	assert.True(t, sort.StringsAreSorted(keys))
	assert.Contains(t, keys, "api.key")
	assert.Contains(t, keys, "persona.bot_name")
	assert.Contains(t, keys, "history.max_conversations")
	assert.Len(t, keys, len(configKeys))
}

func TestClone(t *testing.T) {
	cfg := Default()
	cfg.API.Key = "original"

	clone := cfg.Clone()
	clone.API.Key = "changed"
	clone.Persona.BotName = "Other"

	assert.Equal(t, "original", cfg.API.Key)
	assert.Equal(t, "CHAI Friend", cfg.Persona.BotName)
}

func TestGlobal(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	custom := Default()
	custom.Persona.BotName = "GlobalBot"
	SetGlobal(custom)

	assert.Equal(t, "GlobalBot", Global().Persona.BotName)
	assert.Same(t, custom, Global())
}

func TestSaveTOMLHeaderComment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# chai configuration file"))
}
