// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package config provides unified configuration loading and management
// for the chat client.
//
// Supports both TOML and JSON formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.chai/config.toml
//   - ~/.chai/config.json
//   - Built-in defaults
package config
