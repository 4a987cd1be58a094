// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package commands implements the slash command system: parsing user
// input that starts with "/", a registry of built-in commands, and
// handlers that emit bubbletea messages for the chat screen to act on.
package commands
