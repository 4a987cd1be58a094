// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package cli parses command-line arguments and implements the
// non-TUI commands: one-shot questions, the line-based chat REPL,
// session management, and configuration editing.
package cli
