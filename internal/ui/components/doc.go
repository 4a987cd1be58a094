// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package components provides the visual building blocks for the chai
// TUI: message bubbles, the welcome screen, the input area, the
// thinking spinner, quick replies, and the status bar.
package components
