// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package styles provides the visual styling system for the chat TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection, keyed to the CHAI pink/purple companion palette.
package styles
