// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package storage persists conversations as JSON files, one file per
// conversation under ~/.chai/conversations/, plus a current-session
// file that lets the active chat survive restarts.
//
// Writes go through an atomic temp-and-rename so a crash mid-save
// never corrupts an existing conversation file.
package storage
