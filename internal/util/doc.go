// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package util provides small shared helpers: atomic file writes,
// no-allocation numeric formatting, and width-aware string handling.
package util
