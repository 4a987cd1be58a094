// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package model contains the data structures for conversations and
// messages.
package model
