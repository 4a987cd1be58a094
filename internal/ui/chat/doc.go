// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package chat is the interactive chat screen: a bubbletea model that
// owns the conversation, dispatches requests off the event loop, and
// renders bubbles, the thinking indicator, quick replies, and the
// input area.
//
// Replies arrive asynchronously and are matched against the current
// turn number; a reply to a superseded turn is discarded so the screen
// never shows an answer to a question the user has moved past.
package chat
