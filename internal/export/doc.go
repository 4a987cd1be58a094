// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package export writes conversations to shareable files. Markdown
// keeps the chat readable as a document; JSON keeps it loadable by
// other tools.
package export
