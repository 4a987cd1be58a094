// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

// Package format transforms raw chat text into styled terminal output.
//
// The transform applies, in fixed priority order: inline code spans
// (contents excluded from all further substitution), bold, italic,
// then emoticon-to-emoji substitution outside code spans. Fenced code
// blocks get chroma syntax highlighting. The transform is pure and
// never fails; malformed or unbalanced delimiters are left as literal
// text.
package format
