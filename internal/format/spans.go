// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package format

import "strings"

// Span is one styled run of inline text.
type Span struct {
	Code    bool // contents are verbatim, no further substitution
	Bold    bool
	Italic  bool
	Content string
}

// ParseSpans splits text into styled inline spans, applying the fixed
// priority order: code first, then bold, then italic, then emoticon
// substitution on everything outside code. Substituted output is never
// rescanned, so the transform cannot double-apply. Unbalanced
// delimiters stay literal.
func ParseSpans(text string) []Span {
	var spans []Span
	for _, p := range splitDelimited(text, "`") {
		if p.delimited {
			spans = append(spans, Span{Code: true, Content: p.content})
			continue
		}
		spans = append(spans, parseEmphasis(p.content)...)
	}
	return spans
}

// parseEmphasis handles bold then italic within a non-code run, with
// emoticon substitution applied to the final contents.
func parseEmphasis(text string) []Span {
	var spans []Span
	for _, b := range splitDelimited(text, "**") {
		for _, i := range splitDelimited(b.content, "*") {
			content := SubstituteEmoticons(i.content)
			if content == "" && !b.delimited && !i.delimited {
				continue
			}
			spans = append(spans, Span{
				Bold:    b.delimited,
				Italic:  i.delimited,
				Content: content,
			})
		}
	}
	return spans
}

// piece is one segment of a delimiter split.
type piece struct {
	delimited bool
	content   string
}

// splitDelimited splits s on balanced pairs of delim. Content between
// a pair is marked delimited; an opener with no closer is left in the
// literal text untouched.
func splitDelimited(s, delim string) []piece {
	var pieces []piece
	for {
		open := strings.Index(s, delim)
		if open < 0 {
			break
		}
		rest := s[open+len(delim):]
		close := strings.Index(rest, delim)
		if close < 0 {
			break
		}
		if open > 0 {
			pieces = append(pieces, piece{content: s[:open]})
		}
		pieces = append(pieces, piece{delimited: true, content: rest[:close]})
		s = rest[close+len(delim):]
	}
	if s != "" || len(pieces) == 0 {
		pieces = append(pieces, piece{content: s})
	}
	return pieces
}
