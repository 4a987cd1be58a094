// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package format

import "strings"

// Emoticon maps a literal text token to its emoji replacement.
type Emoticon struct {
	Token string
	Emoji string
}

// EmoticonTable is the fixed substitution table, constant for the
// process lifetime. Order matters: longer tokens sharing a prefix with
// a shorter one (":-)" vs ":)", "</3" vs "<3") come first so they win
// at the same position.
var EmoticonTable = []Emoticon{
	{":-)", "😊"},
	{":-(", "😢"},
	{":-D", "😄"},
	{":-P", "😛"},
	{";-)", "😉"},
	{"</3", "💔"},
	{":)", "😊"},
	{":(", "😢"},
	{":D", "😄"},
	{":P", "😛"},
	{";)", "😉"},
	{":o", "😮"},
	{":O", "😮"},
	{"<3", "❤️"},
	{":*", "😘"},
}

// emojiReplacer is built once from EmoticonTable. strings.Replacer
// compares old strings in argument order, preserving the table's
// longest-token-first priority.
var emojiReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(EmoticonTable)*2)
	for _, e := range EmoticonTable {
		pairs = append(pairs, e.Token, e.Emoji)
	}
	return strings.NewReplacer(pairs...)
}()

// SubstituteEmoticons replaces emoticon tokens with emoji glyphs.
// Callers must not pass code span contents; the span parser already
// excludes them.
func SubstituteEmoticons(text string) string {
	return emojiReplacer.Replace(text)
}
