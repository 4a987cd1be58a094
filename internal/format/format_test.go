// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package format

import (
	"strings"
	"testing"
)

func spanKinds(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch {
		case s.Code:
			b.WriteString("c")
		case s.Bold && s.Italic:
			b.WriteString("x")
		case s.Bold:
			b.WriteString("b")
		case s.Italic:
			b.WriteString("i")
		default:
			b.WriteString("t")
		}
	}
	return b.String()
}

func TestParseSpans_PlainTextUnchanged(t *testing.T) {
	spans := ParseSpans("just some ordinary text")
	if spanKinds(spans) != "t" {
		t.Fatalf("kinds = %q", spanKinds(spans))
	}
	if spans[0].Content != "just some ordinary text" {
		t.Errorf("content = %q", spans[0].Content)
	}
}

func TestParseSpans_Bold(t *testing.T) {
	spans := ParseSpans("say **hello** now")
	if spanKinds(spans) != "tbt" {
		t.Fatalf("kinds = %q", spanKinds(spans))
	}
	if spans[1].Content != "hello" {
		t.Errorf("bold content = %q", spans[1].Content)
	}
}

func TestParseSpans_Italic(t *testing.T) {
	spans := ParseSpans("say *hello* now")
	if spanKinds(spans) != "tit" {
		t.Fatalf("kinds = %q", spanKinds(spans))
	}
	if spans[1].Content != "hello" {
		t.Errorf("italic content = %q", spans[1].Content)
	}
}

func TestParseSpans_ItalicInsideBold(t *testing.T) {
	spans := ParseSpans("**a *b* c**")
	if spanKinds(spans) != "bxb" {
		t.Fatalf("kinds = %q", spanKinds(spans))
	}
	if spans[1].Content != "b" {
		t.Errorf("nested content = %q", spans[1].Content)
	}
}

func TestParseSpans_CodePrecedence(t *testing.T) {
	// Asterisks inside a code span stay literal.
	spans := ParseSpans("`**not bold**`")
	if spanKinds(spans) != "c" {
		t.Fatalf("kinds = %q", spanKinds(spans))
	}
	if spans[0].Content != "**not bold**" {
		t.Errorf("code content = %q", spans[0].Content)
	}
}

func TestParseSpans_NoEmojiInCode(t *testing.T) {
	spans := ParseSpans("`<3`")
	if spanKinds(spans) != "c" {
		t.Fatalf("kinds = %q", spanKinds(spans))
	}
	if spans[0].Content != "<3" {
		t.Errorf("code content = %q, emoticon must stay literal", spans[0].Content)
	}
}

func TestParseSpans_EmojiOutsideCode(t *testing.T) {
	spans := ParseSpans("love you <3 always :)")
	if len(spans) != 1 {
		t.Fatalf("spans = %d", len(spans))
	}
	got := spans[0].Content
	if !strings.Contains(got, "❤️") || !strings.Contains(got, "😊") {
		t.Errorf("content = %q", got)
	}
	if strings.Contains(got, "<3") || strings.Contains(got, ":)") {
		t.Errorf("source tokens survived: %q", got)
	}
}

func TestParseSpans_UnbalancedDelimitersLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lone backtick", "has ` one backtick"},
		{"lone double asterisk", "has ** one marker"},
		{"lone asterisk", "has * one marker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := ParseSpans(tt.input)
			var joined strings.Builder
			for _, s := range spans {
				if s.Code || s.Bold || s.Italic {
					t.Errorf("unbalanced input produced styled span %+v", s)
				}
				joined.WriteString(s.Content)
			}
			if joined.String() != tt.input {
				t.Errorf("got %q, want input unchanged", joined.String())
			}
		})
	}
}

func TestEmoticonTableComplete(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":)", "😊"}, {":-)", "😊"},
		{":(", "😢"}, {":-(", "😢"},
		{":D", "😄"}, {":-D", "😄"},
		{":P", "😛"}, {":-P", "😛"},
		{";)", "😉"}, {";-)", "😉"},
		{":o", "😮"}, {":O", "😮"},
		{"<3", "❤️"}, {"</3", "💔"},
		{":*", "😘"},
	}
	for _, tt := range tests {
		if got := SubstituteEmoticons(tt.in); got != tt.want {
			t.Errorf("SubstituteEmoticons(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmoticonLongestTokenWins(t *testing.T) {
	// ":-)" must not decompose into ":-" + "😊"-for-")".
	if got := SubstituteEmoticons("hi :-) there"); got != "hi 😊 there" {
		t.Errorf("got %q", got)
	}
	// "</3" must not match as "<3" inside it.
	if got := SubstituteEmoticons("sad </3 day"); got != "sad 💔 day" {
		t.Errorf("got %q", got)
	}
}

func TestPlainTextIdempotent(t *testing.T) {
	// Output free of source tokens formats to itself.
	once := PlainText("**bold** and `code` and :)")
	twice := PlainText(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestPlainTextTokenFreePassthrough(t *testing.T) {
	input := "already clean text with 😊 emoji"
	if got := PlainText(input); got != input {
		t.Errorf("token-free input changed: %q", got)
	}
}

func TestFormatInline_TokenFreePassthrough(t *testing.T) {
	f := New()
	input := "nothing to substitute here"
	if got := f.FormatInline(input); got != input {
		t.Errorf("token-free input changed: %q", got)
	}
}

func TestFormat_FencedBlockContentsExcluded(t *testing.T) {
	f := New()
	out := f.Format("before\n```\nkept <3\n```\nafter :)")
	// The emoticon inside the block must not become a heart. Chroma may
	// interleave color codes, so check for the substitution instead of
	// the literal token.
	if strings.Contains(out, "❤") {
		t.Errorf("fenced contents were substituted:\n%s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("fenced contents missing:\n%s", out)
	}
	// Text after the block is still substituted.
	if !strings.Contains(out, "😊") {
		t.Errorf("text outside block not substituted:\n%s", out)
	}
}

func TestFormat_UnclosedFenceStillRendered(t *testing.T) {
	f := New()
	out := f.Format("```go\nfmt.Println(1)")
	if !strings.Contains(out, "Println") {
		t.Errorf("unclosed fence dropped content:\n%s", out)
	}
}

func TestCodeBlockRenderPlain(t *testing.T) {
	cb := NewCodeBlock("", "x = 1")
	out := cb.Render()
	if !strings.Contains(out, "x = 1") {
		t.Errorf("code missing from render:\n%s", out)
	}
}
