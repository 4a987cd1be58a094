// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
)

// Formatter renders chat text for the terminal. It is stateless apart
// from its style configuration and safe to share.
type Formatter struct {
	width int

	boldStyle   lipgloss.Style
	italicStyle lipgloss.Style
	codeStyle   lipgloss.Style
}

// New creates a formatter with the default styles.
func New() *Formatter {
	return &Formatter{
		width:       80,
		boldStyle:   lipgloss.NewStyle().Bold(true),
		italicStyle: lipgloss.NewStyle().Italic(true),
		codeStyle: lipgloss.NewStyle().
			Background(styles.SurfaceDim).
			Foreground(styles.Cyan).
			Padding(0, 1),
	}
}

// WithWidth sets the maximum width used for fenced code blocks.
func (f *Formatter) WithWidth(width int) *Formatter {
	f.width = width
	return f
}

// Format transforms raw text into styled terminal output: fenced code
// blocks first, then inline substitution on everything between them.
func (f *Formatter) Format(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	var plain []string
	var codeLines []string
	var language string
	inCodeBlock := false

	flushPlain := func() {
		if len(plain) > 0 {
			result = append(result, f.FormatInline(strings.Join(plain, "\n")))
			plain = nil
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCodeBlock {
				block := NewCodeBlock(language, strings.Join(codeLines, "\n"))
				block.MaxWidth = f.width
				result = append(result, block.Render())
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				flushPlain()
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
			continue
		}
		if inCodeBlock {
			codeLines = append(codeLines, line)
		} else {
			plain = append(plain, line)
		}
	}

	// Unclosed fence: render what accumulated rather than dropping it.
	if inCodeBlock && len(codeLines) > 0 {
		block := NewCodeBlock(language, strings.Join(codeLines, "\n"))
		block.MaxWidth = f.width
		result = append(result, block.Render())
	}
	flushPlain()

	return strings.Join(result, "\n")
}

// FormatInline applies inline substitution only: code spans, bold,
// italic, emoticons. Used for single-line contexts like previews.
func (f *Formatter) FormatInline(text string) string {
	var b strings.Builder
	for _, span := range ParseSpans(text) {
		b.WriteString(f.renderSpan(span))
	}
	return b.String()
}

func (f *Formatter) renderSpan(span Span) string {
	switch {
	case span.Code:
		return f.codeStyle.Render(span.Content)
	case span.Bold && span.Italic:
		return f.boldStyle.Italic(true).Render(span.Content)
	case span.Bold:
		return f.boldStyle.Render(span.Content)
	case span.Italic:
		return f.italicStyle.Render(span.Content)
	default:
		return span.Content
	}
}

// PlainText strips all delimiters and applies emoticon substitution
// without any terminal styling. Used where ANSI sequences are
// unwanted, such as exports and the line-mode REPL.
func PlainText(text string) string {
	var b strings.Builder
	for _, span := range ParseSpans(text) {
		b.WriteString(span.Content)
	}
	return b.String()
}
