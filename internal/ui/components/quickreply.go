// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
)

// DefaultQuickReplies are the canned openers shown under the input.
var DefaultQuickReplies = []string{
	"👋 Hello",
	"😊 How are you?",
	"🤔 What's new?",
	"💬 Let's chat",
}

// =============================================================================
// QUICK REPLY ROW
// =============================================================================

// QuickReplies is a focusable row of one-tap reply buttons.
type QuickReplies struct {
	Replies []string
	Width   int

	focused  bool
	selected int

	theme *styles.Theme
}

// NewQuickReplies creates the row with the default replies.
func NewQuickReplies(theme *styles.Theme) *QuickReplies {
	return &QuickReplies{
		Replies: DefaultQuickReplies,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the row width.
func (q *QuickReplies) SetWidth(width int) {
	q.Width = width
}

// Focus moves keyboard focus onto the row.
func (q *QuickReplies) Focus() {
	q.focused = true
}

// Blur removes keyboard focus.
func (q *QuickReplies) Blur() {
	q.focused = false
}

// Focused reports whether the row has focus.
func (q *QuickReplies) Focused() bool {
	return q.focused
}

// Next moves the selection right, wrapping around.
func (q *QuickReplies) Next() {
	if len(q.Replies) == 0 {
		return
	}
	q.selected = (q.selected + 1) % len(q.Replies)
}

// Prev moves the selection left, wrapping around.
func (q *QuickReplies) Prev() {
	if len(q.Replies) == 0 {
		return
	}
	q.selected = (q.selected + len(q.Replies) - 1) % len(q.Replies)
}

// Selected returns the currently highlighted reply text.
func (q *QuickReplies) Selected() string {
	if q.selected < 0 || q.selected >= len(q.Replies) {
		return ""
	}
	return q.Replies[q.selected]
}

// View renders the reply buttons in a row.
func (q *QuickReplies) View() string {
	if len(q.Replies) == 0 {
		return ""
	}

	normal := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayDim).
		Padding(0, 1)

	focusedStyle := lipgloss.NewStyle().
		Foreground(styles.TextInverse).
		Background(styles.Pink).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Pink).
		Padding(0, 1).
		Bold(true)

	var buttons []string
	for i, reply := range q.Replies {
		if q.focused && i == q.selected {
			buttons = append(buttons, focusedStyle.Render(reply))
		} else {
			buttons = append(buttons, normal.Render(reply))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, buttons...)

	// Hide the row when the terminal is too narrow for all buttons.
	if lipgloss.Width(row) > q.Width {
		return ""
	}
	return row
}
