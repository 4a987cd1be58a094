// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/util"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// InputArea wraps the text input with a border, character counter, and
// a disabled state used while a reply is in flight.
type InputArea struct {
	input    textinput.Model
	maxChars int
	width    int
	focused  bool
	disabled bool

	theme *styles.Theme
}

// NewInputArea creates the message input.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type a message... (/ for commands)"
	ti.CharLimit = 4096
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Pink)

	return &InputArea{
		input:    ti,
		maxChars: 4096,
		width:    80,
		theme:    theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused reports whether the input has focus.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetDisabled blocks typing while a reply is pending. The drafted text
// is kept.
func (i *InputArea) SetDisabled(disabled bool) {
	i.disabled = disabled
}

// Disabled reports whether typing is blocked.
func (i *InputArea) Disabled() bool {
	return i.disabled
}

// Value returns the current input text.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue replaces the current input text.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// SetWidth sets the component width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inner := width - 8
	if inner < 20 {
		inner = 20
	}
	i.input.Width = inner
}

// Update handles input events. Keystrokes are dropped while disabled.
func (i *InputArea) Update(msg tea.Msg) tea.Cmd {
	if i.disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return nil
		}
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// View renders the bordered input with the character counter.
func (i *InputArea) View() string {
	borderColor := styles.OverlayDim
	if i.focused {
		borderColor = styles.FocusRing
	}

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(i.width - 2)

	box := boxStyle.Render(i.input.View())

	counter := i.renderCounter()
	if counter == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Right, box, counter)
}

// renderCounter shows remaining characters once the draft gets long.
func (i *InputArea) renderCounter() string {
	used := util.RuneLen(i.input.Value())
	if used < i.maxChars*3/4 {
		return ""
	}

	color := styles.TextMuted
	if used >= i.maxChars {
		color = styles.Rose
	}

	counterStyle := lipgloss.NewStyle().Foreground(color)
	return counterStyle.Render(util.IntToString(used) + "/" + util.IntToString(i.maxChars))
}

// IsBlank reports whether the input holds only whitespace.
func (i *InputArea) IsBlank() bool {
	return strings.TrimSpace(i.input.Value()) == ""
}
