// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the greeting box shown before the first message.
type Welcome struct {
	version string
	botName string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		botName: "CHAI Friend",
		theme:   theme,
	}
}

// SetVersion sets the version string shown in the footer.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetBotName sets the companion name shown in the greeting.
func (w *Welcome) SetBotName(name string) {
	w.botName = name
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Init implements tea.Model.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = size.Width
		w.height = size.Height
	}
	return w, nil
}

// View renders the welcome box centered in the available space.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 56
	if width < 64 {
		boxWidth = width - 8
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(boxWidth - 4).
		Align(lipgloss.Center)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center)

	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("CHAI"),
		subtitleStyle.Render("Chat with "+w.botName),
		"",
		subtitleStyle.Render("Type a message and press Enter."),
		hintStyle.Render("Use / for commands, /help for the full list."),
		"",
		hintStyle.Render(w.version),
	)

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Pink).
		Padding(1, 2).
		Width(boxWidth)

	box := boxStyle.Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
