// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes the layout after a terminal size change.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.input.SetWidth(width)
	m.quickReplies.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.welcome.SetSize(width, height)
	m.messageList.SetWidth(width)

	chromeHeight := lipgloss.Height(m.input.View()) +
		lipgloss.Height(m.statusBar.View()) +
		lipgloss.Height(m.renderQuickReplies()) +
		2 // spinner line and separators

	viewportHeight := height - chromeHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	m.viewport.Width = width
	m.viewport.Height = viewportHeight
	m.ready = true

	m.refreshViewport()
}

// refreshViewport re-renders the message list into the viewport and
// follows the tail.
func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()

	m.messageList.SetMessages(m.conversation.Messages)
	m.statusBar.MessageCount = m.conversation.MessageCount()
	m.statusBar.TokenEstimate = m.conversation.TokensUsed
	m.viewport.SetContent(m.messageList.View())

	// Follow new messages unless the user scrolled back.
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Starting chai..."
	}

	if m.conversation.IsEmpty() {
		return m.renderWelcome()
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderActivityLine())
	b.WriteString("\n")
	b.WriteString(m.renderQuickReplies())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

// renderWelcome shows the greeting box with the input anchored below.
func (m *Model) renderWelcome() string {
	inputView := m.input.View()
	statusView := m.statusBar.View()
	quickView := m.renderQuickReplies()

	boxHeight := m.height -
		lipgloss.Height(inputView) -
		lipgloss.Height(statusView) -
		lipgloss.Height(quickView)
	if boxHeight < 1 {
		boxHeight = 1
	}

	m.welcome.SetSize(m.width, boxHeight)

	var b strings.Builder
	b.WriteString(m.welcome.View())
	b.WriteString("\n")
	b.WriteString(quickView)
	b.WriteString("\n")
	b.WriteString(inputView)
	b.WriteString("\n")
	b.WriteString(statusView)
	return b.String()
}

// renderQuickReplies hides the row when disabled in config.
func (m *Model) renderQuickReplies() string {
	if !m.cfg.UI.QuickReplies {
		return ""
	}
	return m.quickReplies.View()
}

// renderActivityLine shows the spinner while a reply is pending.
func (m *Model) renderActivityLine() string {
	if !m.spinner.Active() {
		return ""
	}
	return " " + m.spinner.View()
}
