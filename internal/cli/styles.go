// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
)

// Shared lipgloss styles for all CLI commands. Colors are disabled
// automatically for piped output and when NO_COLOR is set.
func init() {
	lipgloss.SetColorProfile(ColorProfile())
}

var (
	// titleStyle is used for command titles and the banner.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Pink)

	// labelStyle is used for field labels.
	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(20)

	// valueStyle is used for regular values.
	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// botStyle marks the companion's lines in the REPL.
	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Pink)

	// promptStyle renders the REPL prompt.
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Purple)

	// successStyle is used for confirmations.
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Emerald)

	// errorStyle is used for errors.
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Rose)

	// mutedStyle is used for hints and secondary text.
	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)
