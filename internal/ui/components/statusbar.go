// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status is the connection/activity state shown in the bar.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status, distinct from color
// for colorblind users.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar is the bottom bar: status on the left, message count in
// the middle, shortcuts on the right.
type StatusBar struct {
	Status        Status
	BotName       string
	MessageCount  int
	TokenEstimate int
	Width         int
	ShowShortcuts bool

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		BotName:       "CHAI Friend",
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth sets the bar width.
func (sb *StatusBar) SetWidth(width int) {
	sb.Width = width
}

// View renders the status bar.
func (sb *StatusBar) View() string {
	left := sb.renderStatus()
	middle := sb.renderCounts()
	right := ""
	if sb.ShowShortcuts {
		right = sb.renderShortcuts()
	}

	gap := sb.Width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 2 {
		// Not enough room; drop the shortcuts first.
		right = ""
		gap = sb.Width - lipgloss.Width(left) - lipgloss.Width(middle)
	}
	if gap < 0 {
		gap = 0
	}

	leftGap := gap / 2
	rightGap := gap - leftGap

	bar := left + strings.Repeat(" ", leftGap) + middle + strings.Repeat(" ", rightGap) + right

	barStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(sb.Width)

	return barStyle.Render(bar)
}

func (sb *StatusBar) renderStatus() string {
	var color lipgloss.AdaptiveColor
	switch sb.Status {
	case StatusReady:
		color = styles.SuccessHighContrast
	case StatusThinking:
		color = styles.Amber
	case StatusError:
		color = styles.ErrorHighContrast
	default:
		color = styles.TextMuted
	}

	statusStyle := lipgloss.NewStyle().
		Foreground(color).
		Background(styles.SurfaceDim).
		Bold(true).
		Padding(0, 1)

	return statusStyle.Render(sb.Status.Icon() + " " + sb.Status.String())
}

func (sb *StatusBar) renderCounts() string {
	countStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Background(styles.SurfaceDim)

	text := util.IntToString(sb.MessageCount) + " messages"
	if sb.TokenEstimate > 0 {
		text += " | ~" + util.IntToString(sb.TokenEstimate) + " tokens"
	}
	return countStyle.Render(text)
}

func (sb *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Pink).
		Background(styles.SurfaceDim).
		Bold(true)
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Background(styles.SurfaceDim)

	shortcuts := []struct{ key, label string }{
		{"enter", "send"},
		{"tab", "quick replies"},
		{"esc", "cancel"},
		{"ctrl+c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, keyStyle.Render(s.key)+labelStyle.Render(" "+s.label))
	}
	return strings.Join(parts, labelStyle.Render("  ")) + " "
}
