// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/util"
)

// =============================================================================
// THINKING SPINNER
// =============================================================================

// Spinner is the animated indicator shown while a reply is pending.
type Spinner struct {
	spinner spinner.Model

	message   string
	startTime time.Time

	isActive  bool
	showTimer bool
}

// NewSpinner creates a spinner with ASCII-safe frames.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Pink)

	return Spinner{
		spinner:   s,
		message:   "Thinking",
		showTimer: true,
	}
}

// SetMessage sets the label shown next to the animation.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Start activates the spinner and resets the timer.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.isActive
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner line, e.g. "/ Thinking... (3s)".
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true)

	line := s.spinner.View() + " " + messageStyle.Render(s.message+"...")

	if s.showTimer {
		elapsed := int(time.Since(s.startTime).Seconds())
		if elapsed > 0 {
			timerStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
			line += " " + timerStyle.Render("("+util.IntToString(elapsed)+"s)")
		}
	}

	return line
}
