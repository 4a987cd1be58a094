// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ReplyMsg delivers one dispatched send result to the update loop.
// The result carries its turn number; stale turns are dropped there.
type ReplyMsg struct {
	Result chai.TurnOutcome
}

// SessionRestoredMsg carries the previous session loaded at startup.
type SessionRestoredMsg struct {
	Conversation *model.Conversation
}

// ConfigReloadedMsg arrives when the config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// awaitReply blocks on the results channel and forwards the next
// outcome into the event loop. The update loop re-issues it after each
// stale result so the channel keeps draining.
func awaitReply(results <-chan chai.TurnOutcome) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: <-results}
	}
}
