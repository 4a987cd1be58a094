// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chat

import (
	"strings"
	"testing"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/commands"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
)

// newTestModel builds a chat screen against a throwaway home directory
// so nothing touches the real config or history. The client has no API
// key, so dispatched sends fail fast without any network traffic.
func newTestModel(t *testing.T) *Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := config.Default()
	cfg.History.Enabled = false

	m := New(cfg, "test")
	m.store = nil
	m.resize(80, 24)
	return m
}

// sendTestMessage pushes text through the input box and submit path.
func sendTestMessage(t *testing.T, m *Model, text string) {
	t.Helper()
	m.input.SetValue(text)
	if cmd := m.submit(); cmd == nil {
		t.Fatalf("submit(%q) returned no command", text)
	}
}

// =============================================================================
// SENDING
// =============================================================================

func TestSendMessageAppendsAndLocksInput(t *testing.T) {
	m := newTestModel(t)

	sendTestMessage(t, m, "hello there")

	if got := m.Conversation().MessageCount(); got != 1 {
		t.Fatalf("MessageCount = %d, want 1", got)
	}
	last := m.Conversation().GetLastMessage()
	if last.Role != model.RoleUser || last.Content != "hello there" {
		t.Errorf("last message = %v %q", last.Role, last.Content)
	}
	if !m.Thinking() {
		t.Error("expected thinking after send")
	}
	if !m.input.Disabled() {
		t.Error("input should be disabled while a reply is pending")
	}
}

func TestSubmitBlankDoesNothing(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("   ")
	if cmd := m.submit(); cmd != nil {
		t.Error("blank input produced a command")
	}
	if !m.Conversation().IsEmpty() {
		t.Error("blank input appended a message")
	}
}

func TestSendWhileThinkingIsDropped(t *testing.T) {
	m := newTestModel(t)

	sendTestMessage(t, m, "first")
	if cmd := m.sendMessage("second"); cmd != nil {
		t.Error("send during a pending reply produced a command")
	}
	if got := m.Conversation().MessageCount(); got != 1 {
		t.Errorf("MessageCount = %d, want 1", got)
	}
}

// =============================================================================
// REPLY HANDLING
// =============================================================================

func TestReplySuccessAppendsAssistantMessage(t *testing.T) {
	m := newTestModel(t)
	sendTestMessage(t, m, "hi")

	reply := ReplyMsg{Result: chai.TurnOutcome{
		Turn:    m.dispatcher.CurrentTurn(),
		Outcome: chai.Success("hey! good to see you"),
	}}
	m.handleReply(reply)

	last := m.Conversation().GetLastMessage()
	if last.Role != model.RoleAssistant {
		t.Fatalf("last role = %v, want assistant", last.Role)
	}
	if last.Content != "hey! good to see you" {
		t.Errorf("content = %q", last.Content)
	}
	if m.Thinking() {
		t.Error("still thinking after reply")
	}
	if m.input.Disabled() {
		t.Error("input still disabled after reply")
	}
}

func TestReplyFailureAppendsErrorMessage(t *testing.T) {
	m := newTestModel(t)
	sendTestMessage(t, m, "hi")

	reply := ReplyMsg{Result: chai.TurnOutcome{
		Turn:    m.dispatcher.CurrentTurn(),
		Outcome: chai.TransientFailure(chai.ErrRateLimited),
	}}
	m.handleReply(reply)

	last := m.Conversation().GetLastMessage()
	if !last.IsError {
		t.Fatal("expected an error message")
	}
	if !strings.Contains(last.Content, "again") {
		t.Errorf("transient error should suggest resending, got %q", last.Content)
	}
}

func TestStaleReplyDiscarded(t *testing.T) {
	m := newTestModel(t)

	// First turn, cancelled before its reply lands.
	sendTestMessage(t, m, "first")
	firstTurn := m.dispatcher.CurrentTurn()
	m.cancelReply()

	// Second turn supersedes it.
	sendTestMessage(t, m, "second")
	countBefore := m.Conversation().MessageCount()

	// The first turn's late result must be dropped, and the await
	// command re-issued while the newer turn is still pending.
	_, cmd := m.handleReply(ReplyMsg{Result: chai.TurnOutcome{
		Turn:    firstTurn,
		Outcome: chai.Success("late reply to the cancelled turn"),
	}})
	if cmd == nil {
		t.Error("expected a re-issued await after a stale result")
	}
	if got := m.Conversation().MessageCount(); got != countBefore {
		t.Errorf("stale reply changed the conversation: %d -> %d", countBefore, got)
	}
	if !m.Thinking() {
		t.Error("stale reply ended the pending turn")
	}

	// The live turn's result still applies.
	m.handleReply(ReplyMsg{Result: chai.TurnOutcome{
		Turn:    m.dispatcher.CurrentTurn(),
		Outcome: chai.Success("reply to the second turn"),
	}})
	last := m.Conversation().GetLastMessage()
	if last.Content != "reply to the second turn" {
		t.Errorf("last message = %q", last.Content)
	}
}

func TestCancelReply(t *testing.T) {
	m := newTestModel(t)
	sendTestMessage(t, m, "hi")

	m.cancelReply()

	if m.Thinking() {
		t.Error("still thinking after cancel")
	}
	if m.input.Disabled() {
		t.Error("input still disabled after cancel")
	}
	if m.discardTurn != m.dispatcher.CurrentTurn() {
		t.Error("cancelled turn not marked for discard")
	}
	last := m.Conversation().GetLastMessage()
	if last.Role != model.RoleSystem {
		t.Errorf("expected a system notice, got role %v", last.Role)
	}
}

func TestCancelWithoutPendingReplyIsNoop(t *testing.T) {
	m := newTestModel(t)
	if cmd := m.cancelReply(); cmd != nil {
		t.Error("cancel with nothing pending produced a command")
	}
	if !m.Conversation().IsEmpty() {
		t.Error("cancel with nothing pending appended a message")
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestUnknownCommandShowsError(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("/bogus")
	m.submit()

	last := m.Conversation().GetLastMessage()
	if last == nil || !last.IsError {
		t.Fatal("expected an error message for an unknown command")
	}
	if !strings.Contains(last.Content, "/bogus") {
		t.Errorf("error should name the command, got %q", last.Content)
	}
}

func TestHelpMessageListsCommands(t *testing.T) {
	m := newTestModel(t)

	m.Update(commands.ShowHelpMsg{})

	last := m.Conversation().GetLastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Fatal("expected a system message")
	}
	for _, name := range []string{"/help", "/save", "/export", "/theme"} {
		if !strings.Contains(last.Content, name) {
			t.Errorf("help is missing %s", name)
		}
	}
}

func TestNewConversationStartsFresh(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserMessage("old message")
	m.conversation.AddAssistantMessage("old reply")

	m.Update(commands.NewConversationMsg{})

	if !m.Conversation().IsEmpty() {
		t.Error("conversation not reset")
	}
}

func TestClearConversation(t *testing.T) {
	m := newTestModel(t)
	conv := m.conversation
	conv.AddUserMessage("a")
	conv.AddAssistantMessage("b")

	m.Update(commands.ClearConversationMsg{})

	if !conv.IsEmpty() {
		t.Error("history not cleared")
	}
	if m.conversation != conv {
		t.Error("clear should keep the same conversation")
	}
}

func TestShowConfigValue(t *testing.T) {
	m := newTestModel(t)

	m.Update(commands.ShowConfigMsg{Key: "persona.bot_name"})

	last := m.Conversation().GetLastMessage()
	if last == nil || !strings.Contains(last.Content, m.cfg.Persona.BotName) {
		t.Errorf("config value not shown: %v", last)
	}
}

func TestCompleteCommandFillsName(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("/he")
	m.completeCommand()
	if got := m.input.Value(); got != "/help" {
		t.Errorf("completed value = %q, want %q", got, "/help")
	}

	m.input.SetValue("/theme da")
	m.completeCommand()
	if got := m.input.Value(); got != "/theme dark" {
		t.Errorf("completed value = %q, want %q", got, "/theme dark")
	}
}

func TestQuickReplyFocusToggle(t *testing.T) {
	m := newTestModel(t)

	m.toggleQuickReplies()
	if !m.quickReplies.Focused() || m.input.Focused() {
		t.Error("tab should move focus to the quick replies")
	}

	m.toggleQuickReplies()
	if m.quickReplies.Focused() || !m.input.Focused() {
		t.Error("tab again should move focus back to the input")
	}
}

func TestViewRendersMessages(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserMessage("ping")
	m.conversation.AddAssistantMessage("pong")
	m.refreshViewport()

	view := m.View()
	if !strings.Contains(view, "ping") || !strings.Contains(view, "pong") {
		t.Error("view is missing conversation content")
	}
}

func TestViewStartsWithWelcome(t *testing.T) {
	m := newTestModel(t)

	if !strings.Contains(m.View(), "CHAI") {
		t.Error("empty conversation should show the welcome box")
	}
}
