// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")
	if msg.Role != RoleUser {
		t.Errorf("role = %v", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("content = %q", msg.Content)
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("id = %q, want msg_ prefix", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("short")
	if got := msg.Preview(50); got != "short" {
		t.Errorf("preview = %q", got)
	}

	long := NewUserMessage(strings.Repeat("a", 100))
	got := long.Preview(20)
	if len([]rune(got)) != 20 {
		t.Errorf("preview length = %d, want 20", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview = %q, want ... suffix", got)
	}

	// Multi-byte content must not be split mid-rune.
	emoji := NewUserMessage(strings.Repeat("😊", 30))
	p := emoji.Preview(10)
	if !strings.HasSuffix(p, "...") {
		t.Errorf("emoji preview = %q", p)
	}
}

func TestEstimateTokens(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("a", 40))
	if got := msg.EstimateTokens(); got != 10 {
		t.Errorf("tokens = %d, want 10", got)
	}
	empty := NewUserMessage("")
	if got := empty.EstimateTokens(); got != 0 {
		t.Errorf("tokens for empty = %d", got)
	}
}

func TestConversationAddAndOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("first")
	conv.AddAssistantMessage("second")
	conv.AddUserMessage("third")

	if conv.MessageCount() != 3 {
		t.Fatalf("count = %d", conv.MessageCount())
	}
	// Insertion order is display order.
	if conv.Messages[0].Content != "first" || conv.Messages[2].Content != "third" {
		t.Error("messages out of order")
	}
	if conv.GetLastMessage().Content != "third" {
		t.Errorf("last = %q", conv.GetLastMessage().Content)
	}
	if conv.GetLastAssistantMessage().Content != "second" {
		t.Errorf("last assistant = %q", conv.GetLastAssistantMessage().Content)
	}
	if conv.GetLastUserMessage().Content != "third" {
		t.Errorf("last user = %q", conv.GetLastUserMessage().Content)
	}
}

func TestConversationAutoTitle(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("welcome")
	if conv.Title != "" {
		t.Errorf("system message set title %q", conv.Title)
	}
	conv.AddUserMessage("tell me about your day")
	if conv.Title != "tell me about your day" {
		t.Errorf("title = %q", conv.Title)
	}
	// Title sticks once set.
	conv.AddUserMessage("something else")
	if conv.Title != "tell me about your day" {
		t.Errorf("title changed to %q", conv.Title)
	}
}

func TestConversationClearHistory(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello")
	conv.ClearHistory()
	if !conv.IsEmpty() {
		t.Error("not empty after clear")
	}
	if conv.TokensUsed != 0 {
		t.Errorf("tokens = %d after clear", conv.TokensUsed)
	}
}

func TestConversationPruneKeepsSystemMessages(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("persona framing")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("filler")
	}

	if got := conv.MessageCount(); got != MaxMessages {
		t.Errorf("count after prune = %d, want %d", got, MaxMessages)
	}
	if conv.Messages[0].Role != RoleSystem {
		t.Error("system message pruned")
	}
}

func TestToChatHistory(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("welcome text")
	conv.AddUserMessage("hi")
	conv.AddAssistantMessage("hello!")
	conv.AddErrorMessage("connection lost")
	conv.AddUserMessage("are you there?")

	history := conv.ToChatHistory("CHAI Friend", "You")
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3 (system entries skipped)", len(history))
	}
	if history[0].Sender != "You" || history[0].Message != "hi" {
		t.Errorf("entry 0 = %+v", history[0])
	}
	if history[1].Sender != "CHAI Friend" || history[1].Message != "hello!" {
		t.Errorf("entry 1 = %+v", history[1])
	}
	if history[2].Message != "are you there?" {
		t.Errorf("entry 2 = %+v", history[2])
	}
}

func TestConversationClone(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("original")

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"
	clone.AddUserMessage("extra")

	if conv.Messages[0].Content != "original" {
		t.Error("clone shares message pointers")
	}
	if conv.MessageCount() != 1 {
		t.Error("clone shares message slice")
	}
}

func TestErrorMessageKeepsUserEntry(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello?")
	conv.AddErrorMessage("request failed")

	if conv.MessageCount() != 2 {
		t.Fatalf("count = %d", conv.MessageCount())
	}
	if !conv.Messages[1].IsError {
		t.Error("error flag not set")
	}
	if conv.GetLastUserMessage().Content != "hello?" {
		t.Error("user message lost after failure")
	}
}
