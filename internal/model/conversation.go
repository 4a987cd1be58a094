// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
)

// MaxMessages is the maximum number of messages kept in conversation
// history. When exceeded, the oldest non-system messages are pruned to
// prevent unbounded memory growth.
const MaxMessages = 1000

// titleMaxLen bounds auto-generated conversation titles.
const titleMaxLen = 50

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and
// metadata. The message log is append-only: entries are added by the
// interactive loop and never mutated afterwards.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	// TokensUsed is a running estimate of context size.
	TokensUsed int `json:"tokens_used"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTokenEstimate()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddErrorMessage appends a system message standing in for a failed
// reply. The user's message stays in the log regardless of outcome.
func (c *Conversation) AddErrorMessage(content string) *Message {
	msg := NewErrorMessage(content)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastAssistantMessage returns the most recent assistant message.
func (c *Conversation) GetLastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// GetLastUserMessage returns the most recent user message.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// ClearHistory removes all messages from the conversation.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.TokensUsed = 0
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// ToChatHistory converts the conversation to the wire-format history
// expected by the chat service. System messages (welcome text, error
// placeholders) are local to the interface and skipped.
func (c *Conversation) ToChatHistory(botName, userName string) []chai.HistoryEntry {
	history := make([]chai.HistoryEntry, 0, len(c.Messages))
	for _, msg := range c.Messages {
		var sender string
		switch msg.Role {
		case RoleUser:
			sender = userName
		case RoleAssistant:
			sender = botName
		default:
			continue
		}
		if msg.Content == "" {
			continue
		}
		history = append(history, chai.HistoryEntry{
			Sender:  sender,
			Message: msg.Content,
		})
	}
	return history
}

// =============================================================================
// METADATA
// =============================================================================

// updateTitle sets the title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			c.Title = msg.Preview(titleMaxLen)
			return
		}
	}
}

// updateTokenEstimate recomputes the running token estimate.
func (c *Conversation) updateTokenEstimate() {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens()
	}
	c.TokensUsed = total
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
// System messages are preserved so the persona framing survives.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}

	excess := len(c.Messages) - MaxMessages
	pruned := make([]*Message, 0, MaxMessages)
	for _, msg := range c.Messages {
		if excess > 0 && msg.Role != RoleSystem {
			excess--
			continue
		}
		pruned = append(pruned, msg)
	}
	c.Messages = pruned
	c.updateTokenEstimate()
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:         c.ID,
		Title:      c.Title,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		TokensUsed: c.TokensUsed,
		Messages:   make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}
