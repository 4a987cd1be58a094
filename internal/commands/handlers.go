// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Handlers emit these messages; the chat screen updates state from them.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct{}

// NewConversationMsg starts a fresh conversation.
type NewConversationMsg struct{}

// ClearConversationMsg clears the message history.
type ClearConversationMsg struct{}

// SaveConversationMsg asks the screen to save the current conversation.
type SaveConversationMsg struct {
	Title string
}

// SaveCompleteMsg reports a finished save.
type SaveCompleteMsg struct {
	ID    string
	Error error
}

// SessionListMsg carries the saved conversation listing.
type SessionListMsg struct {
	Sessions []storage.ConversationMeta
	Error    error
}

// ConversationLoadedMsg carries a loaded conversation.
type ConversationLoadedMsg struct {
	ID           string
	Conversation *model.Conversation
	Error        error
}

// ExportConversationMsg asks the screen to export the conversation.
type ExportConversationMsg struct {
	Format string // "markdown" or "json"
}

// ExportCompleteMsg reports a finished export.
type ExportCompleteMsg struct {
	Path  string
	Error error
}

// CopyToClipboardMsg asks the screen to copy the last reply.
type CopyToClipboardMsg struct{}

// CopyCompleteMsg reports a finished clipboard copy.
type CopyCompleteMsg struct {
	Error error
}

// ShowConfigMsg shows or edits a configuration value.
type ShowConfigMsg struct {
	Key   string
	Value string
}

// ThemeChangeMsg switches the color theme.
type ThemeChangeMsg struct {
	Theme string
}

// ErrorMsg reports a command error to the user.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// =============================================================================
// HANDLERS
// =============================================================================

// HandleHelp shows the command help.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowHelpMsg{}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleNew starts a new conversation.
func HandleNew(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return NewConversationMsg{}
	}
}

// HandleClear clears the conversation history.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ClearConversationMsg{}
	}
}

// HandleSave saves the current conversation.
func HandleSave(ctx *Context, args []string) tea.Cmd {
	title := strings.Join(args, " ")
	return func() tea.Msg {
		return SaveConversationMsg{Title: title}
	}
}

// HandleSessions lists saved conversations. When storage is wired the
// listing happens here, off the update loop.
func HandleSessions(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.Storage == nil {
		return func() tea.Msg {
			return SessionListMsg{}
		}
	}

	store := ctx.Storage
	return func() tea.Msg {
		metas, err := store.List()
		if err != nil {
			return SessionListMsg{Error: err}
		}
		return SessionListMsg{Sessions: metas}
	}
}

// HandleLoad loads a saved conversation by ID. With no argument it
// falls back to listing sessions.
func HandleLoad(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return HandleSessions(ctx, args)
	}

	id := args[0]
	if ctx == nil || ctx.Storage == nil {
		return func() tea.Msg {
			return ConversationLoadedMsg{ID: id, Error: storage.ErrConversationNotFound}
		}
	}

	store := ctx.Storage
	return func() tea.Msg {
		conv, err := store.Load(id)
		if err != nil {
			return ConversationLoadedMsg{ID: id, Error: err}
		}
		return ConversationLoadedMsg{ID: conv.ID, Conversation: conv}
	}
}

// HandleExport exports the conversation.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	format := "markdown"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
		if format == "md" {
			format = "markdown"
		}
	}

	switch format {
	case "markdown", "json":
	default:
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Invalid export format",
				Message: "Unknown format: " + format,
				Tip:     "Supported formats: markdown, json",
			}
		}
	}

	return func() tea.Msg {
		return ExportConversationMsg{Format: format}
	}
}

// HandleCopy copies the last reply to the clipboard. The screen fills
// in the content.
func HandleCopy(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return CopyToClipboardMsg{}
	}
}

// HandleConfig shows or edits configuration.
func HandleConfig(ctx *Context, args []string) tea.Cmd {
	key, value := "", ""
	if len(args) > 0 {
		key = args[0]
	}
	if len(args) > 1 {
		value = strings.Join(args[1:], " ")
	}
	return func() tea.Msg {
		return ShowConfigMsg{Key: key, Value: value}
	}
}

// HandleTheme switches the color theme.
func HandleTheme(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing theme",
				Message: "No theme name given",
				Tip:     "Usage: /theme <dark|light|auto>",
			}
		}
	}
	theme := strings.ToLower(args[0])
	return func() tea.Msg {
		return ThemeChangeMsg{Theme: theme}
	}
}
