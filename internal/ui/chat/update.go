// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/commands"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/export"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case SessionRestoredMsg:
		if msg.Conversation != nil && !msg.Conversation.IsEmpty() {
			m.conversation = msg.Conversation
			m.refreshViewport()
		}
		return m, nil

	case ConfigReloadedMsg:
		m.applyReloadedConfig(msg.Config)
		return m, nil

	// Slash command messages.
	case commands.ShowHelpMsg:
		m.conversation.AddSystemMessage(m.helpText())
		m.refreshViewport()
		return m, nil

	case commands.NewConversationMsg:
		return m, m.startNewConversation()

	case commands.ClearConversationMsg:
		m.conversation.ClearHistory()
		m.autosave()
		m.refreshViewport()
		return m, nil

	case commands.SaveConversationMsg:
		return m, m.saveConversationCmd(msg.Title)

	case commands.SaveCompleteMsg:
		if msg.Error != nil {
			m.addError("Save failed", msg.Error.Error(), "")
		} else {
			m.conversation.AddSystemMessage("Saved conversation " + msg.ID)
		}
		m.refreshViewport()
		return m, nil

	case commands.SessionListMsg:
		if msg.Error != nil {
			m.addError("Could not list sessions", msg.Error.Error(), "")
		} else {
			m.conversation.AddSystemMessage(storage.FormatSessionList(msg.Sessions))
		}
		m.refreshViewport()
		return m, nil

	case commands.ConversationLoadedMsg:
		if msg.Error != nil {
			m.addError("Could not load conversation", msg.Error.Error(), "Run /sessions to see saved conversations")
		} else if msg.Conversation != nil {
			m.conversation = msg.Conversation
			m.autosave()
			m.conversation.AddSystemMessage("Resumed conversation: " + m.conversation.Title)
		}
		m.refreshViewport()
		return m, nil

	case commands.ExportConversationMsg:
		return m, m.exportCmd(msg.Format)

	case commands.ExportCompleteMsg:
		if msg.Error != nil {
			m.addError("Export failed", msg.Error.Error(), "")
		} else {
			m.conversation.AddSystemMessage("Exported to " + msg.Path)
		}
		m.refreshViewport()
		return m, nil

	case commands.CopyToClipboardMsg:
		return m, m.copyCmd()

	case commands.CopyCompleteMsg:
		if msg.Error != nil {
			m.addError("Copy failed", msg.Error.Error(), "")
		} else {
			m.conversation.AddSystemMessage("Copied last reply to clipboard")
		}
		m.refreshViewport()
		return m, nil

	case commands.ShowConfigMsg:
		m.handleConfig(msg.Key, msg.Value)
		m.refreshViewport()
		return m, nil

	case commands.ThemeChangeMsg:
		m.handleConfig("ui.theme", msg.Theme)
		m.refreshViewport()
		return m, nil

	case commands.ErrorMsg:
		m.addError(msg.Title, msg.Message, msg.Tip)
		m.refreshViewport()
		return m, nil
	}

	// Everything else flows to the components.
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd = m.input.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.autosave()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		return m, m.cancelReply()

	case key.Matches(msg, m.keys.QuickReplies):
		// Tab completes a half-typed slash command; otherwise it
		// moves focus to the quick replies.
		if m.input.Focused() && commands.IsCommand(m.input.Value()) {
			m.completeCommand()
			return m, nil
		}
		m.toggleQuickReplies()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.quickReplies.Focused() {
		switch msg.String() {
		case "left", "shift+tab":
			m.quickReplies.Prev()
			return m, nil
		case "right":
			m.quickReplies.Next()
			return m, nil
		case "enter":
			text := m.quickReplies.Selected()
			m.toggleQuickReplies()
			return m, m.sendMessage(text)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	}

	return m, m.input.Update(msg)
}

// completeCommand fills in the top completion for the input as typed.
func (m *Model) completeCommand() {
	value := m.input.Value()
	comps := m.completer.Complete(value)
	if len(comps) == 0 {
		return
	}

	// Replace the token being typed with the best match.
	if idx := strings.LastIndex(value, " "); idx >= 0 {
		m.input.SetValue(value[:idx+1] + comps[0].Value)
	} else {
		m.input.SetValue(comps[0].Value)
	}
}

// toggleQuickReplies moves focus between the input box and the
// quick-reply row.
func (m *Model) toggleQuickReplies() {
	if !m.cfg.UI.QuickReplies {
		return
	}
	if m.quickReplies.Focused() {
		m.quickReplies.Blur()
		m.input.Focus()
		return
	}
	m.input.Blur()
	m.quickReplies.Focus()
}

// =============================================================================
// SENDING AND REPLIES
// =============================================================================

// submit handles enter in the input box: run a slash command, or send
// the text as a chat message.
func (m *Model) submit() tea.Cmd {
	if m.input.IsBlank() {
		return nil
	}
	raw := m.input.Value()

	if commands.IsCommand(raw) {
		m.input.Reset()
		return m.runCommand(raw)
	}
	return m.sendMessage(raw)
}

// runCommand parses and executes a slash command.
func (m *Model) runCommand(raw string) tea.Cmd {
	result := m.parser.Parse(raw)
	if result.Command == nil {
		m.addError("Unknown command", result.CommandName+" is not a command", "Type /help for the command list")
		m.refreshViewport()
		return nil
	}
	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		m.addError("Invalid arguments", err.Error(), "Usage: "+result.Command.Usage)
		m.refreshViewport()
		return nil
	}
	return result.Command.Handler(m.cmdCtx, result.Args)
}

// sendMessage appends the user's message and dispatches a request.
// While the reply is in flight the input stays disabled, so at most
// one turn is ever pending from the keyboard.
func (m *Model) sendMessage(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || m.thinking {
		return nil
	}

	m.conversation.AddUserMessage(text)
	m.input.Reset()
	m.input.SetDisabled(true)
	m.thinking = true
	m.statusBar.Status = components.StatusThinking

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSend = cancel

	history := m.conversation.ToChatHistory(m.cfg.Persona.BotName, m.cfg.Persona.UserName)
	m.dispatcher.Dispatch(ctx, history, m.results)

	m.autosave()
	m.refreshViewport()
	return tea.Batch(m.spinner.Start(), awaitReply(m.results))
}

// cancelReply aborts the in-flight turn. The turn number is recorded
// so its eventual result is dropped when it arrives.
func (m *Model) cancelReply() tea.Cmd {
	if !m.thinking {
		return nil
	}
	if m.cancelSend != nil {
		m.cancelSend()
		m.cancelSend = nil
	}
	m.discardTurn = m.dispatcher.CurrentTurn()
	m.thinking = false
	m.spinner.Stop()
	m.input.SetDisabled(false)
	m.statusBar.Status = components.StatusReady
	m.conversation.AddSystemMessage("Reply cancelled.")
	m.refreshViewport()
	return m.input.Focus()
}

// handleReply processes one dispatched result. Results from cancelled
// or superseded turns are dropped; when a newer turn is still in
// flight the await command is re-issued so the channel keeps draining.
func (m *Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	result := msg.Result

	if result.Turn == m.discardTurn || m.dispatcher.IsStale(result) {
		if m.thinking {
			return m, awaitReply(m.results)
		}
		return m, nil
	}

	m.thinking = false
	m.cancelSend = nil
	m.spinner.Stop()
	m.input.SetDisabled(false)

	switch result.Outcome.Kind {
	case chai.KindSuccess:
		m.conversation.AddAssistantMessage(result.Outcome.Text)
		m.statusBar.Status = components.StatusReady
		m.autosave()

	case chai.KindTransientFailure:
		m.conversation.AddErrorMessage(
			"I couldn't reach the chat service: " + result.Outcome.Err.Error() +
				"\nYour message is kept. Send it again to retry.")
		m.statusBar.Status = components.StatusError

	case chai.KindFatalFailure:
		text := "The chat service rejected the request: " + result.Outcome.Err.Error()
		if chai.IsAuthFailed(result.Outcome.Err) {
			text += "\nCheck your API key with /config api.key <key>."
		}
		m.conversation.AddErrorMessage(text)
		m.statusBar.Status = components.StatusError
	}

	m.refreshViewport()
	return m, m.input.Focus()
}

// =============================================================================
// COMMAND EFFECTS
// =============================================================================

// startNewConversation archives the current conversation, when it has
// content, and begins a fresh one.
func (m *Model) startNewConversation() tea.Cmd {
	if m.store != nil && m.cfg.History.Enabled && !m.conversation.IsEmpty() {
		_, _ = m.store.Save(m.conversation.Clone())
	}
	m.conversation = model.NewConversation()
	m.autosave()
	m.refreshViewport()
	return nil
}

// saveConversationCmd saves off the update loop.
func (m *Model) saveConversationCmd(title string) tea.Cmd {
	if m.store == nil {
		return func() tea.Msg {
			return commands.SaveCompleteMsg{Error: &storage.ConversationError{Message: "storage is not available"}}
		}
	}

	conv := m.conversation.Clone()
	if title != "" {
		conv.Title = title
	}
	store := m.store
	return func() tea.Msg {
		id, err := store.Save(conv)
		if err != nil {
			return commands.SaveCompleteMsg{Error: err}
		}
		return commands.SaveCompleteMsg{ID: id}
	}
}

// exportCmd writes the conversation to a file off the update loop.
func (m *Model) exportCmd(format string) tea.Cmd {
	conv := m.conversation.Clone()
	opts := export.DefaultOptions()
	opts.BotName = m.cfg.Persona.BotName
	opts.UserName = m.cfg.Persona.UserName

	return func() tea.Msg {
		var exporter export.Exporter
		switch format {
		case "json":
			exporter = export.NewJSONExporter()
		default:
			exporter = export.NewMarkdownExporter(opts)
		}
		path, err := export.ToFile(conv, exporter, opts)
		if err != nil {
			return commands.ExportCompleteMsg{Error: err}
		}
		return commands.ExportCompleteMsg{Path: path}
	}
}

// copyCmd copies the last reply to the system clipboard.
func (m *Model) copyCmd() tea.Cmd {
	last := m.conversation.GetLastAssistantMessage()
	if last == nil {
		return func() tea.Msg {
			return commands.ErrorMsg{
				Title:   "Nothing to copy",
				Message: "There is no reply yet",
				Tip:     "Send a message first",
			}
		}
	}

	content := last.Content
	return func() tea.Msg {
		return commands.CopyCompleteMsg{Error: clipboard.WriteAll(content)}
	}
}

// handleConfig shows or edits configuration from /config and /theme.
func (m *Model) handleConfig(key, value string) {
	switch {
	case key == "":
		var b strings.Builder
		b.WriteString("Configuration:\n")
		for _, k := range config.Keys() {
			v, err := m.cfg.Get(k)
			if err != nil {
				continue
			}
			b.WriteString("  " + k + " = " + v + "\n")
		}
		m.conversation.AddSystemMessage(strings.TrimRight(b.String(), "\n"))

	case value == "":
		v, err := m.cfg.Get(key)
		if err != nil {
			m.addError("Unknown config key", err.Error(), "Run /config to list keys")
			return
		}
		m.conversation.AddSystemMessage(key + " = " + v)

	default:
		if err := m.cfg.Set(key, value); err != nil {
			m.addError("Invalid config value", err.Error(), "")
			return
		}
		if err := config.Save(m.cfg); err != nil {
			m.addError("Could not save config", err.Error(), "")
			return
		}
		m.applyConfig()
		m.conversation.AddSystemMessage("Set " + key + " = " + value)
	}
}

// applyReloadedConfig takes over a config that changed on disk. The
// request client is only swapped between turns, so an in-flight turn
// keeps its settings.
func (m *Model) applyReloadedConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.cmdCtx.Config = cfg
	if m.store != nil {
		m.store.MaxConversations = cfg.History.MaxConversations
	}
	if !m.thinking {
		m.client = chai.NewClient(cfg.API.Key).
			WithBaseURL(cfg.API.BaseURL).
			WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
			WithMaxRetries(cfg.API.MaxRetries).
			WithPersona(cfg.Persona.BotName, cfg.Persona.UserName).
			WithMemory(cfg.Persona.SafetyPrompt)
		m.dispatcher = chai.NewDispatcher(m.client)
		m.discardTurn = 0
	}
	m.applyConfig()
	m.refreshViewport()
}

// applyConfig pushes changed settings into live components.
func (m *Model) applyConfig() {
	m.theme.Rebuild(m.cfg.UI.Theme)
	m.messageList.SetPersona(m.cfg.Persona.BotName, m.cfg.Persona.UserName)
	m.messageList.ShowTimestamps = m.cfg.UI.ShowTimestamps
	m.messageList.Compact = m.cfg.UI.CompactMode
	m.statusBar.BotName = m.cfg.Persona.BotName
	m.welcome.SetBotName(m.cfg.Persona.BotName)
}

// =============================================================================
// HELPERS
// =============================================================================

// addError appends an error bubble assembled from title, detail, and
// an optional tip line.
func (m *Model) addError(title, message, tip string) {
	text := title
	if message != "" {
		text += ": " + message
	}
	if tip != "" {
		text += "\n" + tip
	}
	m.conversation.AddErrorMessage(text)
	m.statusBar.Status = components.StatusError
}

// helpText renders the command list grouped by category.
func (m *Model) helpText() string {
	byCategory := m.registry.ByCategory()

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, category := range categories {
		cmds := byCategory[category]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		b.WriteString("\n" + category + "\n")
		for _, cmd := range cmds {
			name := cmd.Name
			if cmd.Usage != "" {
				name = cmd.Usage
			}
			b.WriteString("  " + name)
			if len(cmd.Aliases) > 0 {
				b.WriteString(" (" + strings.Join(cmd.Aliases, ", ") + ")")
			}
			b.WriteString(" - " + cmd.Description + "\n")
		}
	}
	b.WriteString("\nTab cycles quick replies. Esc cancels a pending reply.")
	return b.String()
}
