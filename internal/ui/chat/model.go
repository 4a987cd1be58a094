// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/commands"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/components"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/styles"
)

// resultsBuffer sizes the reply channel. Superseded turns still
// deliver, so there can be a few results in flight at once.
const resultsBuffer = 8

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the bubbletea model for the chat screen.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	// Conversation state
	conversation *model.Conversation
	store        *storage.ConversationStore

	// Request dispatch
	client      *chai.Client
	dispatcher  *chai.Dispatcher
	results     chan chai.TurnOutcome
	thinking    bool
	discardTurn uint64
	cancelSend  context.CancelFunc

	// Components
	viewport     viewport.Model
	input        *components.InputArea
	spinner      components.Spinner
	quickReplies *components.QuickReplies
	statusBar    *components.StatusBar
	welcome      components.Welcome
	messageList  *components.MessageList

	// Slash commands
	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer
	cmdCtx    *commands.Context

	version string
}

// New creates the chat screen from the given configuration. The
// conversation store may fail to initialize (e.g. unwritable home
// directory); the screen then runs without persistence.
func New(cfg *config.Config, version string) *Model {
	theme := styles.NewThemeNamed(cfg.UI.Theme)

	client := chai.NewClient(cfg.API.Key).
		WithBaseURL(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.API.MaxRetries).
		WithPersona(cfg.Persona.BotName, cfg.Persona.UserName).
		WithMemory(cfg.Persona.SafetyPrompt)

	store, _ := storage.NewConversationStore()
	if store != nil {
		store.MaxConversations = cfg.History.MaxConversations
	}

	registry := commands.NewRegistry()

	m := &Model{
		cfg:          cfg,
		theme:        theme,
		keys:         DefaultKeyMap(),
		conversation: model.NewConversation(),
		store:        store,
		client:       client,
		dispatcher:   chai.NewDispatcher(client),
		results:      make(chan chai.TurnOutcome, resultsBuffer),
		input:        components.NewInputArea(theme),
		spinner:      components.NewSpinner(),
		quickReplies: components.NewQuickReplies(theme),
		statusBar:    components.NewStatusBar(theme),
		welcome:      components.NewWelcome(theme),
		messageList:  components.NewMessageList(theme),
		registry:     registry,
		parser:       commands.NewParser(registry),
		completer:    commands.NewCompleter(registry),
		cmdCtx:       commands.NewContext(cfg, store),
		version:      version,
	}

	m.completer.ConfigKeysFn = config.Keys
	if store != nil {
		m.completer.SessionsFn = func() []string {
			metas, err := store.List()
			if err != nil {
				return nil
			}
			ids := make([]string, 0, len(metas))
			for _, meta := range metas {
				ids = append(ids, meta.ID)
			}
			return ids
		}
	}

	m.messageList.SetPersona(cfg.Persona.BotName, cfg.Persona.UserName)
	m.messageList.ShowTimestamps = cfg.UI.ShowTimestamps
	m.messageList.Compact = cfg.UI.CompactMode
	m.statusBar.BotName = cfg.Persona.BotName
	m.welcome.SetBotName(cfg.Persona.BotName)
	m.welcome.SetVersion(version)

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.input.Focus()}
	if restore := m.restoreSessionCmd(); restore != nil {
		cmds = append(cmds, restore)
	}
	return tea.Batch(cmds...)
}

// restoreSessionCmd loads the previous session, when history is on.
func (m *Model) restoreSessionCmd() tea.Cmd {
	if m.store == nil || !m.cfg.History.Enabled {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		conv, err := store.LoadCurrent()
		if err != nil {
			return nil
		}
		return SessionRestoredMsg{Conversation: conv}
	}
}

// Conversation exposes the active conversation, mainly for tests.
func (m *Model) Conversation() *model.Conversation {
	return m.conversation
}

// Thinking reports whether a reply is in flight.
func (m *Model) Thinking() bool {
	return m.thinking
}

// autosave persists the active session after each change.
func (m *Model) autosave() {
	if m.store == nil || !m.cfg.History.Enabled {
		return
	}
	// Best effort; a failed autosave never interrupts the chat.
	_ = m.store.SaveCurrent(m.conversation)
}
