// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatInput wraps liner with a persistent history file, so arrow-key
// recall works across sessions.
type chatInput struct {
	line        *liner.State
	historyFile string
}

func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	in := &chatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	in.loadHistory()
	return in
}

func (in *chatInput) loadHistory() {
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line, recording non-empty input in the history.
func (in *chatInput) ReadInput(prompt string) (string, error) {
	input, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		in.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history and restores the terminal.
func (in *chatInput) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			in.line.WriteHistory(f)
			f.Close()
		}
	}
	in.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// chatSession holds the state of one REPL session.
type chatSession struct {
	cfg          *config.Config
	client       *chai.Client
	store        *storage.ConversationStore
	conversation *model.Conversation
	input        *chatInput
	quiet        bool
}

// HandleChat runs the line-based chat REPL for terminals where the
// full-screen interface is unwanted or unavailable.
func HandleChat(args Args) int {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("chat needs an interactive terminal; use: chai ask"))
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Config error:"), err)
		return 1
	}

	store, _ := storage.NewConversationStore()
	if store != nil {
		store.MaxConversations = cfg.History.MaxConversations
	}

	session := &chatSession{
		cfg:          cfg,
		client:       newClientFromConfig(cfg),
		store:        store,
		conversation: model.NewConversation(),
		input:        newChatInput(),
		quiet:        args.Quiet,
	}
	defer session.input.Close()

	if !session.quiet {
		session.printWelcome()
	}

	return session.run()
}

// run is the REPL loop. It returns the process exit code.
func (s *chatSession) run() int {
	prompt := promptStyle.Render("you> ")

	for {
		input, err := s.input.ReadInput(prompt)
		if err != nil {
			// Ctrl+C or Ctrl+D both end the session.
			fmt.Println()
			s.finish()
			return 0
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing := s.handleCommand(input)
			if !keepGoing {
				s.finish()
				return 0
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			s.finish()
			return 0
		}

		s.sendMessage(input)
	}
}

// sendMessage runs one turn: append, send, print or report.
func (s *chatSession) sendMessage(text string) {
	s.conversation.AddUserMessage(text)

	if !s.quiet {
		fmt.Println(mutedStyle.Render("..."))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	history := s.conversation.ToChatHistory(s.cfg.Persona.BotName, s.cfg.Persona.UserName)
	outcome := s.client.Send(ctx, history)

	switch outcome.Kind {
	case chai.KindSuccess:
		s.conversation.AddAssistantMessage(outcome.Text)
		fmt.Printf("%s ", botStyle.Render(s.cfg.Persona.BotName+">"))
		displayReply(outcome.Text)
		fmt.Println()
		s.autosave()

	case chai.KindTransientFailure:
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Unavailable]"), outcome.Err)
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Send your message again to retry."))

	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Failed]"), outcome.Err)
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Check your API key: chai config set api.key <key>"))
	}
}

// handleCommand runs a slash command. It returns false when the
// session should end.
func (s *chatSession) handleCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return false

	case "/help", "/h", "/?":
		s.printHelp()

	case "/new", "/n":
		s.archiveCurrent()
		s.conversation = model.NewConversation()
		fmt.Println(successStyle.Render("Started a new conversation."))

	case "/clear", "/c":
		s.conversation.ClearHistory()
		fmt.Println(successStyle.Render("History cleared."))

	case "/save", "/s":
		s.saveConversation(strings.Join(args, " "))

	case "/sessions", "/list":
		s.listSessions()

	case "/load", "/l", "/resume":
		if len(args) == 0 {
			s.listSessions()
			break
		}
		s.loadConversation(args[0])

	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Unknown command:"), cmd)
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Type /help for the command list."))
	}
	return true
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func (s *chatSession) saveConversation(title string) {
	if s.store == nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Storage is not available."))
		return
	}
	conv := s.conversation.Clone()
	if title != "" {
		conv.Title = title
	}
	id, err := s.store.Save(conv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Save failed:"), err)
		return
	}
	fmt.Println(successStyle.Render("Saved conversation " + id))
}

func (s *chatSession) listSessions() {
	if s.store == nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Storage is not available."))
		return
	}
	metas, err := s.store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Listing failed:"), err)
		return
	}
	fmt.Println(storage.FormatSessionList(metas))
}

func (s *chatSession) loadConversation(id string) {
	if s.store == nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Storage is not available."))
		return
	}
	conv, err := s.store.Load(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Load failed:"), err)
		return
	}
	s.conversation = conv
	fmt.Println(successStyle.Render("Resumed: " + conv.Title))
}

// archiveCurrent saves the active conversation before replacing it.
func (s *chatSession) archiveCurrent() {
	if s.store == nil || s.conversation.IsEmpty() || !s.cfg.History.Enabled {
		return
	}
	_, _ = s.store.Save(s.conversation.Clone())
}

// autosave keeps the resumable session file current.
func (s *chatSession) autosave() {
	if s.store == nil || !s.cfg.History.Enabled {
		return
	}
	_ = s.store.SaveCurrent(s.conversation)
}

// finish archives and says goodbye.
func (s *chatSession) finish() {
	s.autosave()
	if !s.quiet {
		fmt.Println(mutedStyle.Render("Bye! Your conversation is saved."))
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *chatSession) printWelcome() {
	fmt.Println(titleStyle.Render("chai " + Version))
	fmt.Printf("%s %s\n",
		valueStyle.Render("Chatting with"),
		botStyle.Render(s.cfg.Persona.BotName))
	fmt.Println(mutedStyle.Render("Type /help for commands, /quit to leave."))
	fmt.Println()
}

func (s *chatSession) printHelp() {
	rows := [][2]string{
		{"/new", "Start a new conversation"},
		{"/clear", "Clear the current history"},
		{"/save [title]", "Save the conversation"},
		{"/sessions", "List saved conversations"},
		{"/load <id>", "Resume a saved conversation"},
		{"/quit", "Leave the chat"},
	}
	fmt.Println(titleStyle.Render("Commands"))
	for _, row := range rows {
		fmt.Printf("  %s%s\n", labelStyle.Render(row[0]), valueStyle.Render(row[1]))
	}
	fmt.Println()
}
