// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/chai"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/format"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for replies printed
// to a terminal. nil when initialization fails; output falls back to
// plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the
// input unchanged when rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayReply prints a reply, markdown-rendered only when stdout is a
// terminal so piped output stays clean.
func displayReply(reply string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(reply))
		return
	}
	fmt.Println(format.PlainText(reply))
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk sends a single question and prints the reply. The question
// comes from the arguments, or from stdin when piped in.
func HandleAsk(args Args) int {
	query := strings.TrimSpace(args.Query)

	// Piped input becomes the question when none was given.
	if query == "" && !IsTTY() {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, 64*1024))
		if err == nil {
			query = strings.TrimSpace(string(data))
		}
	}

	if query == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No question given."))
		fmt.Fprintln(os.Stderr, mutedStyle.Render(`Usage: chai ask "your question"`))
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Config error:"), err)
		return 1
	}

	client := newClientFromConfig(cfg)
	history := []chai.HistoryEntry{
		{Sender: cfg.Persona.UserName, Message: query},
	}

	if !args.Quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Thinking..."))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	outcome := client.Send(ctx, history)
	switch outcome.Kind {
	case chai.KindSuccess:
		displayReply(outcome.Text)
		return 0

	case chai.KindTransientFailure:
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Service unavailable:"), outcome.Err)
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Try again in a moment."))
		return 1

	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Request failed:"), outcome.Err)
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Check your API key: chai config set api.key <key>"))
		return 1
	}
}

// newClientFromConfig builds a chat client from the loaded settings.
func newClientFromConfig(cfg *config.Config) *chai.Client {
	return chai.NewClient(cfg.API.Key).
		WithBaseURL(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.API.MaxRetries).
		WithPersona(cfg.Persona.BotName, cfg.Persona.UserName).
		WithMemory(cfg.Persona.SafetyPrompt)
}
