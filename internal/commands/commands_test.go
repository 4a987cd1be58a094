// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package commands

import (
	"reflect"
	"testing"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
)

func TestParsePlainText(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("hello there, how are you?")
	if result.IsCommand {
		t.Error("plain text should not be a command")
	}
	if result.Command != nil {
		t.Error("plain text should not resolve a command")
	}
}

func TestParseCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/load abc123")
	if !result.IsCommand {
		t.Fatal("expected a command")
	}
	if result.Command == nil || result.Command.Name != "/load" {
		t.Fatalf("Command = %v, want /load", result.Command)
	}
	if len(result.Args) != 1 || result.Args[0] != "abc123" {
		t.Errorf("Args = %v, want [abc123]", result.Args)
	}
	if result.RawArgs != "abc123" {
		t.Errorf("RawArgs = %q, want %q", result.RawArgs, "abc123")
	}
}

func TestParseAlias(t *testing.T) {
	p := NewParser(NewRegistry())

	for alias, want := range map[string]string{
		"/h":    "/help",
		"/?":    "/help",
		"/q":    "/quit",
		"/n":    "/new",
		"/list": "/sessions",
	} {
		result := p.Parse(alias)
		if result.Command == nil {
			t.Errorf("alias %s did not resolve", alias)
			continue
		}
		if result.Command.Name != want {
			t.Errorf("alias %s resolved to %s, want %s", alias, result.Command.Name, want)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/frobnicate")
	if !result.IsCommand {
		t.Error("unknown command is still a command")
	}
	if result.Command != nil {
		t.Error("unknown command should not resolve")
	}
	if result.CommandName != "/frobnicate" {
		t.Errorf("CommandName = %q", result.CommandName)
	}
}

func TestParseCaseInsensitiveName(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/HELP")
	if result.Command == nil || result.Command.Name != "/help" {
		t.Error("command names should match case-insensitively")
	}
}

func TestSplitCommandLineQuotes(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`/save "my chat"`, []string{"/save", "my chat"}},
		{`/save 'single quoted'`, []string{"/save", "single quoted"}},
		{`/save plain words`, []string{"/save", "plain", "words"}},
		{`/save "escaped \" quote"`, []string{"/save", `escaped " quote`}},
		{"", nil},
	}
	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	load := r.Get("/load")
	if err := ValidateArgs(load, nil); err == nil {
		t.Error("missing required arg should fail")
	}
	if err := ValidateArgs(load, []string{"abc"}); err != nil {
		t.Errorf("valid args rejected: %v", err)
	}

	theme := r.Get("/theme")
	if err := ValidateArgs(theme, []string{"neon"}); err == nil {
		t.Error("invalid enum value should fail")
	}
	if err := ValidateArgs(theme, []string{"DARK"}); err != nil {
		t.Errorf("enum matching should be case-insensitive: %v", err)
	}
}

func TestRegistryByCategory(t *testing.T) {
	byCat := NewRegistry().ByCategory()

	if len(byCat["Conversation"]) == 0 {
		t.Error("expected conversation commands")
	}
	if len(byCat["Navigation"]) == 0 {
		t.Error("expected navigation commands")
	}
}

// runCmd executes a handler's tea.Cmd and returns the message.
func runCmd(t *testing.T, ctx *Context, name string, args []string) interface{} {
	t.Helper()
	cmd := NewRegistry().Get(name)
	if cmd == nil {
		t.Fatalf("command %s not registered", name)
	}
	teaCmd := cmd.Handler(ctx, args)
	if teaCmd == nil {
		t.Fatalf("%s returned nil command", name)
	}
	return teaCmd()
}

func TestHandlerMessages(t *testing.T) {
	ctx := NewContext(nil, nil)

	if _, ok := runCmd(t, ctx, "/help", nil).(ShowHelpMsg); !ok {
		t.Error("/help should emit ShowHelpMsg")
	}
	if _, ok := runCmd(t, ctx, "/new", nil).(NewConversationMsg); !ok {
		t.Error("/new should emit NewConversationMsg")
	}
	if _, ok := runCmd(t, ctx, "/clear", nil).(ClearConversationMsg); !ok {
		t.Error("/clear should emit ClearConversationMsg")
	}
	if _, ok := runCmd(t, ctx, "/copy", nil).(CopyToClipboardMsg); !ok {
		t.Error("/copy should emit CopyToClipboardMsg")
	}

	msg := runCmd(t, ctx, "/save", []string{"rainy", "day"})
	save, ok := msg.(SaveConversationMsg)
	if !ok {
		t.Fatalf("/save emitted %T", msg)
	}
	if save.Title != "rainy day" {
		t.Errorf("Title = %q", save.Title)
	}
}

func TestHandleExportFormats(t *testing.T) {
	ctx := NewContext(nil, nil)

	msg := runCmd(t, ctx, "/export", nil)
	if exp, ok := msg.(ExportConversationMsg); !ok || exp.Format != "markdown" {
		t.Errorf("default export = %v", msg)
	}

	msg = runCmd(t, ctx, "/export", []string{"md"})
	if exp, ok := msg.(ExportConversationMsg); !ok || exp.Format != "markdown" {
		t.Errorf("md alias = %v", msg)
	}

	msg = runCmd(t, ctx, "/export", []string{"json"})
	if exp, ok := msg.(ExportConversationMsg); !ok || exp.Format != "json" {
		t.Errorf("json export = %v", msg)
	}

	if _, ok := runCmd(t, ctx, "/export", []string{"pdf"}).(ErrorMsg); !ok {
		t.Error("unsupported format should emit ErrorMsg")
	}
}

func TestHandleSessionsWithStorage(t *testing.T) {
	store, err := storage.NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(nil, store)

	msg := runCmd(t, ctx, "/sessions", nil)
	list, ok := msg.(SessionListMsg)
	if !ok {
		t.Fatalf("/sessions emitted %T", msg)
	}
	if list.Error != nil {
		t.Errorf("unexpected error: %v", list.Error)
	}
	if len(list.Sessions) != 0 {
		t.Errorf("expected empty listing, got %d", len(list.Sessions))
	}
}

func TestHandleLoadFallsBackToSessions(t *testing.T) {
	store, err := storage.NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(nil, store)

	if _, ok := runCmd(t, ctx, "/load", nil).(SessionListMsg); !ok {
		t.Error("/load without args should list sessions")
	}

	msg := runCmd(t, ctx, "/load", []string{"missing-id"})
	loaded, ok := msg.(ConversationLoadedMsg)
	if !ok {
		t.Fatalf("/load emitted %T", msg)
	}
	if loaded.Error == nil {
		t.Error("loading a missing conversation should error")
	}
}

func TestCompleteCommands(t *testing.T) {
	c := NewCompleter(NewRegistry())

	completions := c.Complete("/s")
	if len(completions) == 0 {
		t.Fatal("expected completions for /s")
	}
	for _, comp := range completions {
		if comp.Value[:2] != "/s" {
			t.Errorf("completion %q does not match prefix", comp.Value)
		}
	}
}

func TestCompleteEnumArg(t *testing.T) {
	c := NewCompleter(NewRegistry())

	completions := c.Complete("/theme d")
	if len(completions) != 1 || completions[0].Value != "dark" {
		t.Errorf("completions = %v, want [dark]", completions)
	}
}

func TestCompleteSessionArg(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.SessionsFn = func() []string {
		return []string{"abc123", "abd456", "xyz789"}
	}

	completions := c.Complete("/load ab")
	if len(completions) != 2 {
		t.Fatalf("got %d completions, want 2", len(completions))
	}
}

func TestCompletePlainTextGivesNothing(t *testing.T) {
	c := NewCompleter(NewRegistry())
	if got := c.Complete("hello"); got != nil {
		t.Errorf("plain text completion = %v", got)
	}
}
