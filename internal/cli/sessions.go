// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/export"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
)

// =============================================================================
// SESSIONS COMMAND
// =============================================================================

// HandleSessions manages saved conversations from the command line.
func HandleSessions(args Args) int {
	parser := NewArgParser(args.Raw)

	store, err := storage.NewConversationStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Storage error:"), err)
		return 1
	}

	switch parser.Subcommand() {
	case "", "list", "ls", "l":
		return sessionsList(store, args.JSON)

	case "show":
		return sessionsShow(store, parser.Positional(1))

	case "search":
		return sessionsSearch(store, strings.Join(parser.PositionalFrom(1), " "))

	case "export":
		return sessionsExport(store, parser)

	case "delete", "rm":
		return sessionsDelete(store, parser)

	case "clear", "delete-all":
		return sessionsClear(store, parser)

	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Unknown subcommand:"), parser.Subcommand())
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Subcommands: list, show, search, export, delete, clear"))
		return 1
	}
}

func sessionsList(store *storage.ConversationStore, asJSON bool) int {
	metas, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Listing failed:"), err)
		return 1
	}

	if asJSON {
		data, err := json.MarshalIndent(metas, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Encoding failed:"), err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Println(storage.FormatSessionList(metas))
	return 0
}

func sessionsShow(store *storage.ConversationStore, id string) int {
	conv, err := resolveConversation(store, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Not found:"), err)
		return 1
	}

	cfg, _ := config.Load()
	botName, userName := "CHAI Friend", "You"
	if cfg != nil {
		botName, userName = cfg.Persona.BotName, cfg.Persona.UserName
	}

	fmt.Println(titleStyle.Render(conv.Title))
	fmt.Println(mutedStyle.Render(conv.UpdatedAt.Format("Jan 2, 2006 3:04 PM")))
	fmt.Println()
	for _, msg := range conv.Messages {
		speaker := userName
		style := promptStyle
		switch {
		case msg.IsError:
			speaker = "[Error]"
			style = errorStyle
		case msg.Role == model.RoleAssistant:
			speaker = botName
			style = botStyle
		case msg.Role == model.RoleSystem:
			speaker = "[System]"
			style = mutedStyle
		}
		fmt.Printf("%s %s\n\n", style.Render(speaker+":"), msg.Content)
	}
	return 0
}

func sessionsSearch(store *storage.ConversationStore, query string) int {
	if query == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No search text given."))
		return 1
	}
	metas, err := store.SearchMessages(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Search failed:"), err)
		return 1
	}
	if len(metas) == 0 {
		fmt.Println(mutedStyle.Render("No conversations match " + query + "."))
		return 0
	}
	fmt.Println(storage.FormatSessionList(metas))
	return 0
}

func sessionsExport(store *storage.ConversationStore, parser *ArgParser) int {
	conv, err := resolveConversation(store, parser.Positional(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Not found:"), err)
		return 1
	}

	opts := export.DefaultOptions()
	if cfg, err := config.Load(); err == nil {
		opts.BotName = cfg.Persona.BotName
		opts.UserName = cfg.Persona.UserName
	}
	if dir := parser.Flag("output"); dir != "" {
		opts.OutputDir = dir
	}

	var exporter export.Exporter
	switch strings.ToLower(parser.FlagOrDefault("format", "markdown")) {
	case "json":
		exporter = export.NewJSONExporter()
	case "markdown", "md":
		exporter = export.NewMarkdownExporter(opts)
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("Unknown format; use markdown or json."))
		return 1
	}

	path, err := export.ToFile(conv, exporter, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Export failed:"), err)
		return 1
	}
	fmt.Println(successStyle.Render("Exported to " + path))
	return 0
}

func sessionsDelete(store *storage.ConversationStore, parser *ArgParser) int {
	id := parser.Positional(1)
	if id == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No conversation ID given."))
		return 1
	}
	if !parser.BoolFlag("confirm") {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Deletion requires --confirm."))
		return 1
	}

	conv, err := resolveConversation(store, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Not found:"), err)
		return 1
	}
	if err := store.Delete(conv.ID); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Delete failed:"), err)
		return 1
	}
	fmt.Println(successStyle.Render("Deleted " + conv.Title))
	return 0
}

func sessionsClear(store *storage.ConversationStore, parser *ArgParser) int {
	if !parser.BoolFlag("confirm") {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Clearing all conversations requires --confirm."))
		return 1
	}
	if err := store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Clear failed:"), err)
		return 1
	}
	fmt.Println(successStyle.Render("All conversations deleted."))
	return 0
}

// resolveConversation accepts either a conversation ID or a 1-based
// list index, matching what "sessions list" prints.
func resolveConversation(store *storage.ConversationStore, ref string) (*model.Conversation, error) {
	if ref == "" {
		return nil, storage.ErrConversationNotFound
	}
	if idx, err := parseIndex(ref); err == nil {
		return store.LoadByIndex(idx)
	}
	return store.Load(ref)
}

// parseIndex parses a 1-based list position.
func parseIndex(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not an index: %s", s)
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		return 0, fmt.Errorf("not an index: %s", s)
	}
	return n - 1, nil
}
