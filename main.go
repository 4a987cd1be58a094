// chai - a desktop chat client for the CHAI conversational AI service.
//
// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/cli"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	closeLog := setupDebugLog(args.Verbose)
	defer closeLog()

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(args))
	case cli.CmdChat:
		os.Exit(cli.HandleChat(args))
	case cli.CmdSessions:
		os.Exit(cli.HandleSessions(args))
	case cli.CmdConfig:
		os.Exit(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runTUI starts the full-screen chat interface.
func runTUI() {
	cfg := config.Global()

	m := chat.New(cfg, Version)
	program := tea.NewProgram(m, tea.WithAltScreen())

	// Pick up config edits made outside the app while it runs.
	watcher, err := config.NewWatcher(func(reloaded *config.Config) {
		program.Send(chat.ConfigReloadedMsg{Config: reloaded})
	})
	if err == nil {
		if err := watcher.Watch(); err != nil {
			log.Printf("config watch unavailable: %v", err)
		}
		defer watcher.Close()
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupDebugLog routes the standard logger to ~/.chai/debug.log when
// requested, and silences it otherwise so the TUI stays clean.
func setupDebugLog(verbose bool) func() {
	if !verbose && os.Getenv("CHAI_DEBUG") == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return func() {}
	}
	if err := config.EnsureConfigDir(); err != nil {
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return func() {}
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("chai %s starting", Version)
	return func() { f.Close() }
}
