// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Ask-specific
	Query string

	// Raw args remaining after the command name
	Raw []string
}

const usageText = `chai - your AI companion in the terminal

Chai is a desktop chat client for the CHAI conversational AI service.
Run it bare for the full-screen chat interface, or use the subcommands
for one-shot and scripted use.

Usage:
  chai                        Start the chat interface (default)
  chai ask "question"         Ask a single question and exit
  chai chat                   Line-based chat for plain terminals
  chai sessions [subcommand]  Manage saved conversations
  chai config [show|get|set]  Configuration
  chai version                Show version information
  chai help                   Show this help

Session Commands:
  chai sessions list          List saved conversations
  chai sessions show <id>     Print a conversation transcript
  chai sessions search <text> Search titles and messages
  chai sessions export <id>   Export a conversation
    --format markdown|json    Export format (default: markdown)
  chai sessions delete <id>   Delete a conversation
    --confirm                 Required confirmation flag
  chai sessions clear         Delete all conversations
    --confirm                 Required confirmation flag

Config Commands:
  chai config show            Show all settings
  chai config get <key>       Show one setting
  chai config set <key> <value>  Change a setting

Global Flags:
  -q, --quiet     Minimal output
  --verbose       Write debug output to ~/.chai/debug.log
  --json          Machine-readable output where supported

Environment:
  CHAI_API_KEY    API key (overrides the config file)
  CHAI_BOT_NAME   Companion display name
  CHAI_DEBUG      Set to 1 to enable the debug log

Examples:
  chai                                Start chatting
  chai ask "How was your day?"        One question, one answer
  chai ask "Tell me a joke" | less    Plain output when piped
  chai sessions export 1 --format json > chat.json
  chai config set persona.bot_name "Luna"

Version: %s
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("chai version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command to run and its
// arguments. Unknown commands fall through to the TUI.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is the testable core of Parse.
func parseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(positionalOnly(remaining), " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "sessions", "session", "history":
		return CmdSessions, args

	case "config":
		return CmdConfig, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Not a command; hand everything back to the TUI.
		args.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, args
	}
}

// parseGlobalFlags extracts global flags and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for _, arg := range argv {
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// positionalOnly strips flag-shaped tokens, keeping the words that
// form the query.
func positionalOnly(argv []string) []string {
	var out []string
	for _, arg := range argv {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		out = append(out, arg)
	}
	return out
}
