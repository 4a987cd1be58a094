// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"testing"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("no args: cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"ask", "hello"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"sessions"}, CmdSessions},
		{[]string{"session", "list"}, CmdSessions},
		{[]string{"history"}, CmdSessions},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
		{[]string{"tui"}, CmdTUI},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(tt.argv)
		if cmd != tt.want {
			t.Errorf("parseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseAskQuery(t *testing.T) {
	_, args := parseArgs([]string{"ask", "how", "are", "you"})
	if args.Query != "how are you" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseAskSkipsFlags(t *testing.T) {
	_, args := parseArgs([]string{"--json", "ask", "hello", "--quiet"})
	if !args.JSON {
		t.Error("JSON flag not picked up")
	}
	if args.Query != "hello" {
		t.Errorf("Query = %q, want %q", args.Query, "hello")
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"-q", "--verbose", "chat"})
	if cmd != CmdChat {
		t.Errorf("cmd = %v, want CmdChat", cmd)
	}
	if !args.Quiet || !args.Verbose {
		t.Errorf("flags = quiet:%v verbose:%v", args.Quiet, args.Verbose)
	}
}

func TestParseUnknownFallsThroughToTUI(t *testing.T) {
	cmd, args := parseArgs([]string{"something-else"})
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
	if len(args.Raw) != 1 || args.Raw[0] != "something-else" {
		t.Errorf("Raw = %v", args.Raw)
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserSubcommandAndFlags(t *testing.T) {
	p := NewArgParser([]string{"export", "3", "--format", "json", "--confirm", "--output=./out"})

	if p.Subcommand() != "export" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Positional(1) != "3" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
	if p.Flag("format") != "json" {
		t.Errorf("Flag(format) = %q", p.Flag("format"))
	}
	if p.Flag("output") != "./out" {
		t.Errorf("Flag(output) = %q", p.Flag("output"))
	}
	if !p.BoolFlag("confirm") {
		t.Error("BoolFlag(confirm) = false")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--confirm=false", "--json=true"})
	if p.BoolFlag("confirm") {
		t.Error("confirm=false parsed as true")
	}
	if !p.BoolFlag("json") {
		t.Error("json=true parsed as false")
	}
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser([]string{"list"})
	if got := p.FlagOrDefault("format", "markdown"); got != "markdown" {
		t.Errorf("FlagOrDefault = %q", got)
	}
	if got := p.FlagIntOrDefault("limit", 50); got != 50 {
		t.Errorf("FlagIntOrDefault = %d", got)
	}
	if p.Positional(5) != "" {
		t.Error("out-of-range positional not empty")
	}
}

func TestArgParserPositionalFrom(t *testing.T) {
	p := NewArgParser([]string{"search", "rainy", "day", "plans"})
	got := p.PositionalFrom(1)
	if len(got) != 3 || got[0] != "rainy" || got[2] != "plans" {
		t.Errorf("PositionalFrom(1) = %v", got)
	}
	if p.PositionalCount() != 4 {
		t.Errorf("PositionalCount = %d", p.PositionalCount())
	}
}

// =============================================================================
// INDEX PARSING
// =============================================================================

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"12", 11, false},
		{"0", 0, true},
		{"abc", 0, true},
		{"1a", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseIndex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIndex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseIndex(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
