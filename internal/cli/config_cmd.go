// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig shows and edits settings from the command line.
func HandleConfig(args Args) int {
	parser := NewArgParser(args.Raw)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Config error:"), err)
		return 1
	}

	switch parser.Subcommand() {
	case "", "show":
		return configShow(cfg, args.JSON)

	case "get":
		return configGet(cfg, parser.Positional(1))

	case "set":
		key := parser.Positional(1)
		value := strings.Join(parser.PositionalFrom(2), " ")
		return configSet(cfg, key, value)

	case "path":
		dir, err := config.ConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
			return 1
		}
		fmt.Println(dir)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Unknown subcommand:"), parser.Subcommand())
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Subcommands: show, get, set, path"))
		return 1
	}
}

func configShow(cfg *config.Config, asJSON bool) int {
	if asJSON {
		// API key stays masked even in machine output.
		values := make(map[string]string)
		for _, key := range config.Keys() {
			if v, err := cfg.Get(key); err == nil {
				values[key] = v
			}
		}
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Encoding failed:"), err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Println(titleStyle.Render("chai configuration"))
	for _, key := range config.Keys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %s%s\n", labelStyle.Render(key), valueStyle.Render(v))
	}
	return 0
}

func configGet(cfg *config.Config, key string) int {
	if key == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("No key given."))
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Usage: chai config get <key>"))
		return 1
	}
	v, err := cfg.Get(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
		return 1
	}
	fmt.Println(v)
	return 0
}

func configSet(cfg *config.Config, key, value string) int {
	if key == "" || value == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Key and value are required."))
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Usage: chai config set <key> <value>"))
		return 1
	}
	if err := cfg.Set(key, value); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Invalid value:"), err)
		return 1
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Save failed:"), err)
		return 1
	}

	shown := value
	if key == "api.key" {
		shown, _ = cfg.Get(key)
	}
	fmt.Println(successStyle.Render("Set " + key + " = " + shown))
	return 0
}
