// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completer offers tab completion for command names and arguments.
type Completer struct {
	registry *Registry

	// SessionsFn returns saved conversation IDs for /load completion.
	// Set by the application; nil disables session completion.
	SessionsFn func() []string

	// ConfigKeysFn returns config keys for /config completion.
	ConfigKeysFn func() []string
}

// NewCompleter creates a completer backed by the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns suggestions for the input as typed so far.
func (c *Completer) Complete(input string) []Completion {
	trimmed := strings.TrimLeft(input, " \t")
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	parts := splitCommandLine(trimmed)
	if len(parts) == 0 {
		return c.completeCommands("")
	}

	// Still typing the command name.
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := ""
	if strings.HasSuffix(input, " ") {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}

	return c.completeArg(cmd, argIndex, partial)
}

// =============================================================================
// COMMAND NAME COMPLETION
// =============================================================================

func (c *Completer) completeCommands(partial string) []Completion {
	partial = strings.ToLower(partial)
	var completions []Completion

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(strings.ToLower(cmd.Name), partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Description: cmd.Description,
				Score:       matchScore(cmd.Name, partial),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// ARGUMENT COMPLETION
// =============================================================================

func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	var candidates []string
	switch cmd.Args[argIndex].Type {
	case ArgTypeEnum:
		candidates = cmd.Args[argIndex].Values
	case ArgTypeSession:
		if c.SessionsFn != nil {
			candidates = c.SessionsFn()
		}
	case ArgTypeConfig:
		if c.ConfigKeysFn != nil {
			candidates = c.ConfigKeysFn()
		}
	default:
		return nil
	}

	partial = strings.ToLower(partial)
	var completions []Completion
	for _, candidate := range candidates {
		if strings.HasPrefix(strings.ToLower(candidate), partial) {
			completions = append(completions, Completion{
				Value: candidate,
				Score: matchScore(candidate, partial),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// RANKING
// =============================================================================

// matchScore ranks exact matches above prefix matches, shorter
// candidates above longer ones.
func matchScore(candidate, partial string) int {
	candidate = strings.ToLower(candidate)
	if candidate == partial {
		return 1000
	}
	return 100 - len(candidate)
}

func sortCompletions(completions []Completion) {
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}
