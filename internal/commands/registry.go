// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/config"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/storage"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is a slash command the user can run from the input box.
type Command struct {
	// Name is the primary command name (e.g. "/help")
	Name string

	// Aliases are alternative names (e.g. "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g. "/load <id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category groups commands in the help display
	Category string
}

// ArgDef defines one argument of a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum arguments
	Values []string
}

// ArgType drives argument completion and validation.
type ArgType int

const (
	ArgTypeString  ArgType = iota // free-form string
	ArgTypeSession                // saved conversation ID
	ArgTypeEnum                   // one of predefined values
	ArgTypeConfig                 // config key
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry populated with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Category:    "Navigation",
		Handler:     HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit chai",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new conversation",
		Category:    "Conversation",
		Handler:     HandleNew,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear conversation history",
		Category:    "Conversation",
		Handler:     HandleClear,
	})

	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save current conversation",
		Usage:       "/save [title]",
		Args: []ArgDef{
			{Name: "title", Type: ArgTypeString, Description: "Optional title for the conversation"},
		},
		Category: "Conversation",
		Handler:  HandleSave,
	})

	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/list"},
		Description: "List saved conversations",
		Category:    "Conversation",
		Handler:     HandleSessions,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l", "/resume"},
		Description: "Load a saved conversation",
		Usage:       "/load <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeSession, Description: "ID of the conversation to load"},
		},
		Category: "Conversation",
		Handler:  HandleLoad,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export conversation to a file",
		Usage:       "/export [markdown|json]",
		Args: []ArgDef{
			{Name: "format", Type: ArgTypeEnum, Values: []string{"markdown", "md", "json"}, Description: "Export format"},
		},
		Category: "Conversation",
		Handler:  HandleExport,
	})

	r.Register(&Command{
		Name:        "/copy",
		Description: "Copy last reply to clipboard",
		Category:    "Conversation",
		Handler:     HandleCopy,
	})

	r.Register(&Command{
		Name:        "/config",
		Description: "Show or edit configuration",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Type: ArgTypeConfig, Description: "Config key to show or set"},
			{Name: "value", Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  HandleConfig,
	})

	r.Register(&Command{
		Name:        "/theme",
		Description: "Change color theme",
		Usage:       "/theme <dark|light|auto>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeEnum, Values: []string{"dark", "light", "auto"}, Description: "Theme name"},
		},
		Category: "Settings",
		Handler:  HandleTheme,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context gives handlers access to application services without
// coupling them to the chat screen. Fields may be nil; handlers fall
// back to request messages the screen resolves itself.
type Context struct {
	// Config is the active configuration
	Config *config.Config

	// Storage persists conversations
	Storage *storage.ConversationStore
}

// NewContext creates a handler context.
func NewContext(cfg *config.Config, store *storage.ConversationStore) *Context {
	return &Context{
		Config:  cfg,
		Storage: store,
	}
}

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion is one suggestion offered while the user types.
type Completion struct {
	// Value to insert
	Value string

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int
}
