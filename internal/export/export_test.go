// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage("what's your favorite season?")
	conv.AddAssistantMessage("I love autumn! The colors are **beautiful**.")
	return conv
}

func TestMarkdownExport(t *testing.T) {
	opts := DefaultOptions()
	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "### You") {
		t.Errorf("missing user label, got:\n%s", text)
	}
	if !strings.Contains(text, "### CHAI Friend") {
		t.Errorf("missing bot label, got:\n%s", text)
	}
	if !strings.Contains(text, "what's your favorite season?") {
		t.Error("missing user message content")
	}
	if !strings.HasPrefix(text, "---\ntitle:") {
		t.Error("expected YAML frontmatter when metadata is enabled")
	}
}

func TestMarkdownExportCustomPersona(t *testing.T) {
	opts := DefaultOptions()
	opts.BotName = "Mochi"
	opts.UserName = "Sam"

	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out), "### Mochi") {
		t.Error("custom bot name not used")
	}
	if !strings.Contains(string(out), "### Sam") {
		t.Error("custom user name not used")
	}
}

func TestMarkdownExportNoMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := string(out)
	if strings.HasPrefix(text, "---\ntitle:") {
		t.Error("frontmatter should be omitted")
	}
	if strings.Contains(text, "<sub>") {
		t.Error("timestamps should be omitted")
	}
}

func TestMarkdownExportEmpty(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(model.NewConversation())
	if err == nil {
		t.Error("expected error for empty conversation")
	}
	_, err = NewMarkdownExporter(nil).Export(nil)
	if err == nil {
		t.Error("expected error for nil conversation")
	}
}

func TestMarkdownErrorMessageLabel(t *testing.T) {
	conv := model.NewConversation()
	conv.AddUserMessage("hi")
	conv.AddErrorMessage("service unavailable")

	out, err := NewMarkdownExporter(nil).Export(conv)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out), "### [Error]") {
		t.Error("error message should be labeled as such")
	}
}

func TestJSONExportRoundTrip(t *testing.T) {
	conv := sampleConversation()
	out, err := NewJSONExporter().Export(conv)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded model.Conversation
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if decoded.ID != conv.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, conv.ID)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(decoded.Messages))
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := Markdown(sampleConversation(), opts)
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Errorf("unexpected extension on %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	path, err = JSON(sampleConversation(), opts)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if filepath.Ext(path) != ".json" {
		t.Errorf("unexpected extension on %q", path)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello_world"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "conversation"},
		{"what?", "what-"},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
