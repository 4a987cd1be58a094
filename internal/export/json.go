// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package export

import (
	"encoding/json"
	"fmt"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
)

// JSONExporter renders a conversation as pretty-printed JSON, the same
// shape the storage layer writes.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a conversation to indented JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}
	return json.MarshalIndent(conv, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
