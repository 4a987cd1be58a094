// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/model"
	"github.com/lihong-zhang1/CHAI-Chatbot-Desktop-App/internal/util"
)

// currentFile holds the active session between runs.
const currentFile = "current.json"

// previewMaxLen bounds the preview shown in session listings.
const previewMaxLen = 80

// =============================================================================
// CONVERSATION METADATA
// =============================================================================

// ConversationMeta is the lightweight listing view of a saved
// conversation, built without keeping the full message log in memory.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore handles conversation persistence on disk.
type ConversationStore struct {
	// BaseDir is the directory holding conversation files.
	BaseDir string

	// MaxConversations bounds stored conversations (0 = unlimited).
	// Oldest conversations are deleted first when the bound is hit.
	MaxConversations int
}

// NewConversationStore creates a store rooted at ~/.chai/conversations.
func NewConversationStore() (*ConversationStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewConversationStoreWithDir(filepath.Join(homeDir, ".chai", "conversations"))
}

// NewConversationStoreWithDir creates a store with a custom directory.
func NewConversationStoreWithDir(baseDir string) (*ConversationStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &ConversationStore{
		BaseDir:          baseDir,
		MaxConversations: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation and returns its ID. Empty conversations
// are not written.
func (s *ConversationStore) Save(conv *model.Conversation) (string, error) {
	if conv.IsEmpty() {
		return "", ErrEmptyConversation
	}

	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}

	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}

	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxConversations > 0 {
		s.enforceLimit()
	}

	return conv.ID, nil
}

// enforceLimit removes the oldest conversations when over the bound.
// The current-session file is never counted or removed here.
func (s *ConversationStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxConversations
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a conversation by ID.
func (s *ConversationStore) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

// LoadByIndex loads a conversation by its position in the listing,
// where 0 is the most recently updated.
func (s *ConversationStore) LoadByIndex(index int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrConversationNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// CURRENT SESSION
// =============================================================================

// SaveCurrent persists the active session so it can be resumed after a
// restart. Unlike Save, an empty conversation clears the session file.
func (s *ConversationStore) SaveCurrent(conv *model.Conversation) error {
	path := filepath.Join(s.BaseDir, currentFile)

	if conv == nil || conv.IsEmpty() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// LoadCurrent restores the active session saved by SaveCurrent.
// Returns ErrConversationNotFound when no session file exists.
func (s *ConversationStore) LoadCurrent() (*model.Conversation, error) {
	data, err := os.ReadFile(filepath.Join(s.BaseDir, currentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns metadata for all saved conversations, most recently
// updated first. Corrupted files are skipped rather than failing the
// whole listing.
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ConversationMeta{}, nil
		}
		return nil, err
	}

	var metas []ConversationMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if entry.Name() == currentFile {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		conv, err := s.Load(id)
		if err != nil {
			continue
		}

		metas = append(metas, ConversationMeta{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: conv.MessageCount(),
			Preview:      firstUserPreview(conv),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// firstUserPreview returns the first user message, truncated for
// display.
func firstUserPreview(conv *model.Conversation) string {
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleUser && msg.Content != "" {
			preview := strings.ReplaceAll(msg.Content, "\n", " ")
			return util.TruncateRunes(preview, previewMaxLen)
		}
	}
	return ""
}

// Search finds conversations whose title or preview matches the query,
// case-insensitively.
func (s *ConversationStore) Search(query string) ([]ConversationMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []ConversationMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// SearchMessages finds conversations where any message body contains
// the query, case-insensitively. An empty query lists everything.
func (s *ConversationStore) SearchMessages(query string) ([]ConversationMeta, error) {
	if query == "" {
		return s.List()
	}

	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []ConversationMeta

	for _, meta := range all {
		conv, err := s.Load(meta.ID)
		if err != nil {
			continue
		}

		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, meta)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a conversation by ID.
func (s *ConversationStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved conversations, including the current-session
// file.
func (s *ConversationStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	return nil
}

// filePath returns the file path for a conversation ID.
func (s *ConversationStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList renders conversation metadata as an aligned table
// for terminal display.
func FormatSessionList(metas []ConversationMeta) string {
	if len(metas) == 0 {
		return "No saved conversations."
	}

	var sb strings.Builder
	sb.WriteString("Conversations:\n")
	sb.WriteString("------------------------------------------------------------\n")
	sb.WriteString(pad("ID", 10) + " " + pad("Updated", 18) + " " + pad("Msgs", 5) + " Title\n")
	sb.WriteString("------------------------------------------------------------\n")

	for _, m := range metas {
		id := util.TruncateRunes(m.ID, 8)
		updated := m.UpdatedAt.Format("2006-01-02 15:04")
		title := util.TruncateRunes(m.Title, 40)
		if title == "" {
			title = util.TruncateRunes(m.Preview, 40)
		}

		sb.WriteString(pad(id, 10) + " " +
			pad(updated, 18) + " " +
			pad(util.IntToString(m.MessageCount), 5) + " " +
			title + "\n")
	}
	return sb.String()
}

// pad right-pads a string to width with spaces.
func pad(s string, width int) string {
	if n := util.RuneLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// =============================================================================
// ERRORS
// =============================================================================

// ConversationError is a storage-level error that supports errors.Is
// comparison against the sentinel values below.
type ConversationError struct {
	Message string
}

func (e *ConversationError) Error() string {
	return e.Message
}

func (e *ConversationError) Is(target error) bool {
	t, ok := target.(*ConversationError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrConversationNotFound is returned when a conversation doesn't exist.
var ErrConversationNotFound = &ConversationError{Message: "conversation not found"}

// ErrEmptyConversation is returned when saving a conversation with no
// messages.
var ErrEmptyConversation = &ConversationError{Message: "conversation has no messages"}
