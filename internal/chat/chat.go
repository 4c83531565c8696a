// Package chat keeps the question-and-answer transcript for one document.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/types"
)

// FallbackReply is the assistant entry recorded when a turn fails.
const FallbackReply = "An error occurred. Please try again."

// ErrEmptyMessage is returned for blank user input; nothing is recorded.
var ErrEmptyMessage = errors.New("message is empty")

// Conversation is a transcript plus the current suggested questions.
// It is safe for concurrent use; the lock is never held across a backend call.
type Conversation struct {
	mu          sync.RWMutex
	messages    []types.ChatMessage
	suggestions []string
}

// Snapshot is a copy of a Conversation.
type Snapshot struct {
	Messages           []types.ChatMessage `json:"messages"`
	SuggestedQuestions []string            `json:"suggestedQuestions"`
}

// New returns an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// Turn records message, asks backend once, and records the reply. On
// failure the fallback reply is recorded and the backend error returned.
// The returned message is the assistant entry that was appended.
func (c *Conversation) Turn(ctx context.Context, backend providers.ChatBackend, doc *types.DocumentResponse, message string) (types.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return types.ChatMessage{}, ErrEmptyMessage
	}

	c.append(types.ChatMessage{Role: types.RoleUser, Content: message})

	resp, err := backend.Chat(ctx, doc, message)
	if err == nil && strings.TrimSpace(resp.Message) == "" {
		err = errors.New("chat backend returned an empty message")
		if resp.Error != "" {
			err = errors.New(resp.Error)
		}
	}
	if err != nil {
		reply := types.ChatMessage{Role: types.RoleAssistant, Content: FallbackReply}
		c.append(reply)
		return reply, err
	}

	reply := types.ChatMessage{
		Role:         types.RoleAssistant,
		Content:      resp.Message,
		SourceChunks: append([]string(nil), resp.SourceChunks...),
	}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	if len(resp.SuggestedQuestions) > 0 {
		c.suggestions = append([]string(nil), resp.SuggestedQuestions...)
	}
	c.mu.Unlock()

	return reply, nil
}

// RefreshSuggestions replaces the suggested questions. On failure the
// previous list is kept.
func (c *Conversation) RefreshSuggestions(ctx context.Context, backend providers.ChatBackend, doc *types.DocumentResponse) ([]string, error) {
	qs, err := backend.SuggestQuestions(ctx, doc)
	if err != nil {
		return c.Suggestions(), err
	}

	c.mu.Lock()
	c.suggestions = append([]string(nil), qs...)
	c.mu.Unlock()
	return qs, nil
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []types.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]types.ChatMessage(nil), c.messages...)
}

// Suggestions returns a copy of the suggested questions.
func (c *Conversation) Suggestions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.suggestions...)
}

// Len returns the number of transcript entries.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Snapshot returns the transcript and suggestions together.
func (c *Conversation) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Messages:           append([]types.ChatMessage{}, c.messages...),
		SuggestedQuestions: append([]string{}, c.suggestions...),
	}
}

// Reset clears the transcript and suggestions, as when a new document loads.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.suggestions = nil
}

func (c *Conversation) append(m types.ChatMessage) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}
