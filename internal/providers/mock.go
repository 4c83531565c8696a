package providers

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/docview/internal/types"
)

const MockName = "mock"

// MockExtractor is an Extractor for testing and offline use.
type MockExtractor struct {
	Latency    time.Duration
	ShouldFail bool
	FailAfter  int // Fail after N requests (0 = never)
	// Document is returned by Extract; nil means the sample document.
	Document *types.DocumentResponse

	requestCount atomic.Int64
}

// NewMockExtractor creates a new mock extractor with sensible defaults.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{Latency: 10 * time.Millisecond}
}

// Name returns the provider identifier.
func (m *MockExtractor) Name() string {
	return MockName
}

// Extract returns the configured document after the simulated latency.
func (m *MockExtractor) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	start := time.Now()
	count := m.requestCount.Add(1)

	if m.ShouldFail {
		return nil, &APIError{Service: "extraction", Status: 500, Detail: "mock extractor configured to fail"}
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return nil, &APIError{Service: "extraction", Status: 500, Detail: fmt.Sprintf("mock extractor failed after %d requests", m.FailAfter)}
	}

	select {
	case <-time.After(m.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	doc := SampleDocument()
	if m.Document != nil {
		copied := *m.Document
		copied.Chunks = append([]types.DocumentChunk(nil), m.Document.Chunks...)
		copied.Errors = append([]types.PageError(nil), m.Document.Errors...)
		doc = &copied
	}

	return &ExtractResult{
		Document:      *doc,
		ExecutionTime: time.Since(start),
	}, nil
}

// RequestCount returns the number of requests made.
func (m *MockExtractor) RequestCount() int64 {
	return m.requestCount.Load()
}

// Reset resets the request counter.
func (m *MockExtractor) Reset() {
	m.requestCount.Store(0)
}

// MockChat is a ChatBackend that answers with the chunks matching the
// question's words.
type MockChat struct {
	Latency    time.Duration
	ShouldFail bool
	// Questions overrides the suggested questions.
	Questions []string

	requestCount atomic.Int64
}

// NewMockChat creates a new mock chat backend.
func NewMockChat() *MockChat {
	return &MockChat{Latency: 10 * time.Millisecond}
}

// Name returns the backend identifier.
func (m *MockChat) Name() string {
	return MockName
}

// Chat answers with the text of the first chunks sharing a word with message.
func (m *MockChat) Chat(ctx context.Context, doc *types.DocumentResponse, message string) (*types.ChatResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	var sources []string
	var quoted []string
	if doc != nil {
		words := strings.Fields(strings.ToLower(message))
		for _, ch := range doc.Chunks {
			text := strings.ToLower(ch.Text)
			for _, w := range words {
				if len(w) > 3 && strings.Contains(text, w) {
					sources = append(sources, ch.ChunkID)
					quoted = append(quoted, strings.TrimSpace(ch.Text))
					break
				}
			}
			if len(sources) == 3 {
				break
			}
		}
	}

	reply := "I could not find that in the document."
	if len(quoted) > 0 {
		reply = "From the document:\n\n" + strings.Join(quoted, "\n\n")
	}

	qs, _ := m.questions(doc)
	return &types.ChatResponse{
		Message:            reply,
		SourceChunks:       sources,
		SuggestedQuestions: qs,
	}, nil
}

// SuggestQuestions returns canned questions for the document.
func (m *MockChat) SuggestQuestions(ctx context.Context, doc *types.DocumentResponse) ([]string, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	return m.questions(doc)
}

func (m *MockChat) questions(doc *types.DocumentResponse) ([]string, error) {
	if len(m.Questions) > 0 {
		return append([]string(nil), m.Questions...), nil
	}
	qs := []string{"What is this document about?"}
	if doc != nil {
		for _, ch := range doc.Chunks {
			if ch.ChunkType == types.ChunkTable {
				qs = append(qs, "Summarize the table on page "+fmt.Sprint(pageLabel(ch))+".")
				break
			}
		}
	}
	return qs, nil
}

func (m *MockChat) simulate(ctx context.Context) error {
	m.requestCount.Add(1)
	if m.ShouldFail {
		return &APIError{Service: "chat", Status: 500, Detail: "mock chat configured to fail"}
	}
	select {
	case <-time.After(m.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestCount returns the number of requests made.
func (m *MockChat) RequestCount() int64 {
	return m.requestCount.Load()
}

func pageLabel(ch types.DocumentChunk) int {
	if p, ok := ch.FirstPage(); ok {
		return types.UIPage(p)
	}
	return 1
}

// Verify interfaces
var (
	_ Extractor   = (*MockExtractor)(nil)
	_ ChatBackend = (*MockChat)(nil)
)
