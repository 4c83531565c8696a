package providers

import (
	"context"
	"time"

	"github.com/jackzampolin/docview/internal/types"
	"github.com/jackzampolin/docview/internal/upload"
)

// Extractor sends a document to a vision extraction service.
type Extractor interface {
	// Name returns the provider identifier (e.g., "landingai").
	Name() string

	// Extract uploads one document and returns its extracted content.
	Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error)
}

// Parser re-runs extraction for a document the proxy already knows.
type Parser interface {
	Parse(ctx context.Context, documentID string) (*types.DocumentResponse, error)
}

// ChatBackend answers questions about an extracted document.
type ChatBackend interface {
	// Name returns the backend identifier (e.g., "proxy", "openai").
	Name() string

	// Chat sends the full document and one user message, returning the reply.
	Chat(ctx context.Context, doc *types.DocumentResponse, message string) (*types.ChatResponse, error)

	// SuggestQuestions returns follow-up questions for the document.
	SuggestQuestions(ctx context.Context, doc *types.DocumentResponse) ([]string, error)
}

// ExtractRequest is one document upload.
type ExtractRequest struct {
	FileName string
	Kind     upload.Kind
	Data     []byte

	IncludeMarginalia         bool
	IncludeMetadataInMarkdown bool
	// Pages optionally restricts extraction, e.g. "0,2-4".
	Pages string
}

// ExtractResult is the response from an Extractor.
type ExtractResult struct {
	Document types.DocumentResponse `json:"data"`

	// Sample is set when the canned sample document stands in for an
	// unreachable extraction service.
	Sample bool `json:"sample,omitempty"`

	ExecutionTime time.Duration `json:"execution_time"`
}
