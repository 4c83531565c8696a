package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jackzampolin/docview/internal/markdown"
	"github.com/jackzampolin/docview/internal/types"
)

const (
	OpenAIChatName         = "openai"
	openAIChatDefaultModel = "gpt-4o-mini"

	// maxContextChars bounds the document text placed in the prompt.
	maxContextChars = 120_000
	maxSuggestions  = 5
)

// OpenAIChatConfig holds configuration for the LLM chat backend.
type OpenAIChatConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // Optional, for OpenAI-compatible gateways and tests
	Temperature float64
	// RateLimit is in requests per minute.
	RateLimit  int
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIChatClient implements ChatBackend with an OpenAI-compatible chat
// model that answers from the extracted document.
type OpenAIChatClient struct {
	cfg     OpenAIChatConfig
	limiter *RateLimiter
	client  openai.Client
}

// NewOpenAIChatClient creates a new LLM chat backend.
func NewOpenAIChatClient(cfg OpenAIChatConfig) *OpenAIChatClient {
	if cfg.Model == "" {
		cfg.Model = openAIChatDefaultModel
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 60
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// User actions are never retried; the SDK's own retries are disabled.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIChatClient{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateLimit),
		client:  openai.NewClient(opts...),
	}
}

// Name returns the backend identifier.
func (c *OpenAIChatClient) Name() string {
	return OpenAIChatName
}

// Model returns the configured model.
func (c *OpenAIChatClient) Model() string {
	return c.cfg.Model
}

// Limiter returns the request pacer.
func (c *OpenAIChatClient) Limiter() *RateLimiter {
	return c.limiter
}

// Chat answers message from the document content.
func (c *OpenAIChatClient) Chat(ctx context.Context, doc *types.DocumentResponse, message string) (*types.ChatResponse, error) {
	system := chatSystemPrompt + "\n\n" + documentContext(doc)

	content, err := c.complete(ctx, system, message, "chat_answer", chatAnswerSchema)
	if err != nil {
		return nil, err
	}

	var answer types.ChatResponse
	if err := decodeStructured(content, chatAnswerValidator, &answer); err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer.Message) == "" {
		return nil, fmt.Errorf("chat answer has an empty message")
	}

	answer.SourceChunks = knownChunkIDs(doc, answer.SourceChunks)
	answer.SuggestedQuestions = trimQuestions(answer.SuggestedQuestions)
	return &answer, nil
}

// SuggestQuestions asks the model for follow-up questions about the document.
func (c *OpenAIChatClient) SuggestQuestions(ctx context.Context, doc *types.DocumentResponse) ([]string, error) {
	system := suggestSystemPrompt + "\n\n" + documentContext(doc)

	content, err := c.complete(ctx, system, "Suggest questions about this document.", "suggested_questions", suggestionsSchema)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := decodeStructured(content, suggestionsValidator, &resp); err != nil {
		return nil, err
	}
	return trimQuestions(resp.Questions), nil
}

func (c *OpenAIChatClient) complete(ctx context.Context, system, user, schemaName, schemaRaw string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(schemaRaw), &schema); err != nil {
		return "", fmt.Errorf("invalid response schema: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

const chatSystemPrompt = `You answer questions about a single extracted document.
Use only the document content below. If the answer is not in the document, say so.
Reply with JSON: "message" is your answer in markdown, "sourceChunks" lists the chunk ids
you relied on, "suggestedQuestions" lists up to 5 short follow-up questions.`

const suggestSystemPrompt = `You suggest questions a reader might ask about a single extracted document.
Reply with JSON: "questions" lists up to 5 short questions answerable from the document.`

// documentContext renders the document for the prompt: normalized markdown
// followed by the chunk index.
func documentContext(doc *types.DocumentResponse) string {
	if doc == nil {
		return "Document: (empty)"
	}

	var b strings.Builder
	b.WriteString("Document markdown:\n")
	b.WriteString(markdown.Normalize(doc.Markdown))
	b.WriteString("\n\nChunks:\n")
	for _, ch := range doc.Chunks {
		page := "-"
		if p, ok := ch.FirstPage(); ok {
			page = fmt.Sprint(types.UIPage(p))
		}
		fmt.Fprintf(&b, "[%s] (%s, page %s) %s\n", ch.ChunkID, ch.ChunkType, page, markdown.CollapseWhitespace(markdown.ConvertTables(ch.Text)))
	}

	text := b.String()
	if len(text) > maxContextChars {
		text = text[:maxContextChars] + "\n...[truncated]"
	}
	return text
}

// knownChunkIDs drops ids the model invented.
func knownChunkIDs(doc *types.DocumentResponse, ids []string) []string {
	if doc == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := doc.ChunkByID(id); ok {
			out = append(out, id)
		}
	}
	return out
}

func trimQuestions(qs []string) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = http.StatusText(apiErr.StatusCode)
		}
		return &APIError{Service: "openai", Status: apiErr.StatusCode, Detail: detail}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &TransportError{Service: "openai", Err: err}
}

// Verify interface
var _ ChatBackend = (*OpenAIChatClient)(nil)
