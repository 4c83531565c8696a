package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jackzampolin/docview/internal/types"
)

const ProxyName = "proxy"

// ProxyConfig holds configuration for the chat/parse proxy client.
type ProxyConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// ProxyClient talks to the thin proxy that fronts the extraction and chat
// services. It implements both ChatBackend and Parser.
type ProxyClient struct {
	cfg    ProxyConfig
	client *http.Client
}

// NewProxyClient creates a new proxy client.
func NewProxyClient(cfg ProxyConfig) *ProxyClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ProxyClient{cfg: cfg, client: client}
}

// Name returns the backend identifier.
func (c *ProxyClient) Name() string {
	return ProxyName
}

// Parse asks the proxy to re-parse a previously uploaded document.
func (c *ProxyClient) Parse(ctx context.Context, documentID string) (*types.DocumentResponse, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}

	var resp struct {
		Data   types.DocumentResponse `json:"data"`
		Errors []types.PageError      `json:"errors,omitempty"`
	}
	if err := c.doRequest(ctx, "parse", "/parse/"+url.PathEscape(documentID), nil, &resp); err != nil {
		return nil, err
	}

	doc := resp.Data
	doc.Errors = append(doc.Errors, resp.Errors...)
	if doc.DocumentID == "" {
		doc.DocumentID = documentID
	}
	return &doc, nil
}

// Chat sends the document and message to the proxy's chat endpoint.
func (c *ProxyClient) Chat(ctx context.Context, doc *types.DocumentResponse, message string) (*types.ChatResponse, error) {
	req := proxyChatRequest{DocumentData: doc, Message: message}

	var resp types.ChatResponse
	if err := c.doRequest(ctx, "chat", "/chat", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" && resp.Message == "" {
		return nil, &APIError{Service: "chat", Status: http.StatusOK, Detail: resp.Error}
	}
	return &resp, nil
}

// SuggestQuestions asks the proxy for follow-up questions.
func (c *ProxyClient) SuggestQuestions(ctx context.Context, doc *types.DocumentResponse) ([]string, error) {
	req := proxySuggestRequest{DocumentData: doc}

	var resp proxySuggestResponse
	if err := c.doRequest(ctx, "suggest-questions", "/suggest-questions", req, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// doRequest POSTs body as JSON (or nothing when body is nil) and decodes
// the response into out.
func (c *ProxyClient) doRequest(ctx context.Context, service, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Service: service, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Service: service, Status: resp.StatusCode, Detail: parseDetail(resp.StatusCode, respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", service, err)
	}
	return nil
}

// Proxy API types

type proxyChatRequest struct {
	DocumentData *types.DocumentResponse `json:"documentData"`
	Message      string                  `json:"message"`
}

type proxySuggestRequest struct {
	DocumentData *types.DocumentResponse `json:"documentData"`
}

type proxySuggestResponse struct {
	Questions []string `json:"questions"`
}

// Verify interfaces
var (
	_ ChatBackend = (*ProxyClient)(nil)
	_ Parser      = (*ProxyClient)(nil)
)
