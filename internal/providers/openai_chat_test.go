package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// completionServer answers every chat completion with content.
func completionServer(t *testing.T, content string, check func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization: %s", auth)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if check != nil {
			check(body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestOpenAIChatClient_Chat(t *testing.T) {
	doc := SampleDocument()

	t.Run("structured answer", func(t *testing.T) {
		answer := `{"message":"The total is **$126.00**.","sourceChunks":["5e0d6a91","made-up"],"suggestedQuestions":["When is it due?"," "]}`
		server := completionServer(t, answer, func(body map[string]any) {
			if body["model"] != "gpt-4o-mini" {
				t.Errorf("model = %v", body["model"])
			}
			rf, _ := body["response_format"].(map[string]any)
			if rf["type"] != "json_schema" {
				t.Errorf("response_format = %v", body["response_format"])
			}
			msgs, _ := body["messages"].([]any)
			if len(msgs) != 2 {
				t.Errorf("got %d messages, want 2", len(msgs))
				return
			}
			system, _ := msgs[0].(map[string]any)
			if content, _ := system["content"].(string); !strings.Contains(content, "[5e0d6a91] (table, page 1)") {
				t.Errorf("system prompt missing chunk index: %q", content)
			}
		})
		defer server.Close()

		client := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
		resp, err := client.Chat(context.Background(), doc, "What is the total?")
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if resp.Message != "The total is **$126.00**." {
			t.Errorf("Message = %q", resp.Message)
		}
		if len(resp.SourceChunks) != 1 || resp.SourceChunks[0] != "5e0d6a91" {
			t.Errorf("SourceChunks = %v, want only known ids", resp.SourceChunks)
		}
		if len(resp.SuggestedQuestions) != 1 {
			t.Errorf("SuggestedQuestions = %v", resp.SuggestedQuestions)
		}
	})

	t.Run("fenced output is recovered", func(t *testing.T) {
		server := completionServer(t, "```json\n{\"message\":\"ok\",\"sourceChunks\":[],\"suggestedQuestions\":[]}\n```", nil)
		defer server.Close()

		client := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
		resp, err := client.Chat(context.Background(), doc, "hi")
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if resp.Message != "ok" {
			t.Errorf("Message = %q", resp.Message)
		}
	})

	t.Run("schema mismatch", func(t *testing.T) {
		server := completionServer(t, `{"answer":"wrong shape"}`, nil)
		defer server.Close()

		client := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
		if _, err := client.Chat(context.Background(), doc, "hi"); err == nil {
			t.Error("expected schema validation error")
		}
	})

	t.Run("empty message", func(t *testing.T) {
		server := completionServer(t, `{"message":"  ","sourceChunks":[],"suggestedQuestions":[]}`, nil)
		defer server.Close()

		client := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
		if _, err := client.Chat(context.Background(), doc, "hi"); err == nil {
			t.Error("expected error for empty message")
		}
	})

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		client := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
		_, err := client.Chat(context.Background(), doc, "hi")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.Status != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", apiErr.Status)
		}
	})
}

func TestOpenAIChatClient_SuggestQuestions(t *testing.T) {
	server := completionServer(t, `{"questions":["Who is billed?","What is the due date?","a?","b?","c?","d?"]}`, nil)
	defer server.Close()

	client := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
	qs, err := client.SuggestQuestions(context.Background(), SampleDocument())
	if err != nil {
		t.Fatalf("SuggestQuestions() error = %v", err)
	}
	if len(qs) != maxSuggestions {
		t.Errorf("got %d questions, want %d", len(qs), maxSuggestions)
	}
}

func TestDocumentContext(t *testing.T) {
	text := documentContext(SampleDocument())
	if strings.Contains(text, "<!--") {
		t.Error("expected chunk comments stripped from prompt")
	}
	if !strings.Contains(text, "| Item | Qty | Unit price | Amount |") {
		t.Errorf("expected tables converted to markdown, got:\n%s", text)
	}
	if documentContext(nil) == "" {
		t.Error("expected placeholder for nil document")
	}
}
