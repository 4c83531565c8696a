package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// chatAnswerSchema constrains the LLM chat backend's reply.
const chatAnswerSchema = `{
	"type": "object",
	"properties": {
		"message": {"type": "string"},
		"sourceChunks": {"type": "array", "items": {"type": "string"}},
		"suggestedQuestions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["message", "sourceChunks", "suggestedQuestions"],
	"additionalProperties": false
}`

// suggestionsSchema constrains the LLM suggest-questions reply.
const suggestionsSchema = `{
	"type": "object",
	"properties": {
		"questions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["questions"],
	"additionalProperties": false
}`

// Both schemas are constants, so they are compiled once at init.
var (
	chatAnswerValidator  = jsonschema.MustCompileString("chat_answer.json", chatAnswerSchema)
	suggestionsValidator = jsonschema.MustCompileString("suggestions.json", suggestionsSchema)
)

// parseStructuredJSON pulls a JSON object out of a model reply. The reply is
// tried as-is, then without a surrounding code fence, then as the span from
// the first '{' to the last '}'.
func parseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty structured output")
	}

	for _, candidate := range []string{content, unfence(content), objectSpan(content)} {
		if candidate == "" {
			continue
		}
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, fmt.Errorf("no JSON object in structured output")
}

// unfence returns the body of a ``` fenced reply, or "" if the reply is not
// fenced.
func unfence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}
	_, body, ok := strings.Cut(content, "\n")
	if !ok {
		return ""
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

func objectSpan(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return content[start : end+1]
}

// validateStructuredJSON checks parsed JSON against a compiled schema.
func validateStructuredJSON(schema *jsonschema.Schema, parsed json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(parsed, &doc); err != nil {
		return fmt.Errorf("failed to decode structured JSON for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("structured output does not match schema: %w", err)
	}
	return nil
}

// decodeStructured parses model output, validates it against schema and
// unmarshals it into out.
func decodeStructured(content string, schema *jsonschema.Schema, out any) error {
	parsed, err := parseStructuredJSON(content)
	if err != nil {
		return err
	}
	if err := validateStructuredJSON(schema, parsed); err != nil {
		return err
	}
	if err := json.Unmarshal(parsed, out); err != nil {
		return fmt.Errorf("failed to decode structured output: %w", err)
	}
	return nil
}
