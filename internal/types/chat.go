package types

// Role is the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Role         Role     `json:"role"`
	Content      string   `json:"content"`
	SourceChunks []string `json:"sourceChunks,omitempty"`
}

// ChatResponse is the answer from a chat backend.
type ChatResponse struct {
	Message            string   `json:"message"`
	SourceChunks       []string `json:"sourceChunks,omitempty"`
	Error              string   `json:"error,omitempty"`
	SuggestedQuestions []string `json:"suggestedQuestions,omitempty"`
}
