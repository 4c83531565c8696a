package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/chat"
	"github.com/jackzampolin/docview/internal/types"
)

// GetChatEndpoint handles GET /api/documents/{id}/chat.
type GetChatEndpoint struct{}

var _ api.Endpoint = (*GetChatEndpoint)(nil)

func (e *GetChatEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/chat", e.handler
}

func (e *GetChatEndpoint) RequiresInit() bool { return true }

func (e *GetChatEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Get chat transcript
//	@Description	Returns the transcript and the current suggested questions
//	@Tags			chat
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	chat.Snapshot
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{id}/chat [get]
func (e *GetChatEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess := lookup(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Conversation().Snapshot())
}

func (e *GetChatEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <id>",
		Short: "Show a document's chat transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp chat.Snapshot
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0]+"/chat", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ChatRequest is the body for POST /api/documents/{id}/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatTurnResponse is the reply to one chat turn.
type ChatTurnResponse struct {
	Reply              types.ChatMessage `json:"reply"`
	SuggestedQuestions []string          `json:"suggestedQuestions"`
}

// PostChatEndpoint handles POST /api/documents/{id}/chat.
type PostChatEndpoint struct{}

var _ api.Endpoint = (*PostChatEndpoint)(nil)

func (e *PostChatEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/chat", e.handler
}

func (e *PostChatEndpoint) RequiresInit() bool { return true }

func (e *PostChatEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Ask about a document
//	@Description	Runs one chat turn. On backend failure the transcript records a fallback reply and 502 is returned.
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Document ID"
//	@Param			request	body		ChatRequest	true	"Question"
//	@Success		200		{object}	ChatTurnResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/documents/{id}/chat [post]
func (e *PostChatEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := sessionsOr503(w, r)
	if m == nil {
		return
	}
	id := r.PathValue("id")
	reply, err := m.Chat(r.Context(), id, req.Message)
	if err != nil {
		writeServiceError(w, err, id)
		return
	}

	sess, err := m.Store().Get(id)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ChatTurnResponse{
		Reply:              reply,
		SuggestedQuestions: sess.Conversation().Snapshot().SuggestedQuestions,
	})
}

func (e *PostChatEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <id> <message...>",
		Short: "Ask a question about a document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := ChatRequest{Message: strings.Join(args[1:], " ")}
			var resp ChatTurnResponse
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/chat", req, &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}
			fmt.Println(resp.Reply.Content)
			if len(resp.Reply.SourceChunks) > 0 {
				fmt.Printf("\nSources: %s\n", strings.Join(resp.Reply.SourceChunks, ", "))
			}
			return nil
		},
	}
}

// SuggestionsResponse is the reply to POST /api/documents/{id}/suggest-questions.
type SuggestionsResponse struct {
	SuggestedQuestions []string `json:"suggestedQuestions"`
}

// SuggestQuestionsEndpoint handles POST /api/documents/{id}/suggest-questions.
type SuggestQuestionsEndpoint struct{}

var _ api.Endpoint = (*SuggestQuestionsEndpoint)(nil)

func (e *SuggestQuestionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/suggest-questions", e.handler
}

func (e *SuggestQuestionsEndpoint) RequiresInit() bool { return true }

func (e *SuggestQuestionsEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Suggest questions
//	@Description	Asks the chat backend for questions about the document. The previous list is kept on failure.
//	@Tags			chat
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	SuggestionsResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/api/documents/{id}/suggest-questions [post]
func (e *SuggestQuestionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	m := sessionsOr503(w, r)
	if m == nil {
		return
	}
	id := r.PathValue("id")
	qs, err := m.Suggest(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, id)
		return
	}
	if qs == nil {
		qs = []string{}
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{SuggestedQuestions: qs})
}

func (e *SuggestQuestionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <id>",
		Short: "Suggest questions about a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SuggestionsResponse
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/suggest-questions", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
