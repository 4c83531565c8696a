package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jackzampolin/docview/internal/chat"
	"github.com/jackzampolin/docview/internal/markdown"
	"github.com/jackzampolin/docview/internal/overlay"
	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/session"
	"github.com/jackzampolin/docview/internal/svcctx"
	"github.com/jackzampolin/docview/internal/upload"
)

// documentsGroup is the CLI parent for per-document commands.
const documentsGroup = "documents"

func groupDocuments() (string, string) {
	return documentsGroup, "Upload, inspect and chat with documents"
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Kind is the failure class for upstream and validation errors.
	Kind string `json:"kind,omitempty"`
	// DocumentID is set when the failure was recorded on a document.
	DocumentID string `json:"document_id,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps err to a status and writes it. documentID is
// included when the failure was recorded on a session.
func writeServiceError(w http.ResponseWriter, err error, documentID string) {
	resp := ErrorResponse{Error: err.Error(), DocumentID: documentID}
	status := statusFor(err)
	if status == http.StatusBadRequest || status == http.StatusBadGateway {
		state := session.Classify(err)
		resp.Kind = string(state.Kind)
		resp.Error = state.Message
	}
	writeJSON(w, status, resp)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var apiErr *providers.APIError
	var te *providers.TransportError
	switch {
	case errors.Is(err, upload.ErrUnsupportedType),
		errors.Is(err, upload.ErrTooLarge),
		errors.Is(err, upload.ErrTooManyPages),
		errors.Is(err, upload.ErrEmpty),
		errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, overlay.ErrUnknownChunk),
		errors.Is(err, session.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrNoDocument):
		return http.StatusConflict
	case errors.As(err, &apiErr), errors.As(err, &te):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// sessionsOr503 returns the session manager or writes 503.
func sessionsOr503(w http.ResponseWriter, r *http.Request) *session.Manager {
	m := svcctx.SessionsFrom(r.Context())
	if m == nil {
		writeError(w, http.StatusServiceUnavailable, "session manager not initialized")
	}
	return m
}

// lookup resolves the {id} path value to a session, writing the error
// response when it cannot.
func lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	m := sessionsOr503(w, r)
	if m == nil {
		return nil
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return nil
	}
	sess, err := m.Store().Get(id)
	if err != nil {
		writeServiceError(w, err, "")
		return nil
	}
	return sess
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// unchanged.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

// rendererFor returns the shared markdown renderer.
func rendererFor(r *http.Request) *markdown.Renderer {
	if renderer := svcctx.RendererFrom(r.Context()); renderer != nil {
		return renderer
	}
	return markdown.Default()
}
