package endpoints

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/session"
)

// ReparseDocumentEndpoint handles POST /api/documents/{id}/parse.
type ReparseDocumentEndpoint struct{}

var _ api.Endpoint = (*ReparseDocumentEndpoint)(nil)

func (e *ReparseDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/parse", e.handler
}

func (e *ReparseDocumentEndpoint) RequiresInit() bool { return true }

func (e *ReparseDocumentEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Re-parse document
//	@Description	Asks the chat proxy to extract the document again by its document ID
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	session.View
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/api/documents/{id}/parse [post]
func (e *ReparseDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	m := sessionsOr503(w, r)
	if m == nil {
		return
	}
	id := r.PathValue("id")
	sess, err := m.Reparse(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, sess.View(true))
}

func (e *ReparseDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <id>",
		Short: "Re-parse a document through the chat proxy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp session.View
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/parse", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DocumentSourceEndpoint handles GET /api/documents/{id}/source.
type DocumentSourceEndpoint struct{}

var _ api.Endpoint = (*DocumentSourceEndpoint)(nil)

func (e *DocumentSourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/source", e.handler
}

func (e *DocumentSourceEndpoint) RequiresInit() bool { return true }

func (e *DocumentSourceEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Get original file
//	@Description	Returns the uploaded bytes for the preview pane
//	@Tags			documents
//	@Produce		application/pdf
//	@Produce		image/png
//	@Produce		image/jpeg
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{file}	binary
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{id}/source [get]
func (e *DocumentSourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess := lookup(w, r)
	if sess == nil {
		return
	}
	data, contentType := sess.Source()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", sess.FileName))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

func (e *DocumentSourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "source <id>",
		Short: "Download the original file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, _, err := client.GetRaw(cmd.Context(), "/api/documents/"+args[0]+"/source")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Printf("Wrote %d bytes to %s\n", len(data), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "file", "f", "source.bin", "Destination file")
	return cmd
}

// Markdown formats for GET /api/documents/{id}/markdown.
const (
	formatJSON     = "json"
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// DocumentMarkdownEndpoint handles GET /api/documents/{id}/markdown.
type DocumentMarkdownEndpoint struct{}

var _ api.Endpoint = (*DocumentMarkdownEndpoint)(nil)

func (e *DocumentMarkdownEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/markdown", e.handler
}

func (e *DocumentMarkdownEndpoint) RequiresInit() bool { return true }

func (e *DocumentMarkdownEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Get rendered markdown
//	@Description	Runs the document markdown through table conversion, comment stripping, math rendering and HTML sanitization
//	@Tags			documents
//	@Produce		json
//	@Produce		html
//	@Produce		text/markdown
//	@Param			id		path		string	true	"Document ID"
//	@Param			format	query		string	false	"json (default), html or markdown"
//	@Success		200		{object}	markdown.Rendered
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/documents/{id}/markdown [get]
func (e *DocumentMarkdownEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatHTML && format != formatMarkdown {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format: %q", format))
		return
	}

	sess := lookup(w, r)
	if sess == nil {
		return
	}
	doc := sess.Document()
	if doc == nil {
		writeServiceError(w, session.ErrNoDocument, sess.ID)
		return
	}

	rendered, err := rendererFor(r).Render(doc.Markdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch format {
	case formatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(rendered.HTML))
	case formatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(rendered.Markdown))
	default:
		writeJSON(w, http.StatusOK, rendered)
	}
}

func (e *DocumentMarkdownEndpoint) Command(getServerURL func() string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "markdown <id>",
		Short: "Print a document's normalized markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatHTML && format != formatMarkdown {
				return fmt.Errorf("format must be %s or %s", formatHTML, formatMarkdown)
			}
			client := api.NewClient(getServerURL())
			data, _, err := client.GetRaw(cmd.Context(), "/api/documents/"+args[0]+"/markdown?format="+format)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatMarkdown, "Output format: markdown or html")
	return cmd
}

// GetChunkEndpoint handles GET /api/documents/{id}/chunks/{chunk_id}.
type GetChunkEndpoint struct{}

var _ api.Endpoint = (*GetChunkEndpoint)(nil)

func (e *GetChunkEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/chunks/{chunk_id}", e.handler
}

func (e *GetChunkEndpoint) RequiresInit() bool { return true }

func (e *GetChunkEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Get chunk
//	@Description	Returns one chunk with its rendered HTML and 1-based page
//	@Tags			documents
//	@Produce		json
//	@Param			id			path		string	true	"Document ID"
//	@Param			chunk_id	path		string	true	"Chunk ID"
//	@Success		200			{object}	session.ChunkView
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Router			/api/documents/{id}/chunks/{chunk_id} [get]
func (e *GetChunkEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess := lookup(w, r)
	if sess == nil {
		return
	}
	view, err := sess.Chunk(rendererFor(r), r.PathValue("chunk_id"))
	if err != nil {
		writeServiceError(w, err, sess.ID)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (e *GetChunkEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chunk <id> <chunk-id>",
		Short: "Get one chunk of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp session.ChunkView
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0]+"/chunks/"+args[1], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
