package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/session"
	"github.com/jackzampolin/docview/internal/svcctx"
	"github.com/jackzampolin/docview/internal/upload"
)

// multipartOverhead is the slack allowed above the file size limit for
// form boundaries and the other fields.
const multipartOverhead = 1 << 20

// UploadDocumentEndpoint handles POST /api/documents.
type UploadDocumentEndpoint struct{}

var _ api.Endpoint = (*UploadDocumentEndpoint)(nil)

func (e *UploadDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents", e.handler
}

func (e *UploadDocumentEndpoint) RequiresInit() bool { return true }

func (e *UploadDocumentEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Upload and extract a document
//	@Description	Validates a JPEG, PNG or PDF, sends it to the extraction API and opens it in the viewer
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			file							formData	file	true	"Document to extract"
//	@Param			include_marginalia				formData	bool	false	"Keep headers, footers and page numbers"
//	@Param			include_metadata_in_markdown	formData	bool	false	"Keep chunk metadata comments in the markdown"
//	@Param			pages							formData	string	false	"Page selection passed to the extraction API"
//	@Success		200								{object}	session.View
//	@Failure		400								{object}	ErrorResponse
//	@Failure		502								{object}	ErrorResponse
//	@Failure		503								{object}	ErrorResponse
//	@Router			/api/documents [post]
func (e *UploadDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	m := sessionsOr503(w, r)
	if m == nil {
		return
	}
	limits := m.Options().Limits

	if limits.MaxBytes > 0 {
		if r.ContentLength > limits.MaxBytes+multipartOverhead {
			writeServiceError(w, limits.CheckSize(r.ContentLength), "")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limits.MaxBytes+multipartOverhead)
	}

	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeServiceError(w, fmt.Errorf("%w: request exceeds %d bytes", upload.ErrTooLarge, tooBig.Limit), "")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if err := limits.CheckSize(header.Size); err != nil {
		writeServiceError(w, err, "")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	req := session.UploadRequest{
		FileName: header.Filename,
		Data:     data,
		Pages:    r.FormValue("pages"),
	}
	if req.IncludeMarginalia, err = formBool(r, "include_marginalia"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IncludeMetadataInMarkdown, err = formBool(r, "include_metadata_in_markdown"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := m.Upload(r.Context(), req)
	if err != nil {
		id := ""
		if sess != nil {
			id = sess.ID
		}
		writeServiceError(w, err, id)
		return
	}

	writeJSON(w, http.StatusOK, sess.View(true))
}

// formBool parses an optional boolean form field; absent means nil.
func formBool(r *http.Request, name string) (*bool, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func (e *UploadDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var marginalia, metadata bool
	var pages string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate locally so an oversized or unsupported file never
			// leaves the machine.
			file, err := upload.DefaultLimits().ReadFile(args[0])
			if err != nil {
				return err
			}

			fields := map[string]string{}
			if cmd.Flags().Changed("marginalia") {
				fields["include_marginalia"] = strconv.FormatBool(marginalia)
			}
			if cmd.Flags().Changed("metadata") {
				fields["include_metadata_in_markdown"] = strconv.FormatBool(metadata)
			}
			if pages != "" {
				fields["pages"] = pages
			}

			client := api.NewClient(getServerURL())
			var resp session.View
			part := api.FilePart{Field: "file", FileName: file.Name, ContentType: string(file.Kind), Data: file.Data}
			if err := client.PostMultipart(cmd.Context(), "/api/documents", part, fields, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&marginalia, "marginalia", false, "Keep headers, footers and page numbers")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "Keep chunk metadata comments in the markdown")
	cmd.Flags().StringVar(&pages, "pages", "", "Page selection, e.g. 0,2-4")
	return cmd
}

// DocumentListResponse is the response for GET /api/documents.
type DocumentListResponse struct {
	Documents []session.Summary `json:"documents"`
	Total     int               `json:"total"`
}

// ListDocumentsEndpoint handles GET /api/documents.
type ListDocumentsEndpoint struct{}

var _ api.Endpoint = (*ListDocumentsEndpoint)(nil)

func (e *ListDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents", e.handler
}

func (e *ListDocumentsEndpoint) RequiresInit() bool { return true }

func (e *ListDocumentsEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		List documents
//	@Description	Lists open documents, newest first
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/documents [get]
func (e *ListDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	m := sessionsOr503(w, r)
	if m == nil {
		return
	}
	docs := m.Store().List()
	if docs == nil {
		docs = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

func (e *ListDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp DocumentListResponse
			if err := client.Get(cmd.Context(), "/api/documents", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetDocumentEndpoint handles GET /api/documents/{id}.
type GetDocumentEndpoint struct{}

var _ api.Endpoint = (*GetDocumentEndpoint)(nil)

func (e *GetDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}", e.handler
}

func (e *GetDocumentEndpoint) RequiresInit() bool { return true }

func (e *GetDocumentEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Get document
//	@Description	Returns the document's status, extraction data, error state and viewer position
//	@Tags			documents
//	@Produce		json
//	@Param			id		path		string	true	"Document ID"
//	@Param			data	query		bool	false	"Include extraction data (default true)"
//	@Success		200		{object}	session.View
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/documents/{id} [get]
func (e *GetDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess := lookup(w, r)
	if sess == nil {
		return
	}
	withData := true
	if raw := r.URL.Query().Get("data"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid data: %q", raw))
			return
		}
		withData = v
	}
	writeJSON(w, http.StatusOK, sess.View(withData))
}

func (e *GetDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var withData bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp session.View
			path := fmt.Sprintf("/api/documents/%s?data=%t", args[0], withData)
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&withData, "data", false, "Include the extraction data")
	return cmd
}

// DeleteDocumentEndpoint handles DELETE /api/documents/{id}.
type DeleteDocumentEndpoint struct{}

var _ api.Endpoint = (*DeleteDocumentEndpoint)(nil)

func (e *DeleteDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/documents/{id}", e.handler
}

func (e *DeleteDocumentEndpoint) RequiresInit() bool { return true }

func (e *DeleteDocumentEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Delete document
//	@Description	Discards a document and its chat transcript
//	@Tags			documents
//	@Param			id	path	string	true	"Document ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/documents/{id} [delete]
func (e *DeleteDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	m := sessionsOr503(w, r)
	if m == nil {
		return
	}
	id := r.PathValue("id")
	if err := m.Store().Delete(id); err != nil {
		writeServiceError(w, err, "")
		return
	}
	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("document deleted", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/documents/"+args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted document: %s\n", args[0])
			return nil
		},
	}
}
