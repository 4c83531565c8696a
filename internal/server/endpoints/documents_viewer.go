package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/overlay"
	"github.com/jackzampolin/docview/internal/session"
)

// GetPageEndpoint handles GET /api/documents/{id}/pages/{page}.
type GetPageEndpoint struct{}

var _ api.Endpoint = (*GetPageEndpoint)(nil)

func (e *GetPageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/pages/{page}", e.handler
}

func (e *GetPageEndpoint) RequiresInit() bool { return true }

func (e *GetPageEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Get page overlay
//	@Description	Returns the bounding boxes of the chunks grounded on a 1-based page
//	@Tags			viewer
//	@Produce		json
//	@Param			id		path		string	true	"Document ID"
//	@Param			page	path		int		true	"1-based page number"
//	@Success		200		{object}	session.PageView
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/documents/{id}/pages/{page} [get]
func (e *GetPageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	sess := lookup(w, r)
	if sess == nil {
		return
	}
	view, err := sess.Page(page)
	if err != nil {
		writeServiceError(w, err, sess.ID)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (e *GetPageEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "page <id> <page>",
		Short: "Show the bounding boxes on a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp session.PageView
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0]+"/pages/"+args[1], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SelectRequest is the body for POST /api/documents/{id}/select.
type SelectRequest struct {
	// ChunkID to select; empty clears the selection.
	ChunkID string `json:"chunk_id"`
	// Source is "box" for an overlay click or "list" for the content pane.
	Source string `json:"source,omitempty"`
}

// SelectChunkEndpoint handles POST /api/documents/{id}/select.
type SelectChunkEndpoint struct{}

var _ api.Endpoint = (*SelectChunkEndpoint)(nil)

func (e *SelectChunkEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/select", e.handler
}

func (e *SelectChunkEndpoint) RequiresInit() bool { return true }

func (e *SelectChunkEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Select chunk
//	@Description	Selects a chunk from the overlay or the content pane. A list selection also moves to the chunk's page.
//	@Tags			viewer
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Document ID"
//	@Param			request	body		SelectRequest	true	"Selection"
//	@Success		200		{object}	overlay.State
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/documents/{id}/select [post]
func (e *SelectChunkEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Source == "" {
		req.Source = overlay.SourceList
	}
	if req.Source != overlay.SourceBox && req.Source != overlay.SourceList {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("source must be %q or %q", overlay.SourceBox, overlay.SourceList))
		return
	}

	sess := lookup(w, r)
	if sess == nil {
		return
	}

	var state overlay.State
	var err error
	if req.ChunkID == "" {
		state, err = sess.ClearSelection()
	} else {
		state, err = sess.Select(req.Source, req.ChunkID)
	}
	if err != nil {
		writeServiceError(w, err, sess.ID)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (e *SelectChunkEndpoint) Command(getServerURL func() string) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "select <id> [chunk-id]",
		Short: "Select a chunk, or clear the selection when none is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := SelectRequest{Source: source}
			if len(args) == 2 {
				req.ChunkID = args[1]
			}
			client := api.NewClient(getServerURL())
			var resp overlay.State
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/select", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&source, "source", overlay.SourceList, "Selection source: box or list")
	return cmd
}

// NavigateRequest is the body for POST /api/documents/{id}/page. Page
// wins over Delta when both are set.
type NavigateRequest struct {
	Page  *int `json:"page,omitempty"`
	Delta int  `json:"delta,omitempty"`
}

// NavigateEndpoint handles POST /api/documents/{id}/page.
type NavigateEndpoint struct{}

var _ api.Endpoint = (*NavigateEndpoint)(nil)

func (e *NavigateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/{id}/page", e.handler
}

func (e *NavigateEndpoint) RequiresInit() bool { return true }

func (e *NavigateEndpoint) Group() (string, string) { return groupDocuments() }

// handler godoc
//
//	@Summary		Navigate pages
//	@Description	Moves to an absolute 1-based page or by a delta, clamped to the document
//	@Tags			viewer
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Document ID"
//	@Param			request	body		NavigateRequest	true	"Target page"
//	@Success		200		{object}	overlay.State
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/documents/{id}/page [post]
func (e *NavigateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Page == nil && req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "page or delta is required")
		return
	}

	sess := lookup(w, r)
	if sess == nil {
		return
	}

	var state overlay.State
	var err error
	if req.Page != nil {
		state, err = sess.GoTo(*req.Page)
	} else {
		state, err = sess.Step(req.Delta)
	}
	if err != nil {
		writeServiceError(w, err, sess.ID)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (e *NavigateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var page, delta int
	cmd := &cobra.Command{
		Use:   "goto <id>",
		Short: "Move the viewer to a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req NavigateRequest
			switch {
			case cmd.Flags().Changed("page"):
				req.Page = &page
			case delta != 0:
				req.Delta = delta
			default:
				return fmt.Errorf("--page or --delta is required")
			}
			client := api.NewClient(getServerURL())
			var resp overlay.State
			if err := client.Post(cmd.Context(), "/api/documents/"+args[0]+"/page", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Absolute 1-based page")
	cmd.Flags().IntVar(&delta, "delta", 0, "Pages to move, e.g. 1 or -1")
	return cmd
}
