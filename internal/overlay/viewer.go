package overlay

import (
	"errors"

	"github.com/jackzampolin/docview/internal/types"
)

// ErrUnknownChunk is returned when a selection names a chunk the document
// does not contain.
var ErrUnknownChunk = errors.New("unknown chunk")

// Selection source values.
const (
	SourceBox  = "box"
	SourceList = "list"
)

// State is a snapshot of what the viewer shows.
type State struct {
	Page            int    `json:"page"`
	PageCount       int    `json:"page_count"`
	SelectedChunkID string `json:"selected_chunk_id,omitempty"`
	ScrollTarget    string `json:"scroll_target,omitempty"`
}

// Viewer is the page and chunk selection state for one document.
// Pages are 1-based. A Viewer is not safe for concurrent use; callers
// guard it with the owning session's lock.
type Viewer struct {
	state  State
	chunks []types.DocumentChunk
}

// NewViewer starts on the first page with nothing selected.
func NewViewer(doc *types.DocumentResponse) *Viewer {
	count := doc.ComputedPageCount()
	if count < 1 {
		count = 1
	}
	return &Viewer{
		state:  State{Page: 1, PageCount: count},
		chunks: doc.Chunks,
	}
}

// State returns the current snapshot.
func (v *Viewer) State() State {
	return v.state
}

// Boxes returns the highlights for the current page.
func (v *Viewer) Boxes() []Box {
	return BoxesOnPage(v.chunks, v.state.Page)
}

// ClickBox selects the chunk behind a highlight on the current page.
// The page does not change.
func (v *Viewer) ClickBox(chunkID string) error {
	if _, ok := v.find(chunkID); !ok {
		return ErrUnknownChunk
	}
	v.state.SelectedChunkID = chunkID
	v.state.ScrollTarget = chunkID
	return nil
}

// Select selects a chunk from the content pane and moves to the page of
// its first grounding entry. Ungrounded chunks are selected in place.
func (v *Viewer) Select(chunkID string) error {
	c, ok := v.find(chunkID)
	if !ok {
		return ErrUnknownChunk
	}
	v.state.SelectedChunkID = chunkID
	v.state.ScrollTarget = chunkID
	if page, ok := c.FirstPage(); ok {
		v.GoTo(types.UIPage(page))
	}
	return nil
}

// SelectFrom dispatches to ClickBox or Select by source.
func (v *Viewer) SelectFrom(source, chunkID string) error {
	if source == SourceBox {
		return v.ClickBox(chunkID)
	}
	return v.Select(chunkID)
}

// GoTo moves to page, clamped to [1, PageCount], and returns the page shown.
func (v *Viewer) GoTo(page int) int {
	if page < 1 {
		page = 1
	}
	if page > v.state.PageCount {
		page = v.state.PageCount
	}
	v.state.Page = page
	return page
}

// Next moves forward one page.
func (v *Viewer) Next() int { return v.GoTo(v.state.Page + 1) }

// Prev moves back one page.
func (v *Viewer) Prev() int { return v.GoTo(v.state.Page - 1) }

// ClearSelection drops the selected chunk and scroll target.
func (v *Viewer) ClearSelection() {
	v.state.SelectedChunkID = ""
	v.state.ScrollTarget = ""
}

func (v *Viewer) find(id string) (types.DocumentChunk, bool) {
	for _, c := range v.chunks {
		if c.ChunkID == id {
			return c, true
		}
	}
	return types.DocumentChunk{}, false
}
